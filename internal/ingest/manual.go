package ingest

import (
	"strings"

	"github.com/Manju4599/data-cleaner-app/internal/table"
)

// candidateDelimiters are counted when sniffing a file by hand.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// delimiterSampleLines bounds how much of the file feeds delimiter
// sniffing.
const delimiterSampleLines = 50

// manualTokenize is the last-resort parser: sniff the delimiter from
// the first line, split every line quote-aware, and shape the result
// to the header width. When no candidate delimiter appears at all it
// degrades to plain comma-splitting.
func manualTokenize(content string) *table.Table {
	lines := contentLines(content)
	if len(lines) == 0 {
		return table.New(nil)
	}

	delim := sniffDelimiter(lines)
	if delim == 0 {
		return plainCommaSplit(lines)
	}

	header := splitQuoted(lines[0], delim)
	t := table.New(header)
	for _, line := range lines[1:] {
		t.Rows = append(t.Rows, splitQuoted(line, delim))
	}
	t.Normalize()
	return t
}

// contentLines normalizes line endings, drops blank lines, and returns
// at most the whole file (the sniffing window is applied separately).
func contentLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// sniffDelimiter counts candidate delimiters in the first line of the
// sample window and picks the most frequent. Zero means none found.
func sniffDelimiter(lines []string) rune {
	sample := lines
	if len(sample) > delimiterSampleLines {
		sample = sample[:delimiterSampleLines]
	}
	first := sample[0]
	var best rune
	bestCount := 0
	for _, d := range candidateDelimiters {
		if n := strings.Count(first, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// splitQuoted splits a line on delim while respecting double-quoted
// fields. Surrounding quotes are stripped and fields trimmed.
func splitQuoted(line string, delim rune) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == delim && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(cur.String()))
	return fields
}

func plainCommaSplit(lines []string) *table.Table {
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		cells := strings.Split(line, ",")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}
	t := table.New(rows[0])
	t.Rows = rows[1:]
	t.Normalize()
	return t
}
