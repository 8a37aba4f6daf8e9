package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// mojibakeTable maps known wrong-charset substitution patterns (UTF-8
// read as Latin-1, Windows dashes, non-breaking spaces) onto the
// intended characters. Longer sequences come first so the bare "Ã"
// catch-all cannot shadow them.
var mojibakeTable = []struct{ from, to string }{
	{"â€", "-"},
	{"Ã©", "é"},
	{"Ã¡", "á"},
	{"Ã³", "ó"},
	{"Ã±", "ñ"},
	{"Ãº", "ú"},
	{"Ã¼", "ü"},
	{"Ã§", "ç"},
	{"Ã­", "í"},
	{"Â", ""},
	{"Ã", "í"},
	{" ", " "},
	{"\x96", "-"},
	{"\x97", "-"},
}

var (
	spaceBeforeQuoteRe = regexp.MustCompile(`,\s+"`)
	spaceAfterQuoteRe  = regexp.MustCompile(`"\s+,`)
	trailingQuoteRe    = regexp.MustCompile(`"\s*$`)
)

// RepairContent applies the content-cleaning pass: normalized line
// endings, BOM removal, mojibake substitution, stray spaces around
// quotes, blank-line removal, and delimiter-count reconciliation
// against the header.
//
// The reconciliation is a heuristic: lines with too few commas are
// padded and lines with too many have the excess fields merged into a
// single quoted trailing field. That silently corrupts rows where an
// interior column legitimately contains an unquoted comma.
func RepairContent(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.TrimPrefix(content, "\uFEFF")

	for _, sub := range mojibakeTable {
		content = strings.ReplaceAll(content, sub.from, sub.to)
	}

	content = spaceBeforeQuoteRe.ReplaceAllString(content, `,"`)
	content = spaceAfterQuoteRe.ReplaceAllString(content, `",`)

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, trailingQuoteRe.ReplaceAllString(line, `"`))
	}
	if len(lines) == 0 {
		return ""
	}

	expected := strings.Count(lines[0], ",")
	fixed := make([]string, 0, len(lines))
	fixed = append(fixed, lines[0])
	for _, line := range lines[1:] {
		fixed = append(fixed, reconcileDelimiters(line, expected))
	}
	return strings.Join(fixed, "\n")
}

// reconcileDelimiters forces a data line to carry exactly the header's
// comma count: short lines gain empty trailing fields, long lines have
// the overflow joined into one quoted final field.
func reconcileDelimiters(line string, expected int) string {
	count := strings.Count(line, ",")
	switch {
	case count < expected:
		return line + strings.Repeat(",", expected-count)
	case count > expected:
		parts := strings.Split(line, ",")
		head := strings.Join(parts[:expected], ",")
		tail := strings.Join(parts[expected:], ",")
		return head + `,"` + tail + `"`
	default:
		return line
	}
}

// writeScratch persists repaired content to a uniquely named scratch
// file under dir (os.TempDir when empty). Callers must remove the file
// on every exit path.
func writeScratch(dir, content string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, fmt.Sprintf("datacleaner-%s.csv", uuid.NewString()))
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	return path, nil
}
