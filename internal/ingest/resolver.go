// Package ingest turns files of unknown encoding and structure into
// rectangular tables. A descending cascade of strategies is tried,
// each more tolerant (and lossier) than the last; the resolver fails
// only when every tier produced nothing usable.
package ingest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Manju4599/data-cleaner-app/internal/observe"
	"github.com/Manju4599/data-cleaner-app/internal/table"
)

// Attempt records one failed parsing attempt for diagnostics.
type Attempt struct {
	Strategy string
	Encoding string
	Reason   string
}

// UnreadableError is returned when the whole cascade is exhausted. It
// carries every attempted strategy and why each one was rejected.
type UnreadableError struct {
	Path     string
	Attempts []Attempt
}

func (e *UnreadableError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "file %s is unreadable after %d attempts", e.Path, len(e.Attempts))
	for _, a := range e.Attempts {
		b.WriteString("\n  ")
		b.WriteString(a.Strategy)
		if a.Encoding != "" {
			b.WriteString("[" + a.Encoding + "]")
		}
		b.WriteString(": " + a.Reason)
	}
	return b.String()
}

// Resolver runs the strategy cascade. The zero value is not usable;
// construct with NewResolver.
type Resolver struct {
	obs observe.Observer

	// ScratchDir overrides where repair scratch files are written.
	// Empty means the system temp directory. Scratch files are named
	// uniquely per invocation and removed on every exit path.
	ScratchDir string
}

// NewResolver returns a resolver reporting through obs; nil means silent.
func NewResolver(obs observe.Observer) *Resolver {
	if obs == nil {
		obs = observe.Nop()
	}
	return &Resolver{obs: obs}
}

// xlsxMagic is the ZIP local-file header that opens every xlsx workbook.
var xlsxMagic = []byte("PK\x03\x04")

// Resolve reads the file at path and produces a table, or an
// *UnreadableError once every strategy has been exhausted. The file is
// read once up front and never written to.
func (r *Resolver) Resolve(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var attempts []Attempt
	fail := func(strategy, enc string, reason string) {
		attempts = append(attempts, Attempt{Strategy: strategy, Encoding: enc, Reason: reason})
	}

	// Format-specific readers run first, keyed on content magic as
	// well as extension: extensions are hints, never trusted.
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" || ext == ".xls" || bytes.HasPrefix(data, xlsxMagic) {
		if t, ok := r.try("xlsx", "", fail, func() (*table.Table, error) {
			return readXLSX(data)
		}, acceptNonEmpty); ok {
			return t, nil
		}
	}
	if ext == ".json" || looksLikeJSONArray(data) {
		if t, ok := r.try("json_records", "", fail, func() (*table.Table, error) {
			return readJSONRecords(data)
		}, acceptNonEmpty); ok {
			return t, nil
		}
	}

	guess := DetectEncoding(data)
	encodings := encodingSweep(guess.Accepted())

	// Tier 2: strict structured parse. Single-column results are
	// treated as delimiter mis-detection, not valid data.
	for _, enc := range encodings {
		if t, ok := r.try("structured_strict", enc, fail, func() (*table.Table, error) {
			content, err := decode(data, enc, false)
			if err != nil {
				return nil, err
			}
			return parseDelimited(content, false)
		}, acceptMultiColumn); ok {
			return t, nil
		}
	}

	// Tier 3: tolerant structured parse, skipping malformed rows.
	for _, enc := range encodings {
		if t, ok := r.try("structured_lenient", enc, fail, func() (*table.Table, error) {
			content, err := decode(data, enc, true)
			if err != nil {
				return nil, err
			}
			t, err := parseDelimited(content, true)
			if err != nil {
				return nil, err
			}
			return t, checkDegenerate(t, content)
		}, acceptNonEmpty); ok {
			return t, nil
		}
	}

	// Tier 4: manual tokenization with byte-level substitution.
	for _, enc := range encodings {
		if t, ok := r.try("manual_tokenize", enc, fail, func() (*table.Table, error) {
			content, err := decode(data, enc, true)
			if err != nil {
				return nil, err
			}
			return manualTokenize(content), nil
		}, acceptNonEmpty); ok {
			return t, nil
		}
	}

	// Tier 5: repair the content and re-run the structured and manual
	// parsers against a scratch copy.
	if t, ok := r.repairAndReparse(data, fail); ok {
		return t, nil
	}

	return nil, &UnreadableError{Path: path, Attempts: attempts}
}

// try runs one strategy, reports checkpoints, and applies the tier's
// acceptance rule.
func (r *Resolver) try(
	strategy, enc string,
	fail func(strategy, enc, reason string),
	run func() (*table.Table, error),
	accept func(*table.Table) error,
) (*table.Table, bool) {
	r.obs.StrategyAttempted(strategy, enc)
	t, err := run()
	if err == nil {
		err = accept(t)
	}
	if err != nil {
		r.obs.StrategyResult(strategy, enc, 0, 0, err)
		fail(strategy, enc, err.Error())
		return nil, false
	}
	r.obs.StrategyResult(strategy, enc, len(t.Rows), len(t.Columns), nil)
	return t, true
}

// repairAndReparse is tier 5. The repaired content goes through a
// uniquely named scratch file that is removed before returning, on
// success and failure alike.
func (r *Resolver) repairAndReparse(data []byte, fail func(strategy, enc, reason string)) (*table.Table, bool) {
	content, err := decode(data, "utf-8", true)
	if err != nil {
		fail("repair", "utf-8", err.Error())
		return nil, false
	}
	repaired := RepairContent(content)
	if repaired == "" {
		fail("repair", "utf-8", "no content after repair")
		return nil, false
	}

	scratch, err := writeScratch(r.ScratchDir, repaired)
	if err != nil {
		fail("repair", "utf-8", err.Error())
		return nil, false
	}
	defer os.Remove(scratch)

	fixed, err := os.ReadFile(scratch)
	if err != nil {
		fail("repair", "utf-8", err.Error())
		return nil, false
	}
	text := string(fixed)

	if t, ok := r.try("repair_structured", "utf-8", fail, func() (*table.Table, error) {
		return parseDelimited(text, false)
	}, acceptMultiColumn); ok {
		return t, true
	}
	if t, ok := r.try("repair_lenient", "utf-8", fail, func() (*table.Table, error) {
		t, err := parseDelimited(text, true)
		if err != nil {
			return nil, err
		}
		return t, checkDegenerate(t, text)
	}, acceptNonEmpty); ok {
		return t, true
	}
	if t, ok := r.try("repair_manual", "utf-8", fail, func() (*table.Table, error) {
		return manualTokenize(text), nil
	}, acceptNonEmpty); ok {
		return t, true
	}
	return nil, false
}

// encodingSweep puts the detected encoding first, then the fixed
// fallback order, without repeats or undecodable names.
func encodingSweep(first string) []string {
	out := make([]string, 0, len(fallbackEncodings)+1)
	seen := map[string]bool{}
	add := func(name string) {
		c := canonicalEncoding(name)
		if !seen[c] && decodable(c) {
			seen[c] = true
			out = append(out, c)
		}
	}
	add(first)
	for _, enc := range fallbackEncodings {
		add(enc)
	}
	return out
}

func acceptNonEmpty(t *table.Table) error {
	if t == nil || len(t.Columns) == 0 || len(t.Rows) == 0 {
		return fmt.Errorf("empty result: %d rows, %d columns", rowCount(t), colCount(t))
	}
	return nil
}

func acceptMultiColumn(t *table.Table) error {
	if t == nil || len(t.Rows) == 0 || len(t.Columns) <= 1 {
		return fmt.Errorf("degenerate result: %d rows, %d columns", rowCount(t), colCount(t))
	}
	return nil
}

// checkDegenerate rejects single-column results when the first line
// shows a candidate delimiter: that shape almost always means the
// delimiter was mis-detected, not that the data has one column.
func checkDegenerate(t *table.Table, content string) error {
	if len(t.Columns) == 1 && strings.ContainsAny(firstLine(content), ",;\t|") {
		return fmt.Errorf("degenerate result: 1 column with delimiters present")
	}
	return nil
}

func firstLine(content string) string {
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		return content[:i]
	}
	return content
}

func looksLikeJSONArray(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n\uFEFF")
	return len(trimmed) > 0 && trimmed[0] == '['
}

func rowCount(t *table.Table) int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func colCount(t *table.Table) int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}
