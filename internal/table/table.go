// Package table defines the rectangular table model shared by the
// ingestion resolver and the cleaning engine.
package table

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Table is an ordered set of column names plus positional rows of
// string cells. Every row is expected to have exactly len(Columns)
// cells; Normalize enforces that shape.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New returns a table with the given header and no rows.
func New(columns []string) *Table {
	return &Table{Columns: columns}
}

// IsEmpty reports whether the table has no usable content: either no
// columns or no data rows.
func (t *Table) IsEmpty() bool {
	return t == nil || len(t.Columns) == 0 || len(t.Rows) == 0
}

// Width returns the canonical row width, which is the header width.
func (t *Table) Width() int {
	return len(t.Columns)
}

// Normalize reshapes every row to the header width: short rows are
// padded with empty cells, and overflow cells are merged into the
// final column joined with commas. Rows are modified in place.
func (t *Table) Normalize() {
	w := len(t.Columns)
	if w == 0 {
		return
	}
	for i, row := range t.Rows {
		switch {
		case len(row) < w:
			padded := make([]string, w)
			copy(padded, row)
			t.Rows[i] = padded
		case len(row) > w:
			merged := make([]string, w)
			copy(merged, row[:w-1])
			merged[w-1] = strings.Join(row[w-1:], ",")
			t.Rows[i] = merged
		}
	}
}

// Clone returns a deep copy. The cleaning engine operates on a clone
// so the caller's table is never aliased.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	cp := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		cp.Rows[i] = append([]string(nil), row...)
	}
	return cp
}

// Records renders the rows as ordered column->cell maps, the shape
// used for record-oriented JSON output.
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(map[string]string, len(t.Columns))
		for j, col := range t.Columns {
			if j < len(row) {
				rec[col] = row[j]
			} else {
				rec[col] = ""
			}
		}
		out[i] = rec
	}
	return out
}

// WriteCSV writes the table as UTF-8 comma-delimited text.
func (t *Table) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteJSON writes the table as a JSON array of records.
func (t *Table) WriteJSON(path string) error {
	b, err := json.MarshalIndent(t.Records(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
