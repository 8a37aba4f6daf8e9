// Package report holds the write-once summary of a cleaning run.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

// EmptyTableMarker is the error value recorded when the cleaning
// engine is handed a table with no content.
const EmptyTableMarker = "Empty DataFrame"

// Report records what a cleaning run changed. It is assembled once,
// after every stage has run, and never mutated afterwards.
type Report struct {
	Err string

	OriginalRows    int
	OriginalColumns int
	FinalRows       int
	FinalColumns    int

	RowsRemoved       int
	ColumnsRemoved    int
	DuplicatesRemoved int

	Timestamp time.Time
}

// Empty returns the report used for a degenerate input table: the
// error marker and nothing else.
func Empty() Report {
	return Report{Err: EmptyTableMarker, Timestamp: time.Now()}
}

// ToMap renders the report as a flat mapping of JSON-primitive values.
// Float values are scrubbed through Sanitize so no NaN or Infinity can
// reach a serializer. The duplicates counter is included only when
// duplicates were actually removed.
func (r Report) ToMap() map[string]any {
	if r.Err != "" {
		return map[string]any{"error": r.Err}
	}
	m := map[string]any{
		"original_rows":      r.OriginalRows,
		"original_columns":   r.OriginalColumns,
		"final_rows":         r.FinalRows,
		"final_columns":      r.FinalColumns,
		"rows_removed":       r.RowsRemoved,
		"columns_removed":    r.ColumnsRemoved,
		"cleaning_timestamp": r.Timestamp.Format(time.RFC3339),
	}
	if r.DuplicatesRemoved > 0 {
		m["duplicates_removed"] = r.DuplicatesRemoved
	}
	return m
}

// JSON renders the report map as indented JSON.
func (r Report) JSON() ([]byte, error) {
	b, err := json.MarshalIndent(r.ToMap(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return b, nil
}

// YAML renders the report map as YAML.
func (r Report) YAML() ([]byte, error) {
	b, err := yaml.Marshal(r.ToMap())
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return b, nil
}

// Sanitize makes an arbitrary primitive value safe for JSON: NaN and
// infinite floats become nil, everything else passes through. Callers
// building report-adjacent mappings (e.g. previews with per-column
// fractions) run values through here.
func Sanitize(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return x
	case float32:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	default:
		return v
	}
}
