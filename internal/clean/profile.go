package clean

import (
	"time"

	"github.com/Manju4599/data-cleaner-app/internal/table"
)

// ColumnProfile summarizes one column for previews: inferred kind plus
// missing counts. Kind is a coarse heuristic (numeric, date, text).
type ColumnProfile struct {
	Name        string  `json:"name"`
	Kind        string  `json:"kind"`
	Missing     int     `json:"missing"`
	MissingFrac float64 `json:"missing_fraction"`
}

var dateLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"02-01-2006", "01-02-2006", "20060102", "January 2, 2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05",
}

func looksLikeDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// Profile infers a per-column summary without modifying the table.
func Profile(t *table.Table) []ColumnProfile {
	if t == nil {
		return nil
	}
	out := make([]ColumnProfile, len(t.Columns))
	for col, name := range t.Columns {
		p := ColumnProfile{Name: name, Kind: "text"}
		dates, values := 0, 0
		for _, row := range t.Rows {
			if col >= len(row) || isMissing(row[col]) {
				p.Missing++
				continue
			}
			values++
			if looksLikeDate(row[col]) {
				dates++
			}
		}
		if _, numeric := columnNumbers(t.Rows, col); numeric {
			p.Kind = "numeric"
		} else if values > 0 && dates*2 > values {
			p.Kind = "date"
		}
		if len(t.Rows) > 0 {
			p.MissingFrac = float64(p.Missing) / float64(len(t.Rows))
		}
		out[col] = p
	}
	return out
}
