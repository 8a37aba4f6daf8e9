// Package clean implements the cleaning engine: a fixed, ordered
// pipeline of table transformations plus the report of what changed.
package clean

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Manju4599/data-cleaner-app/internal/observe"
	"github.com/Manju4599/data-cleaner-app/internal/report"
	"github.com/Manju4599/data-cleaner-app/internal/table"
)

// MissingPlaceholder fills missing cells in non-numeric columns.
const MissingPlaceholder = "Unknown"

// Engine runs the cleaning pipeline. It never mutates the caller's
// table and never fails: cell-level faults degrade to the documented
// fallback fill.
type Engine struct {
	obs observe.Observer
}

// NewEngine returns an engine reporting through obs; nil means silent.
func NewEngine(obs observe.Observer) *Engine {
	if obs == nil {
		obs = observe.Nop()
	}
	return &Engine{obs: obs}
}

// Clean applies the pipeline to an owned copy of t and returns the
// cleaned table together with its report. An empty input yields an
// empty table and a report carrying only the error marker.
func (e *Engine) Clean(t *table.Table, cfg Config) (*table.Table, report.Report) {
	if t.IsEmpty() {
		return table.New(nil), report.Empty()
	}

	work := t.Clone()
	work.Normalize()
	origRows, origCols := len(work.Rows), len(work.Columns)

	e.normalizeColumnNames(work)
	e.dropSparseColumns(work, cfg.MissingThreshold)
	e.imputeMissing(work, cfg.HandleMissing)

	dupes := 0
	if cfg.HandleDuplicates == DuplicatesDrop {
		dupes = e.dropDuplicates(work)
	}
	if cfg.StandardizeText {
		e.standardizeText(work)
	}

	rep := report.Report{
		OriginalRows:      origRows,
		OriginalColumns:   origCols,
		FinalRows:         len(work.Rows),
		FinalColumns:      len(work.Columns),
		RowsRemoved:       origRows - len(work.Rows),
		ColumnsRemoved:    origCols - len(work.Columns),
		DuplicatesRemoved: dupes,
		Timestamp:         time.Now(),
	}
	return work, rep
}

var (
	nonWordRe    = regexp.MustCompile(`[^a-zA-Z0-9_\s]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeName canonicalizes a single column name: trim, strip
// characters outside the word/whitespace set, collapse whitespace runs
// to single underscores, lowercase. Empty results become "column".
// The function is idempotent.
func NormalizeName(name string) string {
	s := strings.TrimSpace(name)
	s = nonWordRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(strings.TrimSpace(s), "_")
	s = strings.ToLower(s)
	if s == "" {
		return "column"
	}
	return s
}

// normalizeColumnNames rewrites the header. Names that collide after
// normalization are suffixed _2, _3, ... in first-seen order.
func (e *Engine) normalizeColumnNames(t *table.Table) {
	seen := make(map[string]bool, len(t.Columns))
	renamed := 0
	for i, col := range t.Columns {
		name := NormalizeName(col)
		if seen[name] {
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s_%d", name, n)
				if !seen[candidate] {
					name = candidate
					break
				}
			}
		}
		seen[name] = true
		if name != t.Columns[i] {
			renamed++
		}
		t.Columns[i] = name
	}
	e.obs.StageApplied("normalize_column_names", renamed)
}

// dropSparseColumns removes columns whose missing fraction strictly
// exceeds the threshold.
func (e *Engine) dropSparseColumns(t *table.Table, threshold float64) {
	if len(t.Rows) == 0 {
		e.obs.StageApplied("drop_sparse_columns", 0)
		return
	}
	var keep []int
	for col := range t.Columns {
		missing := 0
		for _, row := range t.Rows {
			if isMissing(row[col]) {
				missing++
			}
		}
		frac := float64(missing) / float64(len(t.Rows))
		if frac <= threshold {
			keep = append(keep, col)
		}
	}
	dropped := len(t.Columns) - len(keep)
	if dropped > 0 {
		selectColumns(t, keep)
	}
	e.obs.StageApplied("drop_sparse_columns", dropped)
}

func selectColumns(t *table.Table, keep []int) {
	cols := make([]string, len(keep))
	for i, c := range keep {
		cols[i] = t.Columns[c]
	}
	for ri, row := range t.Rows {
		next := make([]string, len(keep))
		for i, c := range keep {
			next[i] = row[c]
		}
		t.Rows[ri] = next
	}
	t.Columns = cols
}

// imputeMissing fills missing cells column by column. Numeric columns
// get a computed statistic per the policy; everything else gets the
// placeholder. Imputation never looks across columns.
func (e *Engine) imputeMissing(t *table.Table, policy MissingPolicy) {
	filled := 0
	for col := range t.Columns {
		missing := 0
		for _, row := range t.Rows {
			if isMissing(row[col]) {
				missing++
			}
		}
		if missing == 0 {
			continue
		}
		fill := MissingPlaceholder
		if vals, numeric := columnNumbers(t.Rows, col); numeric {
			switch policy {
			case MissingMean:
				fill = formatNumber(mean(vals))
			case MissingMode:
				if m, ok := mode(vals); ok {
					fill = formatNumber(m)
				}
			default: // auto and median both take the median
				fill = formatNumber(median(vals))
			}
		}
		for _, row := range t.Rows {
			if isMissing(row[col]) {
				row[col] = fill
			}
		}
		filled += missing
	}
	e.obs.StageApplied("impute_missing", filled)
}

// dropDuplicates removes rows that duplicate an earlier row across
// every cell, keeping the first occurrence. Returns the removed count.
func (e *Engine) dropDuplicates(t *table.Table) int {
	seen := make(map[string]bool, len(t.Rows))
	kept := t.Rows[:0]
	removed := 0
	for _, row := range t.Rows {
		key := strings.Join(row, "\x1f")
		if seen[key] {
			removed++
			continue
		}
		seen[key] = true
		kept = append(kept, row)
	}
	t.Rows = kept
	e.obs.StageApplied("drop_duplicates", removed)
	return removed
}

// standardizeText trims whitespace on non-numeric columns, skipping
// columns whose first non-missing value looks like currency or a
// bracketed literal, where exact formatting may be significant.
func (e *Engine) standardizeText(t *table.Table) {
	trimmed := 0
	for col := range t.Columns {
		if _, numeric := columnNumbers(t.Rows, col); numeric {
			continue
		}
		if skipStandardization(sampleValue(t.Rows, col)) {
			continue
		}
		for _, row := range t.Rows {
			if cell := strings.TrimSpace(row[col]); cell != row[col] {
				row[col] = cell
				trimmed++
			}
		}
	}
	e.obs.StageApplied("standardize_text", trimmed)
}

func sampleValue(rows [][]string, col int) string {
	for _, row := range rows {
		if !isMissing(row[col]) {
			return row[col]
		}
	}
	return ""
}

func skipStandardization(sample string) bool {
	if strings.ContainsAny(sample, "$€£") {
		return true
	}
	return strings.HasPrefix(strings.TrimSpace(sample), "[")
}
