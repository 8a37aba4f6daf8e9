package clean

import (
	"sort"
	"strconv"
	"strings"
)

// isMissing treats empty and whitespace-only cells as missing values.
func isMissing(cell string) bool {
	return strings.TrimSpace(cell) == ""
}

func parseNumber(cell string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	return f, err == nil
}

// columnNumbers returns the parsed non-missing values of a column and
// whether every non-missing cell parsed. A column counts as numeric
// only when it has at least one value and no non-numeric stragglers.
func columnNumbers(rows [][]string, col int) ([]float64, bool) {
	var vals []float64
	for _, row := range rows {
		if col >= len(row) || isMissing(row[col]) {
			continue
		}
		f, ok := parseNumber(row[col])
		if !ok {
			return nil, false
		}
		vals = append(vals, f)
	}
	return vals, len(vals) > 0
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func median(vals []float64) float64 {
	cp := append([]float64(nil), vals...)
	sort.Float64s(cp)
	n := len(cp)
	if n%2 == 1 {
		return cp[n/2]
	}
	return (cp[n/2-1] + cp[n/2]) / 2
}

// mode returns the most frequent value; ties break toward the smaller
// value for determinism. ok is false for an empty input.
func mode(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	counts := make(map[float64]int, len(vals))
	for _, v := range vals {
		counts[v]++
	}
	best, bestN := vals[0], 0
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best, true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
