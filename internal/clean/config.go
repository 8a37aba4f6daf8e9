package clean

import (
	"strconv"
	"strings"
)

// MissingPolicy selects how missing cells are filled.
type MissingPolicy string

const (
	MissingAuto   MissingPolicy = "auto"
	MissingMean   MissingPolicy = "mean"
	MissingMedian MissingPolicy = "median"
	MissingMode   MissingPolicy = "mode"
)

// DuplicatePolicy selects what happens to exact-duplicate rows.
type DuplicatePolicy string

const (
	DuplicatesDrop DuplicatePolicy = "drop"
	DuplicatesKeep DuplicatePolicy = "keep"
)

// Config holds the cleaning options. Zero value is not meaningful;
// start from DefaultConfig or ConfigFromMap.
type Config struct {
	// MissingThreshold drops columns whose missing fraction strictly
	// exceeds it. Range [0,1].
	MissingThreshold float64
	HandleMissing    MissingPolicy
	HandleDuplicates DuplicatePolicy
	StandardizeText  bool
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MissingThreshold: 0.5,
		HandleMissing:    MissingAuto,
		HandleDuplicates: DuplicatesDrop,
		StandardizeText:  false,
	}
}

// ConfigFromMap builds a Config from a flat option mapping, the shape
// callers submit over HTTP. Unrecognized keys are ignored; missing or
// malformed values fall back to the defaults.
func ConfigFromMap(m map[string]any) Config {
	cfg := DefaultConfig()
	if m == nil {
		return cfg
	}
	if v, ok := m["missing_threshold"]; ok {
		if f, ok := toFloat(v); ok && f >= 0 && f <= 1 {
			cfg.MissingThreshold = f
		}
	}
	if v, ok := m["handle_missing"]; ok {
		switch MissingPolicy(strings.ToLower(toString(v))) {
		case MissingAuto:
			cfg.HandleMissing = MissingAuto
		case MissingMean:
			cfg.HandleMissing = MissingMean
		case MissingMedian:
			cfg.HandleMissing = MissingMedian
		case MissingMode:
			cfg.HandleMissing = MissingMode
		}
	}
	if v, ok := m["handle_duplicates"]; ok {
		switch DuplicatePolicy(strings.ToLower(toString(v))) {
		case DuplicatesDrop:
			cfg.HandleDuplicates = DuplicatesDrop
		case DuplicatesKeep:
			cfg.HandleDuplicates = DuplicatesKeep
		}
	}
	if v, ok := m["standardize_text"]; ok {
		if b, ok := toBool(v); ok {
			cfg.StandardizeText = b
		}
	}
	return cfg
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

func toBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return b, err == nil
	default:
		return false, false
	}
}
