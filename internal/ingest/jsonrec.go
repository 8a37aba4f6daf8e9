package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Manju4599/data-cleaner-app/internal/table"
)

// readJSONRecords parses a record-oriented JSON document: a top-level
// array of flat objects. Columns appear in first-seen key order across
// the whole array; null values become empty cells and scalars are
// stringified.
func readJSONRecords(data []byte) (*table.Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("expected top-level array, got %v", tok)
	}

	var columns []string
	colIndex := map[string]int{}
	var records []map[int]string

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, fmt.Errorf("expected object record, got %v", tok)
		}
		rec := map[int]string{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("read key: %w", err)
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("non-string key %v", keyTok)
			}
			valTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("read value for %q: %w", key, err)
			}
			val := ""
			if d, ok := valTok.(json.Delim); ok && (d == '{' || d == '[') {
				// Nested structures are outside the record-oriented
				// shape; swallow them and leave the cell empty.
				if err := skipNested(dec); err != nil {
					return nil, fmt.Errorf("skip nested value for %q: %w", key, err)
				}
			} else {
				val = stringifyScalar(valTok)
			}
			idx, seen := colIndex[key]
			if !seen {
				idx = len(columns)
				colIndex[key] = idx
				columns = append(columns, key)
			}
			rec[idx] = val
		}
		if _, err := dec.Token(); err != nil { // consume '}'
			return nil, fmt.Errorf("read record end: %w", err)
		}
		records = append(records, rec)
	}

	t := table.New(columns)
	for _, rec := range records {
		row := make([]string, len(columns))
		for idx, val := range rec {
			row[idx] = val
		}
		t.Rows = append(t.Rows, row)
	}
	t.Normalize()
	return t, nil
}

func stringifyScalar(tok json.Token) string {
	switch v := tok.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// skipNested consumes tokens until the already-opened array or object
// is balanced again.
func skipNested(dec *json.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
