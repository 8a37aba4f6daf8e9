package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Manju4599/data-cleaner-app/internal/table"
)

// parseDelimited runs a standard comma-delimited parse over decoded
// content. In strict mode any malformed record aborts the parse; in
// lenient mode malformed records are skipped and quoting rules are
// relaxed, mirroring a tolerant engine.
func parseDelimited(content string, lenient bool) (*table.Table, error) {
	r := csv.NewReader(strings.NewReader(content))
	r.TrimLeadingSpace = true
	if lenient {
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
	}

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("no content")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := table.New(append([]string(nil), header...))

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if lenient {
				continue // skip malformed rows
			}
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		t.Rows = append(t.Rows, append([]string(nil), rec...))
	}
	t.Normalize()
	return t, nil
}
