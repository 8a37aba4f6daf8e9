package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/Manju4599/data-cleaner-app/internal/table"
)

// readXLSX extracts the first worksheet of an xlsx workbook into a
// table: first row becomes the header, remaining rows the data. The
// reader understands only what ingestion needs — shared strings,
// inline strings, and plain values.
func readXLSX(data []byte) (*table.Table, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	sheets := workbookSheets(zipEntry(zr, "xl/workbook.xml"))
	rels := workbookRels(zipEntry(zr, "xl/_rels/workbook.xml.rels"))
	shared := sharedStrings(zipEntry(zr, "xl/sharedStrings.xml"))

	target := "xl/worksheets/sheet1.xml"
	if len(sheets) > 0 {
		if rel, ok := rels[sheets[0].rid]; ok {
			target = sheetPath(rel)
		}
	}
	sheetXML := zipEntry(zr, target)
	if len(sheetXML) == 0 {
		return nil, fmt.Errorf("worksheet %s not found", target)
	}

	rows := sheetRows(sheetXML, shared)
	if len(rows) == 0 {
		return nil, fmt.Errorf("worksheet %s has no rows", target)
	}
	t := table.New(rows[0])
	t.Rows = rows[1:]
	t.Normalize()
	return t, nil
}

type sheetRef struct {
	name string
	rid  string
}

func zipEntry(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil
			}
			defer rc.Close()
			b, _ := io.ReadAll(rc)
			return b
		}
	}
	return nil
}

func workbookSheets(data []byte) []sheetRef {
	var sheets []sheetRef
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return sheets
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		var s sheetRef
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "name":
				s.name = a.Value
			case "id": // r:id relationship
				s.rid = a.Value
			}
		}
		sheets = append(sheets, s)
	}
}

func workbookRels(data []byte) map[string]string {
	out := map[string]string{}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var id, target string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				target = a.Value
			}
		}
		if id != "" && target != "" {
			out[id] = target
		}
	}
}

// sheetPath resolves a relationship target against the xl/ prefix.
func sheetPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}

func sharedStrings(data []byte) []string {
	var out []string
	var buf strings.Builder
	inText := false
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "si":
				buf.Reset()
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "t":
				inText = false
			case "si":
				out = append(out, buf.String())
			}
		case xml.CharData:
			if inText {
				buf.Write(se)
			}
		}
	}
}

// sheetRows walks a worksheet's XML and materializes each <row> as a
// string slice, resolving shared-string cells through the table.
func sheetRows(data []byte, shared []string) [][]string {
	var rows [][]string
	dec := xml.NewDecoder(bytes.NewReader(data))
	var cur []string
	width := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return rows
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "row":
				cur, width = nil, 0
			case "c":
				var ref, typ string
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "r":
						ref = a.Value
					case "t":
						typ = a.Value
					}
				}
				col := columnIndex(ref)
				if col < 0 {
					col = width
				}
				if col+1 > width {
					width = col + 1
				}
				val := cellValue(dec, typ, shared)
				if len(cur) <= col {
					grown := make([]string, col+1)
					copy(grown, cur)
					cur = grown
				}
				cur[col] = val
			}
		case xml.EndElement:
			if se.Name.Local == "row" {
				if len(cur) < width {
					grown := make([]string, width)
					copy(grown, cur)
					cur = grown
				}
				rows = append(rows, cur)
			}
		}
	}
}

// cellValue consumes tokens until </c>, capturing <v> or inline <t>
// text and resolving shared-string references.
func cellValue(dec *xml.Decoder, typ string, shared []string) string {
	var val string
	for {
		tok, err := dec.Token()
		if err != nil {
			return val
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "v" || se.Name.Local == "t" {
				var sb strings.Builder
				for {
					inner, err := dec.Token()
					if err != nil {
						break
					}
					if end, ok := inner.(xml.EndElement); ok &&
						(end.Name.Local == "v" || end.Name.Local == "t") {
						break
					}
					if ch, ok := inner.(xml.CharData); ok {
						sb.Write(ch)
					}
				}
				val = sb.String()
			}
		case xml.EndElement:
			if se.Name.Local == "c" {
				if typ == "s" {
					idx := digitsPrefix(val)
					if idx >= 0 && idx < len(shared) {
						return shared[idx]
					}
					return ""
				}
				return val
			}
		}
	}
}

// columnIndex converts an A1-style reference to a zero-based column
// index; -1 when the reference carries no column letters.
func columnIndex(ref string) int {
	i := 0
	for i < len(ref) {
		c := ref[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			i++
			continue
		}
		break
	}
	if i == 0 {
		return -1
	}
	idx := 0
	for _, c := range strings.ToUpper(ref[:i]) {
		idx = idx*26 + int(c-'A'+1)
	}
	return idx - 1
}

func digitsPrefix(s string) int {
	n := 0
	ok := false
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			break
		}
		n = n*10 + int(s[i]-'0')
		ok = true
	}
	if !ok {
		return -1
	}
	return n
}
