package ingest

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type recordingObserver struct {
	attempted []string
	succeeded string
}

func (o *recordingObserver) StrategyAttempted(strategy, encoding string) {
	o.attempted = append(o.attempted, strategy)
}

func (o *recordingObserver) StrategyResult(strategy, encoding string, rows, cols int, err error) {
	if err == nil {
		o.succeeded = strategy
	}
}

func (o *recordingObserver) StageApplied(stage string, affected int) {}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestResolveCleanCSV(t *testing.T) {
	obs := &recordingObserver{}
	r := NewResolver(obs)
	path := writeTemp(t, "data.csv", []byte("name,age\nAlice,30\nBob,25\n"))

	got, err := r.Resolve(path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got.Columns) != 2 || len(got.Rows) != 2 {
		t.Fatalf("got %d columns, %d rows; want 2, 2", len(got.Columns), len(got.Rows))
	}
	if got.Rows[0][0] != "Alice" {
		t.Errorf("Rows[0][0] = %q, want Alice", got.Rows[0][0])
	}
	if obs.succeeded != "structured_strict" {
		t.Errorf("succeeded via %q, want structured_strict", obs.succeeded)
	}
}

func TestResolveSemicolonDelimited(t *testing.T) {
	obs := &recordingObserver{}
	r := NewResolver(obs)
	path := writeTemp(t, "data.csv", []byte("name;age\nAlice;30\nBob;25\n"))

	got, err := r.Resolve(path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got.Columns) != 2 {
		t.Fatalf("got %d columns, want 2 (columns %v)", len(got.Columns), got.Columns)
	}
	if got.Columns[0] != "name" || got.Rows[0][1] != "30" {
		t.Errorf("unexpected table %v %v", got.Columns, got.Rows)
	}
	if obs.succeeded != "manual_tokenize" {
		t.Errorf("succeeded via %q, want manual_tokenize", obs.succeeded)
	}
}

func TestResolveRaggedRows(t *testing.T) {
	obs := &recordingObserver{}
	r := NewResolver(obs)
	path := writeTemp(t, "ragged.csv", []byte("a,b,c\n1,2\n1,2,3,4\n"))

	got, err := r.Resolve(path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if obs.succeeded != "structured_lenient" {
		t.Errorf("succeeded via %q, want structured_lenient", obs.succeeded)
	}
	for i, row := range got.Rows {
		if len(row) != len(got.Columns) {
			t.Fatalf("row %d has width %d, want %d", i, len(row), len(got.Columns))
		}
	}
	if got.Rows[0][2] != "" {
		t.Errorf("short row not padded: %v", got.Rows[0])
	}
	if got.Rows[1][2] != "3,4" {
		t.Errorf("overflow not merged: %v", got.Rows[1])
	}
}

func TestResolveLatin1(t *testing.T) {
	r := NewResolver(nil)
	path := writeTemp(t, "latin.csv", []byte("name,city\nJos\xe9,Madrid\n"))

	got, err := r.Resolve(path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Rows[0][0] != "José" {
		t.Errorf("Rows[0][0] = %q, want José", got.Rows[0][0])
	}
}

func TestResolveJSONRecords(t *testing.T) {
	r := NewResolver(nil)
	body := []byte(`[{"a": 1, "b": "x"}, {"b": "y", "c": null}]`)
	path := writeTemp(t, "records.json", body)

	got, err := r.Resolve(path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantCols := []string{"a", "b", "c"}
	for i, c := range wantCols {
		if got.Columns[i] != c {
			t.Fatalf("Columns = %v, want %v", got.Columns, wantCols)
		}
	}
	if got.Rows[0][0] != "1" || got.Rows[0][1] != "x" || got.Rows[0][2] != "" {
		t.Errorf("Rows[0] = %v", got.Rows[0])
	}
	if got.Rows[1][0] != "" || got.Rows[1][1] != "y" {
		t.Errorf("Rows[1] = %v", got.Rows[1])
	}
}

func TestResolveJSONArrayWithTxtExtension(t *testing.T) {
	r := NewResolver(nil)
	path := writeTemp(t, "records.txt", []byte(`[{"id": 7}]`))

	got, err := r.Resolve(path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Columns[0] != "id" || got.Rows[0][0] != "7" {
		t.Errorf("unexpected table %v %v", got.Columns, got.Rows)
	}
}

func xlsxFixture(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := map[string]string{
		"xl/workbook.xml": `<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><sheets><sheet name="Data" sheetId="1" r:id="rId1"/></sheets></workbook>`,
		"xl/_rels/workbook.xml.rels": `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/></Relationships>`,
		"xl/sharedStrings.xml": `<sst><si><t>name</t></si><si><t>age</t></si><si><t>Alice</t></si></sst>`,
		"xl/worksheets/sheet1.xml": `<worksheet><sheetData>` +
			`<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>` +
			`<row r="2"><c r="A2" t="s"><v>2</v></c><c r="B2"><v>30</v></c></row>` +
			`</sheetData></worksheet>`,
	}
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestResolveXLSX(t *testing.T) {
	obs := &recordingObserver{}
	r := NewResolver(obs)
	path := writeTemp(t, "book.xlsx", xlsxFixture(t))

	got, err := r.Resolve(path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Columns[0] != "name" || got.Columns[1] != "age" {
		t.Fatalf("Columns = %v", got.Columns)
	}
	if got.Rows[0][0] != "Alice" || got.Rows[0][1] != "30" {
		t.Errorf("Rows[0] = %v", got.Rows[0])
	}
	if obs.succeeded != "xlsx" {
		t.Errorf("succeeded via %q, want xlsx", obs.succeeded)
	}
}

func TestResolveXLSXWithCSVName(t *testing.T) {
	// Workbook bytes under a lying extension still resolve through the
	// zip magic.
	r := NewResolver(nil)
	path := writeTemp(t, "mislabeled.csv", xlsxFixture(t))

	got, err := r.Resolve(path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Rows[0][0] != "Alice" {
		t.Errorf("Rows[0][0] = %q, want Alice", got.Rows[0][0])
	}
}

func TestResolveBinaryJunk(t *testing.T) {
	r := NewResolver(nil)
	scratch := t.TempDir()
	r.ScratchDir = scratch
	path := writeTemp(t, "junk.csv", []byte{0x00, 0x01, 0xff, 0xfe, 0x89, 0x50})

	_, err := r.Resolve(path)
	var unreadable *UnreadableError
	if !errors.As(err, &unreadable) {
		t.Fatalf("err = %v, want *UnreadableError", err)
	}
	if len(unreadable.Attempts) == 0 {
		t.Error("no attempts recorded")
	}
	left, err := os.ReadDir(scratch)
	if err != nil {
		t.Fatalf("read scratch dir: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("scratch files left behind: %v", left)
	}
}

func TestResolveCorruptZip(t *testing.T) {
	r := NewResolver(nil)
	path := writeTemp(t, "broken.csv", []byte("PK\x03\x04\x00\xde\xad\xbe\xef"))

	_, err := r.Resolve(path)
	var unreadable *UnreadableError
	if !errors.As(err, &unreadable) {
		t.Fatalf("err = %v, want *UnreadableError", err)
	}
}

func TestResolveEmptyFile(t *testing.T) {
	r := NewResolver(nil)
	r.ScratchDir = t.TempDir()
	path := writeTemp(t, "empty.csv", nil)

	_, err := r.Resolve(path)
	var unreadable *UnreadableError
	if !errors.As(err, &unreadable) {
		t.Fatalf("err = %v, want *UnreadableError", err)
	}
	left, _ := os.ReadDir(r.ScratchDir)
	if len(left) != 0 {
		t.Errorf("scratch files left behind: %v", left)
	}
}

func TestResolveMissingFile(t *testing.T) {
	r := NewResolver(nil)
	_, err := r.Resolve(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var unreadable *UnreadableError
	if errors.As(err, &unreadable) {
		t.Error("I/O failure should not report as unreadable content")
	}
}

func TestRepairAndReparse(t *testing.T) {
	r := NewResolver(nil)
	r.ScratchDir = t.TempDir()

	var attempts []Attempt
	fail := func(strategy, enc, reason string) {
		attempts = append(attempts, Attempt{Strategy: strategy, Encoding: enc, Reason: reason})
	}

	got, ok := r.repairAndReparse([]byte("\uFEFFa,b\n1,2,3\n4\n"), fail)
	if !ok {
		t.Fatalf("repair failed: %v", attempts)
	}
	if len(got.Columns) != 2 || len(got.Rows) != 2 {
		t.Fatalf("got %d columns, %d rows; want 2, 2", len(got.Columns), len(got.Rows))
	}
	if got.Rows[0][1] != "2,3" {
		t.Errorf("overflow not merged: %v", got.Rows[0])
	}
	if got.Rows[1][1] != "" {
		t.Errorf("short row not padded: %v", got.Rows[1])
	}
	left, _ := os.ReadDir(r.ScratchDir)
	if len(left) != 0 {
		t.Errorf("scratch files left behind: %v", left)
	}
}

func TestUnreadableErrorMessage(t *testing.T) {
	err := &UnreadableError{
		Path: "bad.csv",
		Attempts: []Attempt{
			{Strategy: "structured_strict", Encoding: "utf-8", Reason: "no content"},
		},
	}
	msg := err.Error()
	if msg == "" || !bytes.Contains([]byte(msg), []byte("structured_strict")) {
		t.Errorf("unhelpful message %q", msg)
	}
}
