package ingest

import "testing"

func TestManualTokenizeSemicolon(t *testing.T) {
	got := manualTokenize("name;age\nAlice;30\nBob;25\n")
	if len(got.Columns) != 2 || got.Columns[0] != "name" {
		t.Fatalf("Columns = %v", got.Columns)
	}
	if got.Rows[1][0] != "Bob" || got.Rows[1][1] != "25" {
		t.Errorf("Rows[1] = %v", got.Rows[1])
	}
}

func TestManualTokenizePipe(t *testing.T) {
	got := manualTokenize("a|b|c\n1|2|3\n")
	if len(got.Columns) != 3 {
		t.Fatalf("got %d columns, want 3", len(got.Columns))
	}
	if got.Rows[0][2] != "3" {
		t.Errorf("Rows[0] = %v", got.Rows[0])
	}
}

func TestManualTokenizeTab(t *testing.T) {
	got := manualTokenize("a\tb\n1\t2\n")
	if len(got.Columns) != 2 || got.Rows[0][1] != "2" {
		t.Errorf("Columns = %v, Rows = %v", got.Columns, got.Rows)
	}
}

func TestManualTokenizeQuotedDelimiter(t *testing.T) {
	got := manualTokenize("name,notes\nAlice,\"likes a, b and c\"\n")
	if len(got.Columns) != 2 {
		t.Fatalf("got %d columns, want 2", len(got.Columns))
	}
	if got.Rows[0][1] != "likes a, b and c" {
		t.Errorf("quoted field split: %q", got.Rows[0][1])
	}
}

func TestManualTokenizeWidthShaping(t *testing.T) {
	got := manualTokenize("a,b,c\n1,2\n1,2,3,4\n")
	for i, row := range got.Rows {
		if len(row) != 3 {
			t.Fatalf("row %d has width %d, want 3", i, len(row))
		}
	}
	if got.Rows[0][2] != "" || got.Rows[1][2] != "3,4" {
		t.Errorf("Rows = %v", got.Rows)
	}
}

func TestManualTokenizeNoDelimiter(t *testing.T) {
	got := manualTokenize("value\none\ntwo\n")
	if len(got.Columns) != 1 || len(got.Rows) != 2 {
		t.Fatalf("Columns = %v, Rows = %v", got.Columns, got.Rows)
	}
}

func TestManualTokenizeEmpty(t *testing.T) {
	got := manualTokenize("")
	if len(got.Columns) != 0 || len(got.Rows) != 0 {
		t.Errorf("expected empty table, got %v %v", got.Columns, got.Rows)
	}
}

func TestManualTokenizeTrimsFields(t *testing.T) {
	got := manualTokenize("a ; b\n 1 ; 2 \n")
	if got.Columns[0] != "a" || got.Columns[1] != "b" {
		t.Errorf("Columns = %v", got.Columns)
	}
	if got.Rows[0][0] != "1" || got.Rows[0][1] != "2" {
		t.Errorf("Rows[0] = %v", got.Rows[0])
	}
}
