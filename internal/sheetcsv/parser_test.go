package sheetcsv

import "testing"

func TestParseTrimsAndUnquotes(t *testing.T) {
	rows := Parse("a , \"b\" ,c\n1,2,3\n")

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	want := []string{"a", "b", "c"}
	for i, cell := range rows[0] {
		if cell != want[i] {
			t.Fatalf("expected cell %d to be %q, got %q", i, want[i], cell)
		}
	}
}

func TestParseHeaderPlusDataRowCount(t *testing.T) {
	rows := Parse("h1,h2\nr1a,r1b\nr2a,r2b\nr3a,r3b\n")
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 data rows, got %d rows", len(rows))
	}
}

func TestParseEmptyInput(t *testing.T) {
	if rows := Parse(""); len(rows) != 0 {
		t.Fatalf("expected no rows for empty input, got %d", len(rows))
	}
}

func TestParseQuotedDelimiters(t *testing.T) {
	rows := Parse("\"a,b\",\"line1\nline2\",\"say \"\"hi\"\"\"")

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if len(row) != 3 {
		t.Fatalf("expected 3 cells, got %d: %v", len(row), row)
	}
	if row[0] != "a,b" {
		t.Fatalf("expected embedded comma preserved, got %q", row[0])
	}
	if row[1] != "line1\nline2" {
		t.Fatalf("expected embedded newline preserved, got %q", row[1])
	}
	if row[2] != "say \"hi\"" {
		t.Fatalf("expected escaped quotes unescaped, got %q", row[2])
	}
}

func TestParseShortRow(t *testing.T) {
	rows := Parse("h1,h2,h3\nonly")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if len(rows[1]) != 1 || rows[1][0] != "only" {
		t.Fatalf("expected short row to pass through, got %v", rows[1])
	}
}

func TestParseCRLF(t *testing.T) {
	rows := Parse("a,b\r\nc,d\r\n")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "c" || rows[1][1] != "d" {
		t.Fatalf("expected CR stripped, got %v", rows[1])
	}
}

func TestParseEmptyCells(t *testing.T) {
	rows := Parse("a,,c")
	if len(rows[0]) != 3 || rows[0][1] != "" {
		t.Fatalf("expected empty middle cell, got %v", rows[0])
	}
}
