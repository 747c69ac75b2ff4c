package output

import (
	"strings"
	"testing"
)

func TestMain(m *testing.M) {
	SetNoColor(true)
	m.Run()
}

func TestTableRender(t *testing.T) {
	tbl := NewTable("PID", "PROJECT")
	tbl.AddRow("4242", "gateway")
	tbl.AddRow("7", "x")

	got := tbl.Render()
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines (header, rule, 2 rows), got %d:\n%s", len(lines), got)
	}
	if !strings.HasPrefix(lines[0], "PID ") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[2], "4242") || !strings.Contains(lines[2], "gateway") {
		t.Errorf("row = %q", lines[2])
	}
}

func TestTableRender_ShortRowPadded(t *testing.T) {
	tbl := NewTable("A", "B", "C")
	tbl.AddRow("only")

	got := tbl.Render()
	if !strings.Contains(got, "only") {
		t.Errorf("missing cell in:\n%s", got)
	}
}

func TestPad(t *testing.T) {
	if got := pad("ab", 5); got != "ab   " {
		t.Errorf("pad = %q", got)
	}
	if got := pad("abcdef", 3); got != "abcdef" {
		t.Errorf("pad should not shrink, got %q", got)
	}
}
