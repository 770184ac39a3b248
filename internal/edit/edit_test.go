package edit

import (
	"testing"

	"lumen/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

func TestApplyReplaceInsertDelete(t *testing.T) {
	content := []byte("let x = 1 + 2;")
	edits := []TextEdit{
		{Span: span(4, 5), NewText: "value", OldText: "x"},
		{Span: span(8, 9), NewText: "10"},
		{Span: span(10, 14), NewText: ""},
	}
	got, err := Apply(content, edits)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if string(got) != "let value = 10;" {
		t.Fatalf("expected %q, got %q", "let value = 10;", got)
	}
}

func TestApplyRejectsOverlap(t *testing.T) {
	content := []byte("abcdef")
	edits := []TextEdit{
		{Span: span(0, 3), NewText: "x"},
		{Span: span(2, 5), NewText: "y"},
	}
	if _, err := Apply(content, edits); err == nil {
		t.Fatalf("expected overlap error")
	}
}

func TestApplyGuardsOldText(t *testing.T) {
	content := []byte("let x = 1;")
	edits := []TextEdit{
		{Span: span(4, 5), NewText: "y", OldText: "z"},
	}
	got, err := Apply(content, edits)
	if err == nil {
		t.Fatalf("expected guard failure")
	}
	if string(got) != string(content) {
		t.Fatalf("content must stay untouched on failure")
	}
}

func TestConflictsInsertions(t *testing.T) {
	a := TextEdit{Span: span(3, 3), NewText: "x"}
	b := TextEdit{Span: span(3, 3), NewText: "y"}
	if !Conflicts(a, b) {
		t.Fatalf("two insertions at the same offset must conflict")
	}

	c := TextEdit{Span: span(4, 4), NewText: "z"}
	if Conflicts(a, c) {
		t.Fatalf("insertions at different offsets must not conflict")
	}

	d := TextEdit{Span: span(1, 5), NewText: ""}
	if !Conflicts(a, d) {
		t.Fatalf("insertion inside a replaced range must conflict")
	}
}

func TestMapOffset(t *testing.T) {
	edits := []TextEdit{
		{Span: span(0, 4), NewText: "x"}, // -3
		{Span: span(10, 10), NewText: "abc"}, // +3 at 10
	}
	cases := []struct {
		in   uint32
		want uint32
	}{
		{5, 2},
		{9, 6},
		{12, 12},
	}
	for _, tc := range cases {
		if got := MapOffset(edits, tc.in); got != tc.want {
			t.Fatalf("MapOffset(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
