package source

import "testing"

func TestSpanContains(t *testing.T) {
	sp := Span{File: 0, Start: 4, End: 10}

	cases := []struct {
		offset uint32
		want   bool
	}{
		{3, false},
		{4, true},
		{9, true},
		{10, false},
	}
	for _, tc := range cases {
		if got := sp.Contains(tc.offset); got != tc.want {
			t.Fatalf("Contains(%d) = %v, want %v", tc.offset, got, tc.want)
		}
	}
}

func TestEmptySpanContainsOnlyItself(t *testing.T) {
	sp := Span{File: 0, Start: 7, End: 7}
	if !sp.Contains(7) {
		t.Fatalf("empty span must contain its own position")
	}
	if sp.Contains(6) || sp.Contains(8) {
		t.Fatalf("empty span must not contain neighbouring offsets")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 15}
	got := a.Cover(b)
	if got.Start != 5 || got.End != 20 {
		t.Fatalf("Cover = %v, want 1:5-20", got)
	}

	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("Cover across files must be a no-op, got %v", got)
	}
}

func TestSpanContainsSpan(t *testing.T) {
	outer := Span{File: 0, Start: 2, End: 30}
	inner := Span{File: 0, Start: 2, End: 30}
	if !outer.ContainsSpan(inner) {
		t.Fatalf("span must contain itself")
	}
	if outer.ContainsSpan(Span{File: 0, Start: 1, End: 3}) {
		t.Fatalf("span must not contain range starting before it")
	}
}
