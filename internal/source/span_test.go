package source

import "testing"

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{"disjoint", Span{File: 1, Start: 2, End: 4}, Span{File: 1, Start: 8, End: 10}, Span{File: 1, Start: 2, End: 10}},
		{"nested", Span{File: 1, Start: 2, End: 10}, Span{File: 1, Start: 4, End: 6}, Span{File: 1, Start: 2, End: 10}},
		{"reversed", Span{File: 1, Start: 8, End: 10}, Span{File: 1, Start: 0, End: 1}, Span{File: 1, Start: 0, End: 10}},
		{"other file is ignored", Span{File: 1, Start: 2, End: 4}, Span{File: 2, Start: 0, End: 10}, Span{File: 1, Start: 2, End: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Fatalf("Cover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpan_ExtendRight(t *testing.T) {
	s := Span{File: 0, Start: 1, End: 4}
	if got := s.ExtendRight(Span{File: 0, Start: 6, End: 7}); got.End != 6 || got.Start != 1 {
		t.Fatalf("ExtendRight() = %v", got)
	}
	if got := s.ExtendRight(Span{File: 0, Start: 2, End: 3}); got != s {
		t.Fatalf("ExtendRight() over an earlier span must be a no-op, got %v", got)
	}
}

func TestSpan_Contains(t *testing.T) {
	outer := Span{File: 0, Start: 0, End: 10}
	if !outer.Contains(Span{File: 0, Start: 3, End: 10}) {
		t.Fatal("expected inner span to be contained")
	}
	if outer.Contains(Span{File: 0, Start: 3, End: 11}) {
		t.Fatal("span crossing the end must not be contained")
	}
}
