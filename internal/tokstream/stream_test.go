package tokstream_test

import (
	"errors"
	"testing"

	"fnqual/internal/lexer"
	"fnqual/internal/source"
	"fnqual/internal/token"
	"fnqual/internal/tokstream"
)

func build(t *testing.T, input string) (*tokstream.Stream, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("stream.fq", []byte(input)))
	s, err := tokstream.Build(lexer.Tokenize(file, lexer.Options{}))
	if err != nil {
		t.Fatalf("build %q: %v", input, err)
	}
	return s, file
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestBracketedOpensInnerStream(t *testing.T) {
	s, file := build(t, "[pub, async] fn")

	inner, span, ok := s.Bracketed()
	if !ok {
		t.Fatalf("expected bracket group")
	}
	if got := file.Slice(span); got != "[pub, async]" {
		t.Fatalf("group span = %q", got)
	}
	want := []token.Kind{token.KwPub, token.Comma, token.KwAsync}
	got := kinds(inner.Remaining())
	if len(got) != len(want) {
		t.Fatalf("inner kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("inner[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if !inner.IsEmpty() {
		t.Fatalf("Remaining must drain the stream")
	}
	if !s.PeekKind(token.KwFn) {
		t.Fatalf("outer stream should continue after the group, got %v", s.Peek().Kind)
	}
}

func TestInnerEndPointsAtCloser(t *testing.T) {
	s, file := build(t, "(a, b)")
	inner, _, ok := s.Parenthesized()
	if !ok {
		t.Fatalf("expected paren group")
	}
	inner.Next()
	inner.Next()
	inner.Next()
	if !inner.IsEmpty() {
		t.Fatalf("inner stream should be exhausted")
	}
	if inner.Peek().Kind != token.EOF {
		t.Fatalf("Peek past end = %v, want EOF", inner.Peek().Kind)
	}
	if got := file.Slice(inner.End()); got != ")" {
		t.Fatalf("End() = %q, want \")\"", got)
	}
}

func TestGroupRejectsOtherDelimiter(t *testing.T) {
	s, _ := build(t, "(x)")
	if _, _, ok := s.Bracketed(); ok {
		t.Fatalf("Bracketed on '(' must fail")
	}
	if !s.PeekKind(token.LParen) {
		t.Fatalf("failed group open must not consume")
	}
}

func TestSkipTreeAndPeekN(t *testing.T) {
	s, file := build(t, "fn f<T>(x: [u8; 4]) { body } ;")
	if got := s.PeekN(2); got.Kind != token.Lt {
		t.Fatalf("PeekN(2) = %v", got.Kind)
	}
	s.Next() // fn
	s.Next() // f
	for !s.PeekKind(token.LParen) {
		s.Next()
	}
	if got := file.Slice(s.SkipTree()); got != "(x: [u8; 4])" {
		t.Fatalf("SkipTree params = %q", got)
	}
	if got := s.PeekN(1); got.Kind != token.Semicolon {
		t.Fatalf("PeekN(1) after params = %v, want ';'", got.Kind)
	}
	if got := file.Slice(s.SkipTree()); got != "{ body }" {
		t.Fatalf("SkipTree body = %q", got)
	}
}

func TestForkIsIndependent(t *testing.T) {
	s, _ := build(t, "pub const fn")
	f := s.Fork()
	f.Next()
	f.Next()
	if !s.PeekKind(token.KwPub) {
		t.Fatalf("fork advanced the original stream")
	}
}

func TestSinceMark(t *testing.T) {
	s, _ := build(t, "pub(crate) fn f")
	m := s.Mark()
	s.Next()
	s.SkipTree()
	got := s.Since(m)
	if len(got) != 4 || got[0].Kind != token.KwPub || got[3].Kind != token.RParen {
		t.Fatalf("Since = %v", got)
	}
	if !s.PeekKind(token.KwFn) {
		t.Fatalf("Since must not move the cursor, at %v", s.Peek().Kind)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  tokstream.DelimErrorKind
		at    string
	}{
		{"[pub, async", tokstream.DelimUnclosed, "["},
		{"pub]", tokstream.DelimUnmatched, "]"},
		{"(]", tokstream.DelimMismatched, "]"},
		{"{ ( }", tokstream.DelimMismatched, "}"},
	}
	for _, tt := range tests {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("bad.fq", []byte(tt.input)))
		_, err := tokstream.Build(lexer.Tokenize(file, lexer.Options{}))
		var de *tokstream.DelimError
		if !errors.As(err, &de) {
			t.Fatalf("%q: expected DelimError, got %v", tt.input, err)
		}
		if de.Kind != tt.kind {
			t.Fatalf("%q: kind = %v, want %v", tt.input, de.Kind, tt.kind)
		}
		if got := file.Slice(de.Span); got != tt.at {
			t.Fatalf("%q: error at %q, want %q", tt.input, got, tt.at)
		}
	}
}
