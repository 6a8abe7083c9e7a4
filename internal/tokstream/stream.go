package tokstream

import (
	"fnqual/internal/source"
	"fnqual/internal/token"
)

// Stream reads token trees from a window [pos, end) of a shared token slice.
type Stream struct {
	toks  []token.Token
	match []int
	pos   int
	end   int
	// eof is returned by Peek once the window is exhausted. For nested
	// streams it is the closing delimiter re-kinded as EOF, so errors at the
	// end of a group point at the closer.
	eof token.Token
}

// IsEmpty reports whether no tokens remain.
func (s *Stream) IsEmpty() bool {
	return s.pos >= s.end
}

// Peek returns the next token without consuming it, or an EOF token.
func (s *Stream) Peek() token.Token {
	if s.IsEmpty() {
		return s.eof
	}
	return s.toks[s.pos]
}

// PeekN looks n token trees ahead (0 == Peek). Groups count as one tree and
// are represented by their opener.
func (s *Stream) PeekN(n int) token.Token {
	f := s.Fork()
	for i := 0; i < n; i++ {
		if f.IsEmpty() {
			return f.eof
		}
		f.SkipTree()
	}
	return f.Peek()
}

// PeekKind reports whether the next token has kind k.
func (s *Stream) PeekKind(k token.Kind) bool {
	return s.Peek().Kind == k
}

// Span returns the span of the next token, or of the end position.
func (s *Stream) Span() source.Span {
	return s.Peek().Span
}

// End is the span reported for "unexpected end of input" errors.
func (s *Stream) End() source.Span {
	return s.eof.Span
}

// Next consumes one token. On an opening delimiter it consumes only the
// opener; use SkipTree or a group accessor to consume the whole group.
func (s *Stream) Next() token.Token {
	if s.IsEmpty() {
		return s.eof
	}
	tok := s.toks[s.pos]
	s.pos++
	return tok
}

// Eat consumes the next token when it has kind k.
func (s *Stream) Eat(k token.Kind) (token.Token, bool) {
	if !s.PeekKind(k) {
		return token.Token{}, false
	}
	return s.Next(), true
}

// SkipTree consumes one token tree and returns the span it covered.
func (s *Stream) SkipTree() source.Span {
	if s.IsEmpty() {
		return s.eof.Span
	}
	start := s.toks[s.pos].Span
	if m := s.match[s.pos]; m > s.pos {
		s.pos = m + 1
		return start.Cover(s.toks[m].Span)
	}
	s.pos++
	return start
}

// Group opens the delimited group starting at the next token when it is the
// opener open. It returns the inner stream and the span of the whole group,
// and advances s past the closer.
func (s *Stream) Group(open token.Kind) (*Stream, source.Span, bool) {
	if s.IsEmpty() || s.toks[s.pos].Kind != open {
		return nil, source.Span{}, false
	}
	m := s.match[s.pos]
	if m <= s.pos {
		return nil, source.Span{}, false
	}
	closer := s.toks[m]
	inner := &Stream{
		toks:  s.toks,
		match: s.match,
		pos:   s.pos + 1,
		end:   m,
		eof:   token.Token{Kind: token.EOF, Span: closer.Span, Text: closer.Text},
	}
	span := s.toks[s.pos].Span.Cover(closer.Span)
	s.pos = m + 1
	return inner, span, true
}

// Bracketed opens a [...] group.
func (s *Stream) Bracketed() (*Stream, source.Span, bool) { return s.Group(token.LBracket) }

// Parenthesized opens a (...) group.
func (s *Stream) Parenthesized() (*Stream, source.Span, bool) { return s.Group(token.LParen) }

// Braced opens a {...} group.
func (s *Stream) Braced() (*Stream, source.Span, bool) { return s.Group(token.LBrace) }

// Fork returns an independent copy of the cursor.
func (s *Stream) Fork() *Stream {
	f := *s
	return &f
}

// Mark is a cursor position inside a Stream.
type Mark int

// Mark returns the current position.
func (s *Stream) Mark() Mark { return Mark(s.pos) }

// Since returns the tokens consumed after m.
func (s *Stream) Since(m Mark) []token.Token {
	return s.toks[int(m):s.pos]
}

// Remaining returns all unconsumed tokens of the window, consuming them.
func (s *Stream) Remaining() []token.Token {
	out := s.toks[s.pos:s.end]
	s.pos = s.end
	return out
}

// Len reports the number of unconsumed tokens (not trees).
func (s *Stream) Len() int {
	return s.end - s.pos
}
