package qualifier

import (
	"fortio.org/safecast"

	"fnqual/internal/source"
	"fnqual/internal/token"
	"fnqual/internal/tokstream"
)

// ParseVisibility parses `pub` with an optional restriction:
// pub(crate), pub(super), pub(self) or pub(in path).
func ParseVisibility(s *tokstream.Stream) (Visibility, error) {
	kw, ok := s.Eat(token.KwPub)
	if !ok {
		tok := s.Peek()
		return Visibility{}, errorf(ReasonUnrecognized, tok.Span, "expected `pub`, found %s", describe(tok))
	}
	v := Visibility{Scope: ScopePublic, Span: kw.Span}
	if !s.PeekKind(token.LParen) {
		return v, nil
	}

	inner, group, _ := s.Parenthesized()
	v.Span = kw.Span.Cover(group)
	head := inner.Next()
	switch head.Kind {
	case token.KwCrate:
		v.Scope = ScopeCrate
	case token.KwSuper:
		v.Scope = ScopeSuper
	case token.KwSelf:
		v.Scope = ScopeSelf
	case token.KwIn:
		path, err := parsePath(inner)
		if err != nil {
			return Visibility{}, err
		}
		v.Scope = ScopeInPath
		v.Path = path
	default:
		return Visibility{}, errorf(ReasonMalformedPayload, head.Span,
			"expected `crate`, `super`, `self` or `in <path>` in visibility restriction, found %s", describe(head))
	}
	if !inner.IsEmpty() {
		tok := inner.Peek()
		return Visibility{}, errorf(ReasonMalformedPayload, tok.Span,
			"unexpected %s in visibility restriction", describe(tok))
	}
	return v, nil
}

func parsePath(s *tokstream.Stream) ([]string, error) {
	var path []string
	for {
		seg := s.Peek()
		switch seg.Kind {
		case token.Ident, token.KwCrate, token.KwSuper, token.KwSelf:
			s.Next()
			path = append(path, seg.Text)
		default:
			return nil, errorf(ReasonMalformedPayload, seg.Span, "expected path segment, found %s", describe(seg))
		}
		if _, ok := s.Eat(token.ColonColon); !ok {
			return path, nil
		}
	}
}

// ParseAbi parses `extern` with an optional ABI string literal. A bare
// `extern` is accepted; anything literal-like or an identifier after it is a
// malformed payload.
func ParseAbi(s *tokstream.Stream) (Abi, error) {
	kw, ok := s.Eat(token.KwExtern)
	if !ok {
		tok := s.Peek()
		return Abi{}, errorf(ReasonUnrecognized, tok.Span, "expected `extern`, found %s", describe(tok))
	}
	next := s.Peek()
	switch {
	case next.Kind == token.StringLit:
		s.Next()
		name, err := decodeString(next.Text)
		if err != nil {
			sp := next.Span
			if ee, ok := err.(*escapeError); ok {
				sp = escapeSpan(next.Span, ee.off)
			}
			return Abi{}, errorf(ReasonMalformedPayload, sp, "invalid ABI string literal: %v", err)
		}
		return Abi{Name: name, HasName: true, Raw: next.Text, Span: kw.Span.Cover(next.Span)}, nil
	case next.IsLiteral() || next.Kind == token.Ident || next.Kind == token.Invalid:
		return Abi{}, errorf(ReasonMalformedPayload, next.Span,
			"expected ABI string literal after `extern`, found %s", describe(next))
	default:
		return Abi{Span: kw.Span}, nil
	}
}

// escapeSpan narrows a literal span to the escape at byte offset off.
func escapeSpan(lit source.Span, off int) source.Span {
	delta, err := safecast.Conv[uint32](off)
	if err != nil {
		return lit
	}
	start := lit.Start + delta
	if start >= lit.End {
		return lit
	}
	end := start + 2
	if end > lit.End {
		end = lit.End
	}
	return source.Span{File: lit.File, Start: start, End: end}
}
