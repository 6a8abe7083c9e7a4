package qualifier

import (
	"fmt"
	"strings"

	"fnqual/internal/diag"
	"fnqual/internal/fix"
	"fnqual/internal/source"
	"fnqual/internal/token"
	"fnqual/internal/tokstream"
)

// rule is one row of the qualifier dispatch table. A new kind is a new Kind
// constant plus a row here.
type rule struct {
	keyword token.Kind
	kind    Kind
	parse   func(s *tokstream.Stream) (Qualifier, error)
}

var rules = [...]rule{
	{token.KwPub, KindVisibility, parseVisibilityQualifier},
	{token.KwConst, KindPurity, keywordOnly(KindPurity)},
	{token.KwAsync, KindAsynchrony, keywordOnly(KindAsynchrony)},
	{token.KwUnsafe, KindSafety, keywordOnly(KindSafety)},
	{token.KwExtern, KindCallingConvention, parseAbiQualifier},
}

func lookupRule(kw token.Kind) (rule, bool) {
	for i := range rules {
		if rules[i].keyword == kw {
			return rules[i], true
		}
	}
	return rule{}, false
}

// IsQualifierStart reports whether tok begins a qualifier.
func IsQualifierStart(tok token.Token) bool {
	_, ok := lookupRule(tok.Kind)
	return ok
}

func keywordOnly(k Kind) func(*tokstream.Stream) (Qualifier, error) {
	return func(s *tokstream.Stream) (Qualifier, error) {
		tok := s.Next()
		return Qualifier{Kind: k, Span: tok.Span}, nil
	}
}

func parseVisibilityQualifier(s *tokstream.Stream) (Qualifier, error) {
	v, err := ParseVisibility(s)
	if err != nil {
		return Qualifier{}, err
	}
	return Qualifier{Kind: KindVisibility, Span: v.Span, Vis: v}, nil
}

func parseAbiQualifier(s *tokstream.Stream) (Qualifier, error) {
	a, err := ParseAbi(s)
	if err != nil {
		return Qualifier{}, err
	}
	return Qualifier{Kind: KindCallingConvention, Span: a.Span, Abi: a}, nil
}

// ParseQualifier parses exactly one qualifier. On an unknown lookahead it
// fails with ReasonUnrecognized at that token and consumes nothing.
func ParseQualifier(s *tokstream.Stream) (Qualifier, error) {
	tok := s.Peek()
	r, ok := lookupRule(tok.Kind)
	if !ok {
		return Qualifier{}, errorf(ReasonUnrecognized, tok.Span,
			"expected one of %s, found %s", keywordList(), describe(tok))
	}
	return r.parse(s)
}

// ParseSpec parses a whole specification: a bracketed list or a single
// qualifier. The stream must be exhausted afterwards.
func ParseSpec(s *tokstream.Stream) (Spec, error) {
	var spec Spec
	if s.PeekKind(token.LBracket) {
		set, span, err := parseList(s)
		if err != nil {
			return Spec{}, err
		}
		spec = MultipleSpec(set, span)
	} else {
		q, err := ParseQualifier(s)
		if err != nil {
			return Spec{}, err
		}
		spec = SingleSpec(q)
	}
	if !s.IsEmpty() {
		tok := s.Peek()
		rest := s.Span()
		for !s.IsEmpty() {
			rest = rest.Cover(s.SkipTree())
		}
		e := errorf(ReasonMalformedList, tok.Span, "unexpected %s after qualifier specification", describe(tok))
		if spec.Form == FormSingle && IsQualifierStart(tok) {
			e.Notes = append(e.Notes, noteAt(spec.Span, "to apply several qualifiers, wrap them in brackets"))
			e.Fixes = append(e.Fixes, fix.WrapWith(
				"wrap qualifiers in a list",
				spec.Span.Cover(rest), "[", "]",
				fix.WithID("wrap-qualifier-list"),
			))
		}
		return Spec{}, e
	}
	return spec, nil
}

func parseList(s *tokstream.Stream) (Set, source.Span, error) {
	open := s.Peek()
	inner, span, ok := s.Bracketed()
	if !ok {
		return Set{}, source.Span{}, errorf(ReasonMalformedList, open.Span, "unterminated qualifier list")
	}

	var (
		set       Set
		lastComma source.Span
		sawComma  bool
	)
	for !inner.IsEmpty() {
		q, err := ParseQualifier(inner)
		if err != nil {
			return Set{}, source.Span{}, err
		}
		if prev, ok := set.Insert(q); !ok {
			return Set{}, source.Span{}, duplicateError(prev, q, lastComma, sawComma)
		}
		if inner.IsEmpty() {
			break
		}
		comma, ok := inner.Eat(token.Comma)
		if !ok {
			tok := inner.Peek()
			e := errorf(ReasonMalformedList, tok.Span, "expected `,` or `]` after qualifier, found %s", describe(tok))
			e.Fixes = append(e.Fixes, fix.InsertText(
				"insert `,`", q.Span.AtEnd(), ",", "",
				fix.WithID("insert-qualifier-comma"),
			))
			return Set{}, source.Span{}, e
		}
		lastComma, sawComma = comma.Span, true
	}
	return set, span, nil
}

func duplicateError(first, second Qualifier, comma source.Span, hasComma bool) *Error {
	e := errorf(ReasonDuplicate, second.Span, "duplicate %s qualifier `%s`", first.Kind, second)
	e.Kind = second.Kind
	e.Notes = append(e.Notes, noteAt(first.Span, fmt.Sprintf("first %s qualifier is `%s`", first.Kind, first)))
	del := second.Span
	if hasComma {
		del = comma.Cover(second.Span)
	}
	e.Fixes = append(e.Fixes, fix.DeleteSpan(
		"remove duplicate qualifier", del, "",
		fix.WithID("remove-duplicate-qualifier"),
		fix.Preferred(),
	))
	return e
}

func noteAt(sp source.Span, msg string) diag.Note {
	return diag.Note{Span: sp, Msg: msg}
}

func keywordList() string {
	parts := make([]string, 0, len(rules))
	for _, r := range rules {
		parts = append(parts, "`"+keywordText(r.keyword)+"`")
	}
	return strings.Join(parts, ", ")
}

func keywordText(k token.Kind) string {
	switch k {
	case token.KwPub:
		return "pub"
	case token.KwConst:
		return "const"
	case token.KwAsync:
		return "async"
	case token.KwUnsafe:
		return "unsafe"
	case token.KwExtern:
		return "extern"
	default:
		return k.String()
	}
}

func describe(tok token.Token) string {
	if tok.Kind == token.EOF {
		if tok.Text != "" {
			return "`" + tok.Text + "`"
		}
		return "end of input"
	}
	return "`" + tok.Text + "`"
}
