package decl

import (
	"errors"
	"strings"

	"fnqual/internal/diag"
	"fnqual/internal/fix"
	"fnqual/internal/lexer"
	"fnqual/internal/qualifier"
	"fnqual/internal/source"
	"fnqual/internal/token"
	"fnqual/internal/tokstream"
)

// Parse reads one declaration from s. Qualifiers may come in any order but
// each kind at most once. Malformed qualifier payloads come back as
// *qualifier.Error, everything else as *Error.
func Parse(s *tokstream.Stream, file *source.File) (*Callable, error) {
	c := &Callable{}
	first := s.Peek()
	if first.Kind == token.EOF {
		return nil, errorf(diag.SynExpectFn, first.Span, "expected a declaration, found end of input")
	}
	start := first.Span

	// #[attr] ...
	attrStart := s.Span()
	hasAttrs := false
	attrEnd := attrStart
	for s.PeekKind(token.Hash) && s.PeekN(1).Kind == token.LBracket {
		s.Next()
		attrEnd = s.SkipTree()
		hasAttrs = true
	}
	if hasAttrs {
		c.Attrs = file.Slice(attrStart.Cover(attrEnd))
	}

	qualStart := s.Span()
	mark := s.Mark()
	var seen qualifier.Set
	for qualifier.IsQualifierStart(s.Peek()) {
		q, err := qualifier.ParseQualifier(s)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen.Insert(q); !ok {
			e := errorf(diag.SynDuplicateModifier, q.Span, "duplicate %s qualifier `%s` on declaration", q.Kind, q)
			e.Notes = append(e.Notes, diag.Note{Span: prev.Span, Msg: "previously specified here"})
			e.Fixes = append(e.Fixes, fix.DeleteSpan(
				"remove duplicate qualifier",
				q.Span.ExtendRight(s.Span()), "",
				fix.WithID("remove-duplicate-modifier"),
			))
			return nil, e
		}
	}
	qualifier.Apply(qualifier.MultipleSpec(seen, source.Span{}).Patch(), c)

	kw, ok := s.Eat(token.KwFn)
	if !ok {
		tok := s.Peek()
		return nil, errorf(diag.SynExpectFn, tok.Span, "expected `fn`, found %s", describe(tok))
	}
	c.QualSpan = source.Span{File: kw.Span.File, Start: qualStart.Start, End: kw.Span.Start}
	if seen.Len() == 0 {
		c.QualSpan = kw.Span.AtStart()
	}
	c.comments = prefixComments(s.Since(mark), file, qualStart.Start)

	name, ok := s.Eat(token.Ident)
	if !ok {
		tok := s.Peek()
		return nil, errorf(diag.SynExpectIdentifier, tok.Span, "expected function name, found %s", describe(tok))
	}
	c.Name = name.Text
	end := name.Span

	if s.PeekKind(token.Lt) {
		sp, err := skipGenerics(s)
		if err != nil {
			return nil, err
		}
		c.Generics = file.Slice(sp)
		end = sp
	}

	if !s.PeekKind(token.LParen) {
		tok := s.Peek()
		return nil, errorf(diag.SynExpectParams, tok.Span, "expected `(` after function name, found %s", describe(tok))
	}
	params := s.SkipTree()
	c.Params = file.Slice(params)
	end = params

	if arrow, ok := s.Eat(token.Arrow); ok {
		sp, found := skipUntilBodyOr(s, true)
		if !found {
			return nil, errorf(diag.SynUnexpectedToken, arrow.Span.AtEnd(), "expected return type after `->`")
		}
		c.Ret = file.Slice(sp)
		end = sp
	}
	if isWhere(s.Peek()) {
		sp, _ := skipUntilBodyOr(s, false)
		c.Where = file.Slice(sp)
		end = sp
	}

	switch {
	case s.PeekKind(token.LBrace):
		body := s.SkipTree()
		c.Body = file.Slice(body)
		end = body
	case s.PeekKind(token.Semicolon):
		end = s.Next().Span
	default:
		tok := s.Peek()
		e := errorf(diag.SynExpectBody, tok.Span, "expected `{` or `;`, found %s", describe(tok))
		if tok.Kind == token.EOF {
			e.Fixes = append(e.Fixes, fix.InsertText("insert `;`", end.AtEnd(), ";", "", fix.WithID("insert-semicolon")))
		}
		return nil, e
	}

	c.Span = start.Cover(end)
	c.src = file.Slice(c.Span)
	return c, nil
}

// prefixComments keeps the comments found between the first qualifier and
// `fn`, in source order. Line comments carry their newline and the
// indentation of the declaration so the rewritten prefix stays on its line.
func prefixComments(toks []token.Token, file *source.File, qualStart uint32) string {
	var b strings.Builder
	indent := ""
	for i := 1; i < len(toks); i++ {
		for _, tr := range toks[i].Leading {
			switch tr.Kind {
			case token.TriviaBlockComment:
				b.WriteString(tr.Text)
				b.WriteByte(' ')
			case token.TriviaLineComment, token.TriviaDocLine:
				if indent == "" {
					indent = lineIndent(file.Content, qualStart)
				}
				b.WriteString(tr.Text)
				b.WriteByte('\n')
				b.WriteString(indent)
			}
		}
	}
	return b.String()
}

func lineIndent(content []byte, off uint32) string {
	start := off
	for start > 0 && content[start-1] != '\n' {
		start--
	}
	end := start
	for end < off && (content[end] == ' ' || content[end] == '\t') {
		end++
	}
	return string(content[start:end])
}

// skipGenerics consumes <...>, counting angle brackets. Delimited groups
// inside are skipped whole, so `->` and `>` inside (..) are safe.
func skipGenerics(s *tokstream.Stream) (source.Span, error) {
	open := s.Next()
	sp := open.Span
	depth := 1
	for depth > 0 {
		tok := s.Peek()
		switch tok.Kind {
		case token.EOF, token.LBrace, token.Semicolon:
			return source.Span{}, errorf(diag.SynUnclosedDelimiter, open.Span, "unclosed generic parameter list")
		case token.Lt:
			depth++
			s.Next()
		case token.Gt:
			depth--
			s.Next()
		default:
			s.SkipTree()
		}
		sp = sp.Cover(tok.Span)
	}
	return sp, nil
}

// skipUntilBodyOr consumes token trees up to the body, ';' or EOF. With
// stopAtWhere it also stops before a `where` clause.
func skipUntilBodyOr(s *tokstream.Stream, stopAtWhere bool) (source.Span, bool) {
	var (
		sp    source.Span
		found bool
	)
	for !s.IsEmpty() && !s.PeekKind(token.LBrace) && !s.PeekKind(token.Semicolon) {
		if stopAtWhere && found && isWhere(s.Peek()) {
			break
		}
		tree := s.SkipTree()
		if found {
			sp = sp.Cover(tree)
		} else {
			sp, found = tree, true
		}
	}
	return sp, found
}

func isWhere(tok token.Token) bool {
	return tok.Kind == token.Ident && tok.Text == "where"
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

// ParseFile parses the whole of file as a single declaration. Problems are
// reported to r; the result is nil when anything was reported.
func ParseFile(file *source.File, r diag.Reporter) *Callable {
	bag := diag.NewBag(0)
	toks := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		forward(r, bag)
		return nil
	}
	s, err := tokstream.Build(toks)
	if err != nil {
		var de *tokstream.DelimError
		if errors.As(err, &de) {
			code := diag.SynUnclosedDelimiter
			if de.Kind != tokstream.DelimUnclosed {
				code = diag.SynUnmatchedCloser
			}
			diag.Emit(r, diag.NewError(code, de.Span, de.Error()))
		}
		return nil
	}
	c, err := Parse(s, file)
	if err != nil {
		ReportError(r, err)
		return nil
	}
	if !s.IsEmpty() {
		tok := s.Peek()
		diag.Emit(r, diag.NewError(diag.SynTrailingTokens, tok.Span, "unexpected "+describe(tok)+" after declaration"))
		return nil
	}
	return c
}

func forward(r diag.Reporter, bag *diag.Bag) {
	for _, d := range bag.Items() {
		diag.Emit(r, d)
	}
}

// ReportError emits err to r. Both *Error and *qualifier.Error carry
// positions.
func ReportError(r diag.Reporter, err error) {
	var de *Error
	if errors.As(err, &de) {
		diag.Emit(r, de.Diagnostic())
		return
	}
	qualifier.ReportError(r, err)
}
