package expand

import (
	"fnqual/internal/decl"
	"fnqual/internal/diag"
	"fnqual/internal/source"
	"fnqual/internal/token"
	"fnqual/internal/tokstream"
)

// Annotation is one @name(...) occurrence.
type Annotation struct {
	// Span covers '@' through ')'.
	Span source.Span
	// Args are the tokens between the parentheses, terminated by an EOF
	// token positioned at ')'.
	Args []token.Token
	// Removal is the text range deleted on expansion: Span plus the rest of
	// the line when the annotation stands alone on it.
	Removal source.Span
}

// Site is an annotation run and the declaration it targets.
type Site struct {
	Annotations []Annotation
	Decl        *decl.Callable
	// Err is the declaration parse error, if any.
	Err error
}

// Span covers the first annotation through the end of the declaration, or
// just the annotations when the declaration did not parse.
func (s *Site) Span() source.Span {
	sp := s.Annotations[0].Span.Cover(s.Annotations[len(s.Annotations)-1].Span)
	if s.Decl != nil {
		sp = sp.Cover(s.Decl.Span)
	}
	return sp
}

type scanner struct {
	file  *source.File
	name  string
	sites []*Site
	diags []diag.Diagnostic
}

// scanSites walks s, descending into every delimited group, and collects
// annotation sites in source order. Declarations are parsed on a fork so
// annotations nested in their bodies are still found.
func scanSites(s *tokstream.Stream, file *source.File, name string) ([]*Site, []diag.Diagnostic) {
	sc := &scanner{file: file, name: name}
	sc.walk(s)
	return sc.sites, sc.diags
}

func (sc *scanner) walk(s *tokstream.Stream) {
	for !s.IsEmpty() {
		tok := s.Peek()
		switch {
		case sc.atAnnotation(s):
			sc.site(s)
		case isOpener(tok.Kind):
			inner, _, _ := s.Group(tok.Kind)
			sc.walk(inner)
		default:
			s.Next()
		}
	}
}

func (sc *scanner) atAnnotation(s *tokstream.Stream) bool {
	if !s.PeekKind(token.At) {
		return false
	}
	next := s.PeekN(1)
	return next.Kind == token.Ident && next.Text == sc.name
}

func (sc *scanner) site(s *tokstream.Stream) {
	site := &Site{}
	for sc.atAnnotation(s) {
		at := s.Next()
		name := s.Next()
		inner, group, ok := s.Parenthesized()
		if !ok {
			tok := s.Peek()
			sc.diags = append(sc.diags, diag.NewError(diag.SynExpectAnnotationArgs, tok.Span,
				"expected `(` after @"+sc.name).
				WithNote(at.Span.Cover(name.Span), "annotation starts here"))
			return
		}
		sp := at.Span.Cover(group)
		args := inner.Remaining()
		argsWithEOF := make([]token.Token, len(args), len(args)+1)
		copy(argsWithEOF, args)
		closer := source.Span{File: group.File, Start: group.End - 1, End: group.End}
		argsWithEOF = append(argsWithEOF, token.Token{Kind: token.EOF, Span: closer, Text: ")"})
		site.Annotations = append(site.Annotations, Annotation{Span: sp, Args: argsWithEOF})
	}
	setRemovals(sc.file, site.Annotations)

	if s.IsEmpty() {
		last := site.Annotations[len(site.Annotations)-1]
		sc.diags = append(sc.diags, diag.NewError(diag.SynAnnotationNoTarget, last.Span,
			"@"+sc.name+" must be followed by a function declaration"))
		return
	}
	fork := s.Fork()
	site.Decl, site.Err = decl.Parse(fork, sc.file)
	sc.sites = append(sc.sites, site)
}

func isOpener(k token.Kind) bool {
	_, ok := k.Closer()
	return ok
}

// setRemovals widens annotation spans so that deleting them does not leave
// a blank line behind. Annotations separated only by blanks form a line
// group; when nothing but whitespace surrounds the group on its line, the
// whole line including the newline goes. Otherwise each annotation takes
// the blanks after it: "@qualifiers(pub) fn f() {}".
func setRemovals(file *source.File, anns []Annotation) {
	content := file.Content
	skipBlanks := func(i uint32) uint32 {
		for int(i) < len(content) && isBlank(content[i]) {
			i++
		}
		return i
	}
	for i := 0; i < len(anns); {
		j := i + 1
		for j < len(anns) && skipBlanks(anns[j-1].Span.End) == anns[j].Span.Start {
			j++
		}
		group := anns[i:j]
		first, last := group[0].Span, group[len(group)-1].Span

		lineStart := first.Start
		for lineStart > 0 && isBlank(content[lineStart-1]) {
			lineStart--
		}
		onOwnLine := lineStart == 0 || content[lineStart-1] == '\n'
		trail := skipBlanks(last.End)
		lineEnd, endsLine := trail, int(trail) == len(content)
		if !endsLine && content[trail] == '\n' {
			lineEnd, endsLine = trail+1, true
		}

		for k := range group {
			sp := group[k].Span
			end := skipBlanks(sp.End)
			if onOwnLine && endsLine && k == len(group)-1 {
				end = lineEnd
			}
			start := sp.Start
			if onOwnLine && endsLine && k == 0 {
				start = lineStart
			}
			group[k].Removal = source.Span{File: sp.File, Start: start, End: end}
		}
		i = j
	}
}

func isBlank(b byte) bool { return b == ' ' || b == '\t' }
