package decl

import (
	"strings"

	"fnqual/internal/qualifier"
	"fnqual/internal/source"
)

// Callable is a parsed declaration.
type Callable struct {
	Vis    qualifier.Visibility
	HasVis bool
	Const  bool
	Async  bool
	Unsafe bool
	Abi    qualifier.Abi
	HasAbi bool

	// Attrs is the text of outer attributes (#[...]) before the qualifiers.
	Attrs    string
	Name     string
	Generics string
	Params   string
	Ret      string
	Where    string
	// Body is the braced body; empty for a declaration ending in ';'.
	Body string

	// Span covers the whole declaration, QualSpan the qualifier prefix
	// including the whitespace up to `fn` (empty at `fn` when there are no
	// qualifiers).
	Span     source.Span
	QualSpan source.Span

	// src is the declaration text as parsed; Print splices the qualifier
	// prefix into it.
	src string
	// comments found inside the parsed prefix, ready to be printed in
	// front of the qualifiers.
	comments string
}

var _ qualifier.Target = (*Callable)(nil)

func (c *Callable) SetVisibility(v qualifier.Visibility, ok bool) {
	c.HasVis = ok
	if ok {
		c.Vis = v
	} else {
		c.Vis = qualifier.Visibility{}
	}
}

func (c *Callable) SetPurity(ok bool)     { c.Const = ok }
func (c *Callable) SetAsynchrony(ok bool) { c.Async = ok }
func (c *Callable) SetSafety(ok bool)     { c.Unsafe = ok }

func (c *Callable) SetCallingConvention(a qualifier.Abi, ok bool) {
	c.HasAbi = ok
	if ok {
		c.Abi = a
	} else {
		c.Abi = qualifier.Abi{}
	}
}

// Qualifiers returns the current qualifier fields as a set.
func (c *Callable) Qualifiers() qualifier.Set {
	var set qualifier.Set
	if c.HasVis {
		set.Insert(qualifier.Qualifier{Kind: qualifier.KindVisibility, Span: c.Vis.Span, Vis: c.Vis})
	}
	if c.Const {
		set.Insert(qualifier.Qualifier{Kind: qualifier.KindPurity})
	}
	if c.Async {
		set.Insert(qualifier.Qualifier{Kind: qualifier.KindAsynchrony})
	}
	if c.Unsafe {
		set.Insert(qualifier.Qualifier{Kind: qualifier.KindSafety})
	}
	if c.HasAbi {
		set.Insert(qualifier.Qualifier{Kind: qualifier.KindCallingConvention, Span: c.Abi.Span, Abi: c.Abi})
	}
	return set
}

// QualifierPrefix renders the qualifiers in canonical order followed by a
// space, or "" when there are none. Comments that sat between the parsed
// qualifiers come first.
func (c *Callable) QualifierPrefix() string {
	quals := c.Qualifiers().Qualifiers()
	if len(quals) == 0 {
		return c.comments
	}
	var b strings.Builder
	b.WriteString(c.comments)
	for _, q := range quals {
		b.WriteString(q.String())
		b.WriteByte(' ')
	}
	return b.String()
}

// Print renders the declaration with its current qualifiers.
func Print(c *Callable) string {
	if c.src == "" {
		return c.synthesize()
	}
	lo := c.QualSpan.Start - c.Span.Start
	hi := c.QualSpan.End - c.Span.Start
	return c.src[:lo] + c.QualifierPrefix() + c.src[hi:]
}

func (c *Callable) String() string { return Print(c) }

// synthesize builds text for a Callable assembled in code rather than
// parsed.
func (c *Callable) synthesize() string {
	var b strings.Builder
	if c.Attrs != "" {
		b.WriteString(c.Attrs)
		b.WriteByte('\n')
	}
	b.WriteString(c.QualifierPrefix())
	b.WriteString("fn ")
	b.WriteString(c.Name)
	b.WriteString(c.Generics)
	if c.Params == "" {
		b.WriteString("()")
	} else {
		b.WriteString(c.Params)
	}
	if c.Ret != "" {
		b.WriteString(" -> ")
		b.WriteString(c.Ret)
	}
	if c.Where != "" {
		b.WriteByte(' ')
		b.WriteString(c.Where)
	}
	if c.Body == "" {
		b.WriteByte(';')
	} else {
		b.WriteByte(' ')
		b.WriteString(c.Body)
	}
	return b.String()
}
