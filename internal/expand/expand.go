package expand

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"fnqual/internal/decl"
	"fnqual/internal/diag"
	"fnqual/internal/fix"
	"fnqual/internal/lexer"
	"fnqual/internal/qualifier"
	"fnqual/internal/source"
	"fnqual/internal/tokstream"
	"fnqual/internal/trace"
)

// DefaultAnnotation is the annotation name used when Options leaves it empty.
const DefaultAnnotation = "qualifiers"

// Options configures File.
type Options struct {
	// Annotation is the name after '@'.
	Annotation string
	// Jobs bounds concurrent site expansion; <= 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps the result bag; <= 0 means unlimited.
	MaxDiagnostics int
}

func (o Options) annotation() string {
	if o.Annotation == "" {
		return DefaultAnnotation
	}
	return o.Annotation
}

func (o Options) jobs() int {
	if o.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Jobs
}

// SiteResult is the outcome of one site.
type SiteResult struct {
	Site *Site
	// Qualifiers is the final qualifier set of the declaration.
	Qualifiers qualifier.Set
	Edits      []diag.TextEdit
	Diags      []diag.Diagnostic
}

// OK reports whether the site expanded.
func (r *SiteResult) OK() bool {
	return len(r.Diags) == 0
}

// Result is the outcome of expanding one file.
type Result struct {
	File  *source.File
	Sites []SiteResult
	// Edits of every successful site, in source order.
	Edits []diag.TextEdit
	Diags *diag.Bag
	// Output is the file content with Edits applied.
	Output []byte
}

// Expanded counts successful sites.
func (r *Result) Expanded() int {
	n := 0
	for i := range r.Sites {
		if r.Sites[i].OK() {
			n++
		}
	}
	return n
}

// Failed counts failed sites.
func (r *Result) Failed() int {
	return len(r.Sites) - r.Expanded()
}

// Changed reports whether Output differs from the input.
func (r *Result) Changed() bool {
	return len(r.Edits) > 0
}

// File expands every annotation site of file.
//
// Lexer and delimiter errors abort the whole file (no sites are produced);
// everything else is reported per site. The returned error is reserved for
// cancellation and internal edit conflicts.
func File(ctx context.Context, file *source.File, opts Options) (*Result, error) {
	res := &Result{File: file, Diags: diag.NewBag(opts.MaxDiagnostics), Output: file.Content}
	reporter := diag.BagReporter{Bag: res.Diags}

	_, lexSpan := trace.Start(ctx, trace.ScopePass, "lex")
	toks := lexer.Tokenize(file, lexer.Options{Reporter: reporter})
	lexSpan.WithExtra("tokens", fmt.Sprint(len(toks))).End("")
	if res.Diags.HasErrors() {
		return res, nil
	}

	_, scanSpan := trace.Start(ctx, trace.ScopePass, "scan")
	stream, err := tokstream.Build(toks)
	if err != nil {
		scanSpan.End("unbalanced delimiters")
		reportDelim(reporter, err)
		return res, nil
	}
	sites, scanDiags := scanSites(stream, file, opts.annotation())
	for _, d := range scanDiags {
		res.Diags.Add(d)
	}
	scanSpan.WithExtra("sites", fmt.Sprint(len(sites))).End("")

	expandCtx, expandSpan := trace.Start(ctx, trace.ScopePass, "expand")
	res.Sites = make([]SiteResult, len(sites))
	g, gctx := errgroup.WithContext(expandCtx)
	g.SetLimit(opts.jobs())
	for i, site := range sites {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, span := trace.Start(gctx, trace.ScopeSite, siteName(file, site))
			res.Sites[i] = expandSite(site)
			if !res.Sites[i].OK() {
				span.End(res.Sites[i].Diags[0].Code.ID())
			} else {
				span.End("")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		expandSpan.End("cancelled")
		return res, err
	}

	for i := range res.Sites {
		sr := &res.Sites[i]
		for _, d := range sr.Diags {
			res.Diags.Add(d)
		}
		if sr.OK() {
			res.Edits = append(res.Edits, sr.Edits...)
		}
	}
	expandSpan.WithExtra("expanded", fmt.Sprint(res.Expanded())).
		WithExtra("failed", fmt.Sprint(res.Failed())).End("")

	if len(res.Edits) > 0 {
		out, err := fix.ApplyEdits(file.Content, res.Edits)
		if err != nil {
			return res, fmt.Errorf("expand %s: %w", file.Path, err)
		}
		res.Output = out
	}
	return res, nil
}

// expandSite applies the annotations of one site, nearest first. It only
// reads from site, so sites may expand concurrently.
func expandSite(site *Site) SiteResult {
	sr := SiteResult{Site: site}
	if site.Err != nil {
		sr.Diags = append(sr.Diags, errorDiagnostic(site.Err))
		return sr
	}

	c := *site.Decl
	for i := len(site.Annotations) - 1; i >= 0; i-- {
		ann := site.Annotations[i]
		spec, err := qualifier.ParseTokens(ann.Args)
		if err != nil {
			d := errorDiagnostic(err)
			if len(site.Annotations) > 1 {
				d = d.WithNote(ann.Span, "in this annotation")
			}
			sr.Diags = append(sr.Diags, d)
			return sr
		}
		qualifier.ApplySpec(spec, &c)
	}

	sr.Qualifiers = c.Qualifiers()
	for _, ann := range site.Annotations {
		sr.Edits = append(sr.Edits, diag.TextEdit{Span: ann.Removal})
	}
	sr.Edits = append(sr.Edits, diag.TextEdit{Span: c.QualSpan, NewText: c.QualifierPrefix()})
	return sr
}

// siteName is "site:line:col" of the first annotation.
func siteName(file *source.File, site *Site) string {
	lc := file.Position(site.Span().Start)
	return fmt.Sprintf("site:%d:%d", lc.Line, lc.Col)
}

// diagnoser is implemented by the positioned errors of qualifier and decl.
type diagnoser interface {
	Diagnostic() diag.Diagnostic
}

func errorDiagnostic(err error) diag.Diagnostic {
	var d diagnoser
	if errors.As(err, &d) {
		return d.Diagnostic()
	}
	return diag.NewError(diag.UnknownCode, source.NoSpan, err.Error())
}

func reportDelim(r diag.Reporter, err error) {
	var de *tokstream.DelimError
	if !errors.As(err, &de) {
		diag.Emit(r, diag.NewError(diag.UnknownCode, source.NoSpan, err.Error()))
		return
	}
	code := diag.SynUnclosedDelimiter
	if de.Kind != tokstream.DelimUnclosed {
		code = diag.SynUnmatchedCloser
	}
	d := diag.NewError(code, de.Span, de.Error())
	if de.Kind == tokstream.DelimMismatched {
		d = d.WithNote(de.OpenSpan, "opened here")
	}
	diag.Emit(r, d)
}

// Patch is the two-fragment entry point: it parses specText as a
// specification and declText as one declaration, applies the former to the
// latter and returns the printed declaration. Both fragments are registered
// in fs as virtual files so diagnostics can be rendered.
func Patch(fs *source.FileSet, specText, declText string) (string, *diag.Bag) {
	bag := diag.NewBag(0)
	reporter := diag.BagReporter{Bag: bag}

	spec, ok := qualifier.ParseSpecText(fs, "<spec>", specText, reporter)
	c := decl.ParseFile(fs.Get(fs.AddVirtual("<decl>", []byte(declText))), reporter)
	if !ok || c == nil {
		return "", bag
	}
	qualifier.ApplySpec(spec, c)
	return decl.Print(c), bag
}
