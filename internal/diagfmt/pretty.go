package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"fnqual/internal/diag"
	"fnqual/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info *color.Color
	code, gutter    *color.Color
	caret, note     *color.Color
	fix, add, del   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgCyan),
		fix:    color.New(color.FgGreen),
		add:    color.New(color.FgGreen),
		del:    color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note, p.fix, p.add, p.del} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	PrettyItems(w, bag.Items(), fs, opts)
}

// PrettyItems is Pretty over a plain slice.
func PrettyItems(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &items[i], fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	loc := location(fs, d.Primary, opts.PathMode)
	sev := p.severity(d.Severity).Sprint(d.Severity.String())
	if loc != "" {
		fmt.Fprintf(w, "%s: %s %s: %s\n", loc, sev, p.code.Sprint(d.Code.ID()), d.Message)
	} else {
		fmt.Fprintf(w, "%s %s: %s\n", sev, p.code.Sprint(d.Code.ID()), d.Message)
	}
	writeSnippet(w, fs, d.Primary, opts, p)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			if nl := location(fs, n.Span, opts.PathMode); nl != "" {
				fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), nl, n.Msg)
			} else {
				fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
			}
		}
	}

	if !opts.ShowFixes {
		return
	}
	for i, f := range sortedFixes(d.Fixes) {
		header := fmt.Sprintf("fix #%d: %s", i+1, f.Title)
		fmt.Fprintf(w, "  %s (%s, %s)", p.fix.Sprint(header), f.Kind, f.Applicability)
		if f.ID != "" {
			fmt.Fprintf(w, " id=%s", f.ID)
		}
		if f.IsPreferred {
			fmt.Fprint(w, " preferred")
		}
		fmt.Fprintln(w)
		for _, e := range f.Edits {
			fmt.Fprintf(w, "    edit %s apply=%q", location(fs, e.Span, opts.PathMode), e.NewText)
			if e.OldText != "" {
				fmt.Fprintf(w, " expect=%q", e.OldText)
			}
			fmt.Fprintln(w)
		}
		if !opts.ShowPreview {
			continue
		}
		preview, err := buildFixPreview(fs, f)
		if err != nil {
			continue
		}
		fmt.Fprintln(w, "    preview:")
		for _, line := range preview.before {
			fmt.Fprintf(w, "      %s\n", p.del.Sprint("- "+line))
		}
		for _, line := range preview.after {
			fmt.Fprintf(w, "      %s\n", p.add.Sprint("+ "+line))
		}
	}
}

// location renders path:line:col, or "" for spans without a file.
func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	if fs == nil || !fs.Has(sp.File) {
		return ""
	}
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs, f, mode), start.Line, start.Col)
}

// writeSnippet prints the context lines and the primary line with a caret
// underline. Columns are display columns: tabs expand to tabWidth and wide
// runes take two cells.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts, p palette) {
	if fs == nil || !fs.Has(sp.File) {
		return
	}
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	gutterWidth := len(fmt.Sprint(start.Line))

	first := start.Line
	if opts.Context > 0 {
		back := uint32(opts.Context) // #nosec G115 -- checked > 0
		if back >= first {
			first = 1
		} else {
			first -= back
		}
	}
	for ln := first; ln <= start.Line; ln++ {
		line := expandTabs(f.GetLine(ln))
		if opts.Width > 0 {
			line = truncate(line, int(opts.Width))
		}
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), line)
	}

	raw := f.GetLine(start.Line)
	col := int(start.Col) - 1
	col = min(max(col, 0), len(raw))
	endCol := len(raw)
	if end.Line == start.Line {
		endCol = min(max(int(end.Col)-1, col), len(raw))
	}
	pad := runewidth.StringWidth(expandTabs(raw[:col]))
	width := runewidth.StringWidth(expandTabs(raw[:endCol])) - pad
	underline := "^"
	if width > 1 {
		underline += strings.Repeat("~", width-1)
	}
	fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), p.caret.Sprint(underline))
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var sb strings.Builder
	w := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - w%tabWidth
			sb.WriteString(strings.Repeat(" ", n))
			w += n
			continue
		}
		sb.WriteRune(r)
		w += runewidth.RuneWidth(r)
	}
	return sb.String()
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
