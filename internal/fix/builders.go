package fix

import (
	"fnqual/internal/diag"
	"fnqual/internal/source"
)

// Option mutates fix during construction.
type Option func(*diag.Fix)

// WithApplicability overrides applicability metadata.
func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) {
		f.Applicability = app
	}
}

// WithKind overrides fix classification.
func WithKind(kind diag.FixKind) Option {
	return func(f *diag.Fix) {
		f.Kind = kind
	}
}

// Preferred marks fix as preferred suggestion.
func Preferred() Option {
	return func(f *diag.Fix) {
		f.IsPreferred = true
	}
}

// WithID sets stable identifier for fix.
func WithID(id string) Option {
	return func(f *diag.Fix) {
		f.ID = id
	}
}

func newFix(title string, kind diag.FixKind, app diag.FixApplicability, edits []diag.TextEdit, opts []Option) diag.Fix {
	f := diag.Fix{
		Title:         title,
		Kind:          kind,
		Applicability: app,
		Edits:         edits,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

// InsertText creates fix that inserts text at span (Span.Start == Span.End).
func InsertText(title string, at source.Span, text, guard string, opts ...Option) diag.Fix {
	edits := []diag.TextEdit{{Span: at, NewText: text, OldText: guard}}
	return newFix(title, diag.FixKindQuickFix, diag.FixApplicabilityAlwaysSafe, edits, opts)
}

// DeleteSpan removes text covered by span.
func DeleteSpan(title string, span source.Span, expect string, opts ...Option) diag.Fix {
	edits := []diag.TextEdit{{Span: span, OldText: expect}}
	return newFix(title, diag.FixKindQuickFix, diag.FixApplicabilityAlwaysSafe, edits, opts)
}

// ReplaceSpan replaces text covered by span with newText.
func ReplaceSpan(title string, span source.Span, newText, expect string, opts ...Option) diag.Fix {
	edits := []diag.TextEdit{{Span: span, NewText: newText, OldText: expect}}
	return newFix(title, diag.FixKindQuickFix, diag.FixApplicabilityAlwaysSafe, edits, opts)
}

// WrapWith surrounds span with prefix and suffix insertions.
func WrapWith(title string, span source.Span, prefix, suffix string, opts ...Option) diag.Fix {
	edits := []diag.TextEdit{
		{Span: span.AtStart(), NewText: prefix},
		{Span: span.AtEnd(), NewText: suffix},
	}
	return newFix(title, diag.FixKindRewrite, diag.FixApplicabilitySafeWithHeuristics, edits, opts)
}
