package fix

import (
	"testing"

	"fnqual/internal/diag"
	"fnqual/internal/source"
)

func TestDeleteSpan(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.fq", []byte("[pub, pub]"))

	span := source.Span{File: fileID, Start: 4, End: 9}
	f := DeleteSpan("remove duplicate", span, ", pub")

	if len(f.Edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(f.Edits))
	}
	edit := f.Edits[0]
	if edit.NewText != "" {
		t.Errorf("expected empty NewText for deletion, got %q", edit.NewText)
	}
	if edit.OldText != ", pub" {
		t.Errorf("expected OldText ', pub', got %q", edit.OldText)
	}
	if f.Applicability != diag.FixApplicabilityAlwaysSafe || f.Kind != diag.FixKindQuickFix {
		t.Errorf("unexpected metadata %v/%v", f.Kind, f.Applicability)
	}
}

func TestReplaceSpan(t *testing.T) {
	span := source.Span{Start: 0, End: 3}
	f := ReplaceSpan("widen visibility", span, "pub(crate)", "pub")

	edit := f.Edits[0]
	if edit.NewText != "pub(crate)" || edit.OldText != "pub" {
		t.Errorf("unexpected edit %+v", edit)
	}
}

func TestMultipleOptions(t *testing.T) {
	span := source.Span{Start: 0, End: 0}
	f := InsertText(
		"insert comma",
		span,
		",",
		"",
		WithID("insert-comma"),
		Preferred(),
		WithKind(diag.FixKindRefactor),
		WithApplicability(diag.FixApplicabilityManualReview),
	)

	if f.ID != "insert-comma" {
		t.Errorf("ID = %q", f.ID)
	}
	if !f.IsPreferred {
		t.Error("expected IsPreferred")
	}
	if f.Kind != diag.FixKindRefactor {
		t.Errorf("Kind = %v", f.Kind)
	}
	if f.Applicability != diag.FixApplicabilityManualReview {
		t.Errorf("Applicability = %v", f.Applicability)
	}
}

func TestNilOptionIsIgnored(t *testing.T) {
	f := InsertText("x", source.Span{}, "x", "", nil, WithID("ok"))
	if f.ID != "ok" {
		t.Fatalf("ID = %q", f.ID)
	}
}

func TestWrapWith(t *testing.T) {
	span := source.Span{Start: 2, End: 11}
	f := WrapWith("wrap", span, "[", "]")

	if len(f.Edits) != 2 {
		t.Fatalf("expected 2 edits, got %d", len(f.Edits))
	}
	if f.Edits[0].Span.Start != 2 || f.Edits[0].Span.End != 2 || f.Edits[0].NewText != "[" {
		t.Errorf("unexpected prefix edit %+v", f.Edits[0])
	}
	if f.Edits[1].Span.Start != 11 || f.Edits[1].Span.End != 11 || f.Edits[1].NewText != "]" {
		t.Errorf("unexpected suffix edit %+v", f.Edits[1])
	}
	if f.Applicability != diag.FixApplicabilitySafeWithHeuristics {
		t.Errorf("Applicability = %v", f.Applicability)
	}
}
