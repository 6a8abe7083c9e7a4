package diag

import (
	"testing"

	"fnqual/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("spec.fq", []byte("[pub,\n pub]\n"))

	diags := []Diagnostic{
		NewError(QualDuplicate, source.Span{File: file, Start: 7, End: 10}, "duplicate visibility qualifier").
			WithNote(source.Span{File: file, Start: 1, End: 4}, "first visibility qualifier here"),
		New(SevWarning, SynUnexpectedToken, source.Span{File: file, Start: 0, End: 1}, "multi\nline"),
	}

	want := "warning SYN2001 spec.fq:1:1 multi line\n" +
		"note QUAL3002 spec.fq:1:2 first visibility qualifier here\n" +
		"error QUAL3002 spec.fq:2:2 duplicate visibility qualifier"

	if got := FormatShortDiagnostics(diags, fs, true); got != want {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(2)
	bag.Add(NewError(QualDuplicate, source.Span{Start: 5, End: 6}, "b"))
	bag.Add(NewError(QualUnrecognized, source.Span{Start: 1, End: 2}, "a"))
	if bag.Add(NewError(QualUnrecognized, source.Span{Start: 0, End: 1}, "c")) {
		t.Fatal("bag must refuse diagnostics past its limit")
	}
	bag.Sort()
	if got := bag.Items()[0].Message; got != "a" {
		t.Fatalf("first after sort = %q", got)
	}
	if !bag.HasErrors() {
		t.Fatal("HasErrors() = false")
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:    "LEX1001",
		SynExpectFn:       "SYN2004",
		QualDuplicate:     "QUAL3002",
		IOLoadFileError:   "IO4001",
		ProjInvalidConfig: "PRJ5001",
		UnknownCode:       "E0000",
	}
	for c, want := range cases {
		if got := c.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", c, got, want)
		}
	}
}
