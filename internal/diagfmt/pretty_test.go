package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"fnqual/internal/diag"
	"fnqual/internal/fix"
	"fnqual/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	content := []byte("@qualifiers(static)\nfn f() {}\n")
	fileID := fs.AddVirtual("/home/user/project/src/lib.fq", content)

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.QualUnrecognized, source.Span{File: fileID, Start: 12, End: 18}, "unrecognized qualifier `static`"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/lib.fq:1:13"},
		{"Relative path", PathModeRelative, "src/lib.fq:1:13"},
		{"Basename only", PathModeBasename, "lib.fq:1:13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR QUAL3001: unrecognized qualifier `static`") {
				t.Errorf("Expected header line, got:\n%s", output)
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("// header\n@qualifiers([pub, pub])\nfn f() {}\n")
	fileID := fs.AddVirtual("lib.fq", content)

	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.QualDuplicate, source.Span{File: fileID, Start: 28, End: 31}, "duplicate visibility qualifier"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})

	want := strings.Join([]string{
		"lib.fq:2:19: ERROR QUAL3002: duplicate visibility qualifier",
		" 1 | // header",
		" 2 | @qualifiers([pub, pub])",
		"   |                   ^~~",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyCaretCountsDisplayColumns(t *testing.T) {
	fs := source.NewFileSet()
	// таб и широкий символ перед ошибкой
	content := []byte("\t\"日本\" pub\n")
	fileID := fs.AddVirtual("wide.fq", content)
	start := uint32(len("\t\"日本\" "))

	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.SynUnexpectedToken, source.Span{File: fileID, Start: start, End: start + 3}, "unexpected"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("short output:\n%s", buf.String())
	}
	// 4 (tab) + 1 (") + 4 (два широких) + 1 (") + 1 (пробел) = 11
	if want := "   | " + strings.Repeat(" ", 11) + "^~~"; lines[2] != want {
		t.Errorf("caret line %q, want %q", lines[2], want)
	}
	if !strings.Contains(lines[1], `    "日本" pub`) {
		t.Errorf("tabs not expanded: %q", lines[1])
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("@qualifiers([pub, async, pub])\nfn f() {}\n")
	fileID := fs.AddVirtual("lib.fq", content)

	d := diag.NewError(diag.QualDuplicate, source.Span{File: fileID, Start: 25, End: 28}, "duplicate visibility qualifier")
	d = d.WithNote(source.Span{File: fileID, Start: 13, End: 16}, "first visibility qualifier here")
	d = d.WithFixSuggestion(fix.DeleteSpan("remove duplicate", source.Span{File: fileID, Start: 23, End: 28}, ", pub", fix.WithID("dup-001"), fix.Preferred()))
	d = d.WithFixSuggestion(fix.WrapWith("wrap in list", source.Span{File: fileID, Start: 12, End: 29}, "[", "]"))

	bag := diag.NewBag(4)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, ShowFixes: true})
	output := buf.String()

	for _, want := range []string{
		"note: lib.fq:1:14: first visibility qualifier here",
		"fix #1: remove duplicate (quickfix, always-safe) id=dup-001 preferred",
		`edit lib.fq:1:24 apply="" expect=", pub"`,
		"fix #2: wrap in list (rewrite, safe-with-heuristics)",
		`apply="["`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
	if strings.Contains(output, "preview:") {
		t.Errorf("preview must be off by default:\n%s", output)
	}
}

func TestPrettyFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("@qualifiers([pub async])\nfn f() {}\n")
	fileID := fs.AddVirtual("lib.fq", content)

	insert := source.Span{File: fileID, Start: 16, End: 16}
	d := diag.NewError(diag.QualMalformedList, insert, "expected `,`").WithFix("insert comma", diag.TextEdit{Span: insert, NewText: ","})
	bag := diag.NewBag(2)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowFixes: true, ShowPreview: true})
	output := buf.String()

	if !strings.Contains(output, "preview:") {
		t.Fatalf("expected preview header in output, got:\n%s", output)
	}
	if !strings.Contains(output, "- @qualifiers([pub async])") {
		t.Fatalf("expected before line in preview, got:\n%s", output)
	}
	if !strings.Contains(output, "+ @qualifiers([pub, async])") {
		t.Fatalf("expected after line in preview, got:\n%s", output)
	}
}

func TestPrettyWithoutLocation(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.NoSpan, "failed to load a.fq"))

	var buf bytes.Buffer
	Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{})
	if got, want := buf.String(), "ERROR IO4001: failed to load a.fq\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("lib.fq", []byte("fn f() {}\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.SynUnexpectedToken, source.Span{File: fileID, Start: 0, End: 2}, "w"))

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("plain output has escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colored output has no escapes: %q", colored.String())
	}
}

func TestPrettyWidthTruncates(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("lib.fq", []byte("fn a_really_long_function_name_here() {}\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.SynUnexpectedToken, source.Span{File: fileID, Start: 0, End: 2}, "x"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Width: 12})
	if !strings.Contains(buf.String(), " 1 | fn a_real...\n") {
		t.Errorf("line not truncated:\n%s", buf.String())
	}
}
