package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.fq", []byte("hello world"), 0)
	id2 := fs.Add("test.fq", []byte("hello universe"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}
	latest, ok := fs.GetLatest("test.fq")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v; want %d,true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Fatalf("old version content = %q", got)
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.fq", []byte("fn a() {}\n@qualifiers(pub)\nfn b() {}\n"))

	// "pub" starts at offset 22 (second line, column 13)
	start, end := fs.Resolve(Span{File: id, Start: 22, End: 25})
	if start != (LineCol{Line: 2, Col: 13}) {
		t.Fatalf("start = %+v", start)
	}
	if end != (LineCol{Line: 2, Col: 16}) {
		t.Fatalf("end = %+v", end)
	}
	if got := fs.Text(Span{File: id, Start: 22, End: 25}); got != "pub" {
		t.Fatalf("Text() = %q", got)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.fq", []byte("one\ntwo\nthree")))
	cases := map[uint32]string{0: "", 1: "one", 2: "two", 3: "three", 4: ""}
	for n, want := range cases {
		if got := f.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestNormalize(t *testing.T) {
	// BOM + CRLF + decomposed "é" (e + U+0301)
	in := []byte("\xEF\xBB\xBFfn e\u0301() {}\r\n")
	out, flags := Normalize(in)
	if string(out) != "fn \u00e9() {}\n" {
		t.Fatalf("Normalize() = %q", out)
	}
	want := FileHadBOM | FileNormalizedCRLF | FileNormalizedNFC
	if flags != want {
		t.Fatalf("flags = %b, want %b", flags, want)
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.fq")
	if err := os.WriteFile(path, []byte("fn x() {}\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if f.Flags&FileVirtual != 0 {
		t.Fatal("loaded file must not be virtual")
	}
	if got := f.FormatPath("relative", dir); got != "x.fq" {
		t.Fatalf("FormatPath(relative) = %q", got)
	}
}

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()
	baseDir := filepath.Join(tmp, "base")
	target := filepath.Join(tmp, "other", "file.fq")

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if want := normalizePath(target); got != want {
		t.Fatalf("expected absolute fallback %q, got %q", want, got)
	}
}

func TestRestoreLayout(t *testing.T) {
	fs := NewFileSet()
	raw := []byte("\xEF\xBB\xBFfn a() {}\r\nfn b() {}\r\n")
	content, flags := Normalize(raw)
	f := fs.Get(fs.Add("a.fq", content, flags))
	if string(f.Content) != "fn a() {}\nfn b() {}\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if got := f.RestoreLayout(f.Content); string(got) != string(raw) {
		t.Fatalf("RestoreLayout = %q, want %q", got, raw)
	}

	plain := fs.Get(fs.Add("b.fq", []byte("fn b() {}\n"), 0))
	if got := plain.RestoreLayout(plain.Content); string(got) != "fn b() {}\n" {
		t.Fatalf("RestoreLayout changed plain file: %q", got)
	}
}
