package decl_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"fnqual/internal/decl"
	"fnqual/internal/diag"
	"fnqual/internal/qualifier"
	"fnqual/internal/source"
)

func parse(t *testing.T, text string) *decl.Callable {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("decl.fq", []byte(text)))
	bag := diag.NewBag(0)
	c := decl.ParseFile(file, diag.BagReporter{Bag: bag})
	if c == nil {
		t.Fatalf("parse %q failed: %s", text, diag.FormatShortDiagnostics(bag.Items(), fs, false))
	}
	return c
}

func parseDiags(t *testing.T, text string) ([]diag.Diagnostic, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("decl.fq", []byte(text)))
	bag := diag.NewBag(0)
	if c := decl.ParseFile(file, diag.BagReporter{Bag: bag}); c != nil {
		t.Fatalf("parse %q: expected failure", text)
	}
	return bag.Items(), file
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		input string
		want  decl.Callable
	}{
		{
			input: "fn f() {}",
			want:  decl.Callable{Name: "f", Params: "()", Body: "{}"},
		},
		{
			input: `pub(crate) const async unsafe extern "C" fn read<'a, T: Into<Vec<u8>>>(buf: &'a mut [u8; 4]) -> Result<usize, ()> where T: Copy { loop {} }`,
			want: decl.Callable{
				Vis: qualifier.Visibility{Scope: qualifier.ScopeCrate}, HasVis: true,
				Const: true, Async: true, Unsafe: true,
				Abi: qualifier.Abi{Name: "C", HasName: true, Raw: `"C"`}, HasAbi: true,
				Name:     "read",
				Generics: "<'a, T: Into<Vec<u8>>>",
				Params:   "(buf: &'a mut [u8; 4])",
				Ret:      "Result<usize, ()>",
				Where:    "where T: Copy",
				Body:     "{ loop {} }",
			},
		},
		{
			input: "extern fn callback(f: fn() -> u8) -> u8;",
			want: decl.Callable{
				HasAbi: true,
				Name:   "callback",
				Params: "(f: fn() -> u8)",
				Ret:    "u8",
			},
		},
		{
			input: "#[inline]\n#[must_use]\nasync pub fn g() -> impl Future<Output = ()> { async {} }",
			want: decl.Callable{
				Vis: qualifier.Visibility{Scope: qualifier.ScopePublic}, HasVis: true,
				Async:  true,
				Attrs:  "#[inline]\n#[must_use]",
				Name:   "g",
				Params: "()",
				Ret:    "impl Future<Output = ()>",
				Body:   "{ async {} }",
			},
		},
	}
	opts := cmp.Options{
		cmpopts.IgnoreUnexported(decl.Callable{}),
		cmpopts.IgnoreFields(decl.Callable{}, "Span", "QualSpan"),
	}
	for _, tt := range tests {
		t.Run(tt.want.Name, func(t *testing.T) {
			got := parse(t, tt.input)
			if diff := cmp.Diff(tt.want, *got, opts); diff != "" {
				t.Fatalf("callable mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrintRoundTrip(t *testing.T) {
	inputs := []string{
		"fn f() {}",
		"pub fn  spaced ( a : u8 )  ->  u8 {\n    a // keep me\n}",
		`pub(in crate::io) const unsafe extern "system" fn raw<T>(x: T) -> T;`,
		"#[cfg(test)]\nasync fn t() { /* body */ }",
	}
	for _, in := range inputs {
		c := parse(t, in)
		if got := decl.Print(c); got != in {
			t.Fatalf("round trip:\n got %q\nwant %q", got, in)
		}
	}
}

func TestPrintCanonicalOrder(t *testing.T) {
	c := parse(t, `unsafe   extern "C" pub async fn f() {}`)
	if got, want := decl.Print(c), `pub async unsafe extern "C" fn f() {}`; got != want {
		t.Fatalf("Print = %q, want %q", got, want)
	}
}

func TestPatchKeepsOpaqueParts(t *testing.T) {
	c := parse(t, "#[inline]\npub const fn size<T>() -> usize { core::mem::size_of::<T>() }")

	qualifier.Apply(mustSpec(t, `[unsafe, extern "C"]`).Patch(), c)
	want := "#[inline]\nunsafe extern \"C\" fn size<T>() -> usize { core::mem::size_of::<T>() }"
	if got := decl.Print(c); got != want {
		t.Fatalf("Print = %q, want %q", got, want)
	}

	qualifier.Apply(mustSpec(t, "pub(super)").Patch(), c)
	want = "#[inline]\npub(super) unsafe extern \"C\" fn size<T>() -> usize { core::mem::size_of::<T>() }"
	if got := decl.Print(c); got != want {
		t.Fatalf("Print = %q, want %q", got, want)
	}

	qualifier.Apply(mustSpec(t, "[]").Patch(), c)
	want = "#[inline]\nfn size<T>() -> usize { core::mem::size_of::<T>() }"
	if got := decl.Print(c); got != want {
		t.Fatalf("Print = %q, want %q", got, want)
	}
}

func TestPrintKeepsPrefixComments(t *testing.T) {
	tests := []struct {
		input, spec, want string
	}{
		{"pub /* c */ async fn f() {}", "unsafe", "/* c */ pub async unsafe fn f() {}"},
		{"pub /* a */ const /* b */ fn f() {}", "[]", "/* a */ /* b */ fn f() {}"},
		{"    pub // why\n    async fn f() {}", "[async]", "// why\n    async fn f() {}"},
		{"/* before */ pub fn f() {}", "async", "pub async fn f() {}"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := parse(t, tt.input)
			qualifier.ApplySpec(mustSpec(t, tt.spec), c)
			if got := decl.Print(c); got != tt.want {
				t.Fatalf("Print = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSynthesizedPrint(t *testing.T) {
	c := &decl.Callable{Name: "stub", Params: "(x: u32)", Ret: "u32", Async: true}
	if got, want := decl.Print(c), "async fn stub(x: u32) -> u32;"; got != want {
		t.Fatalf("Print = %q, want %q", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		code  diag.Code
		at    string
	}{
		{"", diag.SynExpectFn, ""},
		{"pub struct S;", diag.SynExpectFn, "struct"},
		{"pub pub fn f() {}", diag.SynDuplicateModifier, "pub"},
		{"async const async fn f() {}", diag.SynDuplicateModifier, "async"},
		{"fn () {}", diag.SynExpectIdentifier, "("},
		{"fn f {}", diag.SynExpectParams, "{"},
		{"fn f<T(x: T) {}", diag.SynUnclosedDelimiter, "<"},
		{"fn f() -> {}", diag.SynUnexpectedToken, ""},
		{"fn f()", diag.SynExpectBody, ""},
		{"fn f() {} fn g() {}", diag.SynTrailingTokens, "fn"},
		{"fn f() {", diag.SynUnclosedDelimiter, "{"},
		{`extern 1 fn f() {}`, diag.QualMalformedPayload, "1"},
		{`pub(foo) fn f() {}`, diag.QualMalformedPayload, "foo"},
		{`fn f() { "open }`, diag.LexUnterminatedString, `"open }`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			diags, file := parseDiags(t, tt.input)
			if len(diags) != 1 {
				t.Fatalf("expected 1 diagnostic, got %d: %+v", len(diags), diags)
			}
			d := diags[0]
			if d.Code != tt.code {
				t.Fatalf("code = %s, want %s (%s)", d.Code.ID(), tt.code.ID(), d.Message)
			}
			if got := file.Slice(d.Primary); got != tt.at {
				t.Fatalf("anchored at %q, want %q", got, tt.at)
			}
		})
	}
}

func TestDuplicateModifierFix(t *testing.T) {
	diags, _ := parseDiags(t, "pub async async fn f() {}")
	if len(diags[0].Fixes) != 1 {
		t.Fatalf("expected a fix")
	}
	edit := diags[0].Fixes[0].Edits[0]
	in := "pub async async fn f() {}"
	if got := in[:edit.Span.Start] + in[edit.Span.End:]; got != "pub async fn f() {}" {
		t.Fatalf("fixed = %q", got)
	}
	if len(diags[0].Notes) != 1 || diags[0].Notes[0].Span.Start != 4 {
		t.Fatalf("expected note at first async, got %+v", diags[0].Notes)
	}
}

func TestParseReturnsTypedErrors(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("decl.fq", []byte("extern 'x' fn f();")))
	s := mustStream(t, file)
	_, err := decl.Parse(s, file)
	var qe *qualifier.Error
	if !errors.As(err, &qe) || qe.Reason != qualifier.ReasonMalformedPayload {
		t.Fatalf("expected MalformedQualifierPayload, got %v", err)
	}
}
