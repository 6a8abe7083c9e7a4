package expand_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"fnqual/internal/diag"
	"fnqual/internal/expand"
	"fnqual/internal/qualifier"
	"fnqual/internal/source"
	"fnqual/internal/testkit"
)

func expandText(t *testing.T, text string, opts expand.Options) (*expand.Result, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("lib.fq", []byte(text)))
	res, err := expand.File(context.Background(), file, opts)
	require.NoError(t, err)
	return res, fs
}

func codes(items []diag.Diagnostic) []string {
	out := make([]string, 0, len(items))
	for _, d := range items {
		out = append(out, d.Code.ID())
	}
	return out
}

func TestExpandSingleSite(t *testing.T) {
	in := "// api\n@qualifiers(pub(crate))\nasync fn serve(addr: &str) -> io::Result<()> {\n    todo!()\n}\n"
	want := "// api\npub(crate) async fn serve(addr: &str) -> io::Result<()> {\n    todo!()\n}\n"

	res, _ := expandText(t, in, expand.Options{})
	require.Empty(t, res.Diags.Items())
	require.Equal(t, 1, res.Expanded())
	require.Equal(t, want, string(res.Output))
}

func TestExpandListReplacesQualifiers(t *testing.T) {
	in := "@qualifiers([unsafe, extern \"C\"])\npub const async fn f() {}\n"
	res, _ := expandText(t, in, expand.Options{})
	require.Empty(t, res.Diags.Items())
	require.Equal(t, "unsafe extern \"C\" fn f() {}\n", string(res.Output))
}

func TestExpandInlineAnnotation(t *testing.T) {
	res, _ := expandText(t, "@qualifiers(pub) fn f() {}", expand.Options{})
	require.Equal(t, "pub fn f() {}", string(res.Output))
}

func TestAnnotationsSharingALine(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"own line", "@qualifiers(pub) @qualifiers(async)\nfn f() {}\n", "pub async fn f() {}\n"},
		{"indented", "    @qualifiers(pub)\t@qualifiers(async)  \n    fn f() {}\n", "    pub async fn f() {}\n"},
		{"mixed lines", "@qualifiers(pub)\n@qualifiers(const) @qualifiers(async) fn f() {}\n", "pub const async fn f() {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _ := expandText(t, tt.in, expand.Options{})
			require.Empty(t, res.Diags.Items())
			require.Equal(t, tt.want, string(res.Output))
			require.NoError(t, testkit.CheckSpanInvariants(res, res.File))
		})
	}
}

func TestPrefixCommentsSurvive(t *testing.T) {
	in := "@qualifiers(unsafe)\npub /* c */ async fn f() {}\n"
	res, _ := expandText(t, in, expand.Options{})
	require.Empty(t, res.Diags.Items())
	require.Equal(t, "/* c */ pub async unsafe fn f() {}\n", string(res.Output))
}

func TestStackedAnnotationsApplyNearestFirst(t *testing.T) {
	in := "@qualifiers(pub)\n@qualifiers([async, unsafe])\nconst fn f() {}\n"
	res, _ := expandText(t, in, expand.Options{})
	require.Empty(t, res.Diags.Items())
	// [async, unsafe] clears const first, then pub is added on top.
	require.Equal(t, "pub async unsafe fn f() {}\n", string(res.Output))

	in = "@qualifiers([async])\n@qualifiers(pub)\nfn f() {}\n"
	res, _ = expandText(t, in, expand.Options{})
	// the list runs last and drops the visibility added by the nearer one.
	require.Equal(t, "async fn f() {}\n", string(res.Output))
}

func TestFailingSiteDoesNotStopOthers(t *testing.T) {
	in := "@qualifiers([pub, pub])\nfn a() {}\n\n@qualifiers(async)\nfn b() {}\n\n@qualifiers(static)\nfn c() {}\n"
	res, _ := expandText(t, in, expand.Options{Jobs: 2})

	require.Len(t, res.Sites, 3)
	require.Equal(t, 1, res.Expanded())
	require.Equal(t, 2, res.Failed())
	require.Equal(t, []string{"QUAL3002", "QUAL3001"}, codes(res.Diags.Items()))
	require.Equal(t,
		"@qualifiers([pub, pub])\nfn a() {}\n\nasync fn b() {}\n\n@qualifiers(static)\nfn c() {}\n",
		string(res.Output))
}

func TestNestedSitesInBodies(t *testing.T) {
	in := "mod net {\n    @qualifiers(pub)\n    fn outer() {\n        @qualifiers(const)\n        fn inner() {}\n    }\n}\n"
	want := "mod net {\n    pub fn outer() {\n        const fn inner() {}\n    }\n}\n"
	res, _ := expandText(t, in, expand.Options{})
	require.Empty(t, res.Diags.Items())
	require.Len(t, res.Sites, 2)
	require.Equal(t, want, string(res.Output))
}

func TestCustomAnnotationName(t *testing.T) {
	in := "@quals(pub)\nfn f() {}\n@qualifiers(pub)\nfn g() {}\n"
	res, _ := expandText(t, in, expand.Options{Annotation: "quals"})
	require.Equal(t, "pub fn f() {}\n@qualifiers(pub)\nfn g() {}\n", string(res.Output))
}

func TestSiteResultQualifiers(t *testing.T) {
	res, _ := expandText(t, "@qualifiers([async, pub])\nfn f() {}", expand.Options{})
	require.Len(t, res.Sites, 1)
	got := res.Sites[0].Qualifiers
	require.True(t, got.Has(qualifier.KindVisibility))
	require.True(t, got.Has(qualifier.KindAsynchrony))
	require.Equal(t, 2, got.Len())
}

func TestAnnotationErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code string
		at   string
	}{
		{"no target", "fn f() {}\n@qualifiers(pub)", "SYN2011", "@qualifiers(pub)"},
		{"no args", "@qualifiers fn f() {}", "SYN2010", "fn"},
		{"not a fn", "@qualifiers(pub)\nstruct S;", "SYN2004", "struct"},
		{"empty args", "@qualifiers()\nfn f() {}", "QUAL3001", ")"},
		{"bad payload", "@qualifiers(extern C)\nfn f() {}", "QUAL3004", "C"},
		{"missing comma", "@qualifiers([pub async])\nfn f() {}", "QUAL3003", "async"},
		{"unclosed", "@qualifiers([pub)\nfn f() {}", "SYN2003", ")"},
		{"lexer", "@qualifiers(pub)\nfn f() { $ }", "LEX1001", "$"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, fs := expandText(t, tt.in, expand.Options{})
			items := res.Diags.Items()
			require.Len(t, items, 1, "diagnostics: %v", codes(items))
			require.Equal(t, tt.code, items[0].Code.ID())
			require.Equal(t, tt.at, fs.Text(items[0].Primary))
			require.False(t, res.Changed())
			require.Equal(t, tt.in, string(res.Output))
		})
	}
}

func TestStackedFailureNotesAnnotation(t *testing.T) {
	res, _ := expandText(t, "@qualifiers(pub)\n@qualifiers([const, const])\nfn f() {}", expand.Options{})
	items := res.Diags.Items()
	require.Len(t, items, 1)
	require.Equal(t, "QUAL3002", items[0].Code.ID())
	require.Len(t, items[0].Notes, 2)
}

func TestCancelledContext(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("lib.fq", []byte("@qualifiers(pub)\nfn f() {}")))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := expand.File(ctx, file, expand.Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPatch(t *testing.T) {
	tests := []struct {
		spec, decl, want string
	}{
		{"pub", "async fn f() {}", "pub async fn f() {}"},
		{"[pub]", "const async fn f() {}", "pub fn f() {}"},
		{"[]", "pub const unsafe extern \"C\" fn f(x: u8) -> u8 { x }", "fn f(x: u8) -> u8 { x }"},
		{"extern \"system\"", "pub unsafe fn f();", "pub unsafe extern \"system\" fn f();"},
		{"[async, pub]", "fn f() {}", "pub async fn f() {}"},
	}
	for _, tt := range tests {
		got, bag := expand.Patch(source.NewFileSet(), tt.spec, tt.decl)
		require.Zero(t, bag.Len(), "%s on %s: %v", tt.spec, tt.decl, codes(bag.Items()))
		require.Equal(t, tt.want, got)
	}
}

func TestPatchReportsBothFragments(t *testing.T) {
	fs := source.NewFileSet()
	got, bag := expand.Patch(fs, "[pub, pub]", "fn f(")
	require.Empty(t, got)
	require.Equal(t, []string{"QUAL3002", "SYN2002"}, codes(bag.Items()))
}
