package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"fnqual/internal/project"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	// кэш и поиск конфигурации не должны зависеть от машины
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestPatchCommand(t *testing.T) {
	tests := []struct {
		name, spec, decl, want string
	}{
		{"single", "pub(crate)", "async fn f() {}", "pub(crate) async fn f() {}\n"},
		{"list", "[const, unsafe]", "pub async fn f() {}", "const unsafe fn f() {}\n"},
		{"empty list", "[]", "pub unsafe fn f();", "fn f();\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "patch", "--spec", tt.spec, "--decl", tt.decl)
			require.Equal(t, 0, res.code, res.stderr)
			require.Equal(t, tt.want, res.stdout)
		})
	}
}

func TestPatchDeclFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "decl.txt", "fn f() {}\n")
	res := runCLI(t, "patch", "--spec", "async", "--decl-file", path)
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "async fn f() {}\n", res.stdout)
}

func TestPatchReportsDiagnostics(t *testing.T) {
	res := runCLI(t, "--color", "off", "patch", "--spec", "static", "--decl", "fn f() {}")
	require.Equal(t, 1, res.code)
	require.Empty(t, res.stdout)
	require.Contains(t, res.stderr, "ERROR QUAL3001")
	require.NotContains(t, res.stderr, "\x1b[")
}

func TestPatchFixPreview(t *testing.T) {
	res := runCLI(t, "--color", "off", "patch", "--spec", "[pub async]", "--decl", "fn f() {}")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "QUAL3003")
	require.NotContains(t, res.stderr, "fix #1")

	res = runCLI(t, "--color", "off", "--preview", "patch", "--spec", "[pub async]", "--decl", "fn f() {}")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "fix #1")
	require.Contains(t, res.stderr, "- [pub async]")
	require.Contains(t, res.stderr, "+ [pub, async]")

	res = runCLI(t, "--preview", "patch", "--format", "json", "--spec", "[pub async]", "--decl", "fn f() {}")
	require.Equal(t, 1, res.code)
	var out struct {
		Diagnostics struct {
			Diagnostics []struct {
				Fixes []struct {
					AfterLines []string `json:"after_lines"`
				} `json:"fixes"`
			} `json:"diagnostics"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out), res.stdout)
	require.NotEmpty(t, out.Diagnostics.Diagnostics)
	require.NotEmpty(t, out.Diagnostics.Diagnostics[0].Fixes)
	require.Equal(t, []string{"[pub, async]"}, out.Diagnostics.Diagnostics[0].Fixes[0].AfterLines)
}

func TestPatchJSON(t *testing.T) {
	res := runCLI(t, "patch", "--format", "json", "--spec", "pub", "--decl", "async fn f() {}")
	require.Equal(t, 0, res.code, res.stderr)

	var out patchPayload
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out), res.stdout)
	require.Equal(t, "pub async fn f() {}", out.Output)
	require.Zero(t, out.Diagnostics.Count)
	require.Empty(t, res.stderr)
}

func TestPatchJSONDiagnostics(t *testing.T) {
	res := runCLI(t, "patch", "--format", "json", "--spec", "[pub, pub]", "--decl", "fn f() {}")
	require.Equal(t, 1, res.code)

	var out struct {
		Output      string `json:"output"`
		Diagnostics struct {
			Count       int `json:"count"`
			Diagnostics []struct {
				Code  string `json:"code"`
				Fixes []any  `json:"fixes"`
			} `json:"diagnostics"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out), res.stdout)
	require.Empty(t, out.Output)
	require.Equal(t, 1, out.Diagnostics.Count)
	require.Equal(t, "QUAL3002", out.Diagnostics.Diagnostics[0].Code)
	require.Len(t, out.Diagnostics.Diagnostics[0].Fixes, 1)
}

func TestPatchFlagValidation(t *testing.T) {
	res := runCLI(t, "patch", "--decl", "fn f() {}")
	require.Equal(t, 2, res.code)
	require.Contains(t, res.stderr, "spec")

	res = runCLI(t, "patch", "--spec", "pub", "--decl", "fn f() {}", "--decl-file", "x")
	require.Equal(t, 2, res.code)

	res = runCLI(t, "--severity", "loud", "patch", "--spec", "pub", "--decl", "fn f() {}")
	require.Equal(t, 2, res.code)
	require.Contains(t, res.stderr, "invalid --severity")
	require.NotContains(t, res.stdout, "Usage:")
}

func TestExpandFilePrintsOutput(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lib.fq", "@qualifiers(pub)\nfn f() {}\n")

	res := runCLI(t, "expand", path)
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "pub fn f() {}\n", res.stdout)
	require.Contains(t, res.stderr, "expanded 1 site(s) in 1 file(s)")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "@qualifiers(pub)\nfn f() {}\n", string(data), "file must not change without --write")
}

func TestExpandDirWrite(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.fq", "@qualifiers(async)\nfn a() {}\r\n")
	b := writeFile(t, dir, "sub/b.fq", "@qualifiers([pub, pub])\nfn b() {}\n")

	res := runCLI(t, "--quiet", "--color", "off", "expand", "--write", "--ui", "off", dir)
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "QUAL3002")
	require.NotContains(t, res.stderr, "expanded")

	data, err := os.ReadFile(a)
	require.NoError(t, err)
	require.Equal(t, "async fn a() {}\r\n", string(data))

	// файл с ошибкой остаётся как был
	data, err = os.ReadFile(b)
	require.NoError(t, err)
	require.Equal(t, "@qualifiers([pub, pub])\nfn b() {}\n", string(data))
}

func TestExpandJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lib.fq", "@qualifiers(unsafe)\nfn f() {}\n")

	res := runCLI(t, "--timings", "expand", "--format", "json", path)
	require.Equal(t, 0, res.code, res.stderr)

	var out expandPayload
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out), res.stdout)
	require.Len(t, out.Files, 1)
	require.Equal(t, 1, out.Files[0].Expanded)
	require.True(t, out.Files[0].Changed)
	require.Equal(t, "unsafe fn f() {}\n", out.Files[0].Output)
	require.Zero(t, out.Diagnostics.Count)
	require.Len(t, out.Timings, 1)
}

// Failing sites exit with 1, but stdout must still carry only the
// expanded source or the JSON document.
func TestExpandFailureKeepsStdoutClean(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lib.fq", "@qualifiers([pub, pub])\nfn a() {}\n@qualifiers(async)\nfn b() {}\n")

	res := runCLI(t, "--color", "off", "expand", path)
	require.Equal(t, 1, res.code)
	require.Equal(t, "@qualifiers([pub, pub])\nfn a() {}\nasync fn b() {}\n", res.stdout)
	require.NotContains(t, res.stderr, "Usage:")
	require.Contains(t, res.stderr, "QUAL3002")

	res = runCLI(t, "expand", "--format", "json", path)
	require.Equal(t, 1, res.code)
	require.NotContains(t, res.stdout, "Usage:")
	var out expandPayload
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out), res.stdout)
	require.Equal(t, 1, out.Diagnostics.Count)
	require.Equal(t, 1, out.Files[0].Failed)

	res = runCLI(t, "patch", "--format", "json", "--spec", "static", "--decl", "fn f() {}")
	require.Equal(t, 1, res.code)
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &patchPayload{}), res.stdout)
}

func TestExpandUsesConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, project.ManifestName, "[expand]\nannotation = \"q\"\nextensions = [\".rsx\"]\ncache = false\n")
	path := writeFile(t, dir, "lib.rsx", "@q(pub)\nfn f() {}\n")

	res := runCLI(t, "expand", path)
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "pub fn f() {}\n", res.stdout)

	res = runCLI(t, "expand", "--annotation", "other", path)
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "@q(pub)\nfn f() {}\n", res.stdout)
}

func TestExpandBadConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, project.ManifestName, "[expand]\nannotaton = \"q\"\n")
	path := writeFile(t, dir, "lib.fq", "fn f() {}\n")

	res := runCLI(t, "expand", path)
	require.Equal(t, 2, res.code)
	require.Contains(t, res.stderr, "unknown keys")
}

func TestFixCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lib.fq", "@qualifiers([pub, async, pub])\nfn f() {}\n")

	res := runCLI(t, "fix", "--dry-run", path)
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "Would apply 1 fix(es)")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "@qualifiers([pub, async, pub])\nfn f() {}\n", string(data))

	res = runCLI(t, "fix", "--all", path)
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "remove duplicate qualifier [remove-duplicate-qualifier]")
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "@qualifiers([pub, async])\nfn f() {}\n", string(data))

	res = runCLI(t, "fix", path)
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "No applicable fixes found.")
}

func TestFixFlagConflicts(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lib.fq", "fn f() {}\n")
	res := runCLI(t, "fix", "--all", "--once", path)
	require.Equal(t, 2, res.code)
	require.Contains(t, res.stderr, "mutually exclusive")

	res = runCLI(t, "fix", "--id", "x", dir)
	require.Equal(t, 2, res.code)
}

func TestTokenizeJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "t.fq", "pub fn")

	res := runCLI(t, "tokenize", "--format", "json", path)
	require.Equal(t, 0, res.code, res.stderr)
	var toks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &toks))
	require.Len(t, toks, 3) // pub, fn, EOF
	require.Equal(t, "pub", toks[0]["text"])
}

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")

	res := runCLI(t, "init", dir)
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "fnqual.toml")

	cfg, err := project.Load(filepath.Join(dir, project.ManifestName))
	require.NoError(t, err)
	require.Equal(t, project.Default(), cfg)

	res = runCLI(t, "init", dir)
	require.Equal(t, 2, res.code)
	require.Contains(t, res.stderr, "already initialized")

	res = runCLI(t, "init", "--force", dir)
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "example.fq (existing)")

	// пример из init раскрывается без ошибок
	res = runCLI(t, "--config", filepath.Join(dir, project.ManifestName), "expand", filepath.Join(dir, "example.fq"))
	require.Equal(t, 0, res.code, res.stderr)
	require.True(t, strings.HasPrefix(res.stdout, "// fnqual example"))
	require.Contains(t, res.stdout, "pub(crate) const unsafe fn raw_len")
}

func TestVersionJSON(t *testing.T) {
	res := runCLI(t, "version", "--format", "json", "--hash")
	require.Equal(t, 0, res.code, res.stderr)
	var out versionPayload
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	require.Equal(t, "fnqual", out.Tool)
	require.NotEmpty(t, out.Version)
	require.NotEmpty(t, out.GitCommit)
}

func TestTraceToFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lib.fq", "@qualifiers(pub)\nfn f() {}\n")
	tracePath := filepath.Join(dir, "trace.ndjson")

	res := runCLI(t, "--trace", tracePath, "--trace-level", "debug", "expand", path)
	require.Equal(t, 0, res.code, res.stderr)

	data, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	text := string(data)
	for _, name := range []string{`"expand-file"`, `"lex"`, `"site:1:1"`} {
		require.Contains(t, text, name)
	}
}

func TestProfilingFlags(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")

	res := runCLI(t, "--cpu-profile", cpu, "--mem-profile", mem, "patch", "--spec", "pub", "--decl", "fn f() {}")
	require.Equal(t, 0, res.code, res.stderr)
	require.FileExists(t, cpu)
	require.FileExists(t, mem)
}

func TestUnknownCommand(t *testing.T) {
	res := runCLI(t, "frobnicate")
	require.Equal(t, 2, res.code)
	require.Contains(t, res.stderr, "unknown command")
}
