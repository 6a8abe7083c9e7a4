package project

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fnqual/internal/diag"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[expand]
annotation = "quals"
jobs = 4

[diagnostics]
color = "off"
severity = "warning"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Expand.Annotation != "quals" || cfg.Expand.Jobs != 4 {
		t.Fatalf("unexpected [expand]: %+v", cfg.Expand)
	}
	if !cfg.Expand.Cache || len(cfg.Expand.Extensions) != 1 || cfg.Expand.Extensions[0] != ".fq" {
		t.Fatalf("defaults lost: %+v", cfg.Expand)
	}
	if cfg.Diagnostics.Color != "off" || cfg.Diagnostics.Max != 100 || cfg.Diagnostics.Severity != diag.SevWarning {
		t.Fatalf("unexpected [diagnostics]: %+v", cfg.Diagnostics)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		body string
		want error
		text string
	}{
		{"[expand]\nannotation = \"9lives\"\n", ErrInvalidAnnotation, ""},
		{"[expand]\nextensions = [\"fq\"]\n", ErrInvalidExtension, ""},
		{"[diagnostics]\ncolor = \"sometimes\"\n", ErrInvalidColor, ""},
		{"[diagnostics]\nseverity = \"loud\"\n", nil, "unknown severity"},
		{"[expand]\nannotaion = \"x\"\n", nil, "unknown keys: expand.annotaion"},
		{"[expand\n", nil, "failed to parse TOML"},
	}
	for _, tt := range tests {
		path := writeManifest(t, t.TempDir(), tt.body)
		_, err := Load(path)
		if err == nil {
			t.Fatalf("%q: expected error", tt.body)
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Fatalf("%q: error %v, want %v", tt.body, err, tt.want)
		}
		if tt.text != "" && !strings.Contains(err.Error(), tt.text) {
			t.Fatalf("%q: error %q does not mention %q", tt.body, err, tt.text)
		}
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[expand]\nannotation = \"fnq\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Expand.Annotation != "fnq" {
		t.Fatalf("annotation = %q", cfg.Expand.Annotation)
	}
	if filepath.Dir(path) != root {
		t.Fatalf("manifest at %q, want under %q", path, root)
	}

	got, ok, err := FindProjectRoot(nested)
	if err != nil || !ok || got != root {
		t.Fatalf("FindProjectRoot = %q %v %v", got, ok, err)
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDefault(dir, false)
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var a, b bytes.Buffer
	if err := cfg.Write(&a); err != nil {
		t.Fatal(err)
	}
	if err := Default().Write(&b); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Fatalf("round trip differs:\n%s\nvs\n%s", a.String(), b.String())
	}
	if _, err := WriteDefault(dir, false); !errors.Is(err, os.ErrExist) {
		t.Fatalf("second WriteDefault should fail with ErrExist, got %v", err)
	}
}

func TestMatches(t *testing.T) {
	cfg := Default()
	cfg.Expand.Extensions = []string{".fq", ".rsq"}
	for path, want := range map[string]bool{"a/b.fq": true, "x.rsq": true, "x.rs": false, "fq": false} {
		if got := cfg.Matches(path); got != want {
			t.Errorf("Matches(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestCombineIsOrderSensitive(t *testing.T) {
	var d Digest
	a := Combine(d, []byte("ab"), []byte("c"))
	b := Combine(d, []byte("a"), []byte("bc"))
	if a == b {
		t.Fatalf("length prefixes should separate parts")
	}
	if Combine(d, []byte("x")) != Combine(d, []byte("x")) {
		t.Fatalf("Combine must be deterministic")
	}
}
