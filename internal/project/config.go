package project

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"fnqual/internal/diag"
)

// Config mirrors fnqual.toml.
type Config struct {
	Expand      ExpandConfig      `toml:"expand"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
}

// ExpandConfig is the [expand] section.
type ExpandConfig struct {
	Annotation string   `toml:"annotation"`
	Extensions []string `toml:"extensions"`
	Jobs       int      `toml:"jobs"`
	Cache      bool     `toml:"cache"`
}

// DiagnosticsConfig is the [diagnostics] section.
type DiagnosticsConfig struct {
	Max   int    `toml:"max"`
	Color string `toml:"color"`
	// Severity hides diagnostics below it; errors still fail the run.
	Severity diag.Severity `toml:"severity"`
}

var (
	// ErrInvalidAnnotation is returned for annotation names that are not identifiers.
	ErrInvalidAnnotation = errors.New("invalid [expand].annotation")
	// ErrInvalidExtension is returned for extensions without a leading dot.
	ErrInvalidExtension = errors.New("invalid [expand].extensions entry")
	// ErrInvalidColor is returned for unknown [diagnostics].color values.
	ErrInvalidColor = errors.New("invalid [diagnostics].color")
)

// Default returns the configuration used without a manifest.
func Default() Config {
	return Config{
		Expand: ExpandConfig{
			Annotation: "qualifiers",
			Extensions: []string{".fq"},
			Jobs:       0,
			Cache:      true,
		},
		Diagnostics: DiagnosticsConfig{
			Max:      100,
			Color:    "auto",
			Severity: diag.SevInfo,
		},
	}
}

// Load parses path on top of Default. Unknown keys are an error so that
// typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds fnqual.toml above startDir and loads it. Without a manifest
// it returns Default and an empty path.
func Discover(startDir string) (Config, string, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, path, err
	}
	return cfg, path, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if !isIdent(c.Expand.Annotation) {
		return fmt.Errorf("%w: %q", ErrInvalidAnnotation, c.Expand.Annotation)
	}
	for _, ext := range c.Expand.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
		}
	}
	if c.Expand.Jobs < 0 {
		return fmt.Errorf("[expand].jobs must be >= 0, got %d", c.Expand.Jobs)
	}
	switch c.Diagnostics.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("%w: %q (expected auto|on|off)", ErrInvalidColor, c.Diagnostics.Color)
	}
	return nil
}

// Matches reports whether path has one of the configured extensions.
func (c Config) Matches(path string) bool {
	ext := filepath.Ext(path)
	for _, want := range c.Expand.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// WriteDefault creates fnqual.toml in dir. An existing file is left alone
// unless force is set.
func WriteDefault(dir string, force bool) (string, error) {
	path := filepath.Join(dir, ManifestName)
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	// #nosec G304 -- path is built from a user-chosen directory
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return path, err
	}
	if err := Default().Write(f); err != nil {
		_ = f.Close()
		return path, err
	}
	return path, f.Close()
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
