package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"fnqual/internal/diag"
	"fnqual/internal/diagfmt"
	"fnqual/internal/project"
)

// settings is fnqual.toml with the global flags applied on top.
type settings struct {
	cfg      project.Config
	manifest string

	colorMode      string
	quiet          bool
	timings        bool
	maxDiagnostics int
	severity       diag.Severity
	pathMode       diagfmt.PathMode
	showFixes      bool
	preview        bool
}

// loadSettings discovers the project config starting at startDir (or takes
// --config) and applies the persistent flags.
func loadSettings(cmd *cobra.Command, startDir string) (*settings, error) {
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	s := &settings{}
	if configPath != "" {
		s.cfg, err = project.Load(configPath)
		s.manifest = configPath
	} else {
		if startDir == "" {
			if startDir, err = os.Getwd(); err != nil {
				return nil, err
			}
		}
		s.cfg, s.manifest, err = project.Discover(startDir)
	}
	if err != nil {
		return nil, err
	}

	s.colorMode = s.cfg.Diagnostics.Color
	if flags.Changed("color") {
		if s.colorMode, err = flags.GetString("color"); err != nil {
			return nil, err
		}
		switch s.colorMode {
		case "auto", "on", "off":
		default:
			return nil, fmt.Errorf("invalid --color value %q (expected auto|on|off)", s.colorMode)
		}
	}

	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, err
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, err
	}

	s.maxDiagnostics = s.cfg.Diagnostics.Max
	if flags.Changed("max-diagnostics") {
		if s.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return nil, err
		}
	}

	s.severity = s.cfg.Diagnostics.Severity
	if flags.Changed("severity") {
		name, err := flags.GetString("severity")
		if err != nil {
			return nil, err
		}
		if s.severity, err = diag.ParseSeverity(name); err != nil {
			return nil, fmt.Errorf("invalid --severity value: %w", err)
		}
	}

	if s.showFixes, err = flags.GetBool("fixes"); err != nil {
		return nil, err
	}
	if s.preview, err = flags.GetBool("preview"); err != nil {
		return nil, err
	}
	s.showFixes = s.showFixes || s.preview

	mode, err := flags.GetString("path-mode")
	if err != nil {
		return nil, err
	}
	var ok bool
	if s.pathMode, ok = diagfmt.ParsePathMode(mode); !ok {
		return nil, fmt.Errorf("invalid --path-mode value %q", mode)
	}
	return s, nil
}

// useColor resolves the color mode for w.
func (s *settings) useColor(w io.Writer) bool {
	switch s.colorMode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(w)
	}
}

// visible drops diagnostics below the configured severity.
func (s *settings) visible(items []diag.Diagnostic) []diag.Diagnostic {
	return diag.AtLeast(items, s.severity)
}

func (s *settings) prettyOpts(w io.Writer) diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:       s.useColor(w),
		Context:     2,
		PathMode:    s.pathMode,
		ShowNotes:   true,
		ShowFixes:   s.showFixes,
		ShowPreview: s.preview,
	}
}

func (s *settings) jsonOpts() diagfmt.JSONOpts {
	return diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         s.pathMode,
		Max:              s.maxDiagnostics,
		IncludeNotes:     true,
		IncludeFixes:     true,
		IncludePreviews:  s.preview,
	}
}

// infof prints a status line to stderr unless --quiet is set.
func (s *settings) infof(cmd *cobra.Command, format string, args ...any) {
	if s.quiet {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), format, args...)
}
