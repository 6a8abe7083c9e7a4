package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fnqual/internal/diagfmt"
	"fnqual/internal/driver"
)

func newExpandCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expand [flags] <file.fq|directory>",
		Short: "Expand qualifier annotations",
		Long: `Expand rewrites every annotated declaration in a file or in all matching
files within a directory. Without --write a single file is printed to stdout
and a directory only gets a summary`,
		Args: cobra.ExactArgs(1),
		RunE: runExpand,
	}
	cmd.Flags().Bool("write", false, "replace files on disk")
	cmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	cmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	cmd.Flags().Int("jobs", 0, "max parallel files (0 = from fnqual.toml, then auto)")
	cmd.Flags().String("annotation", "", "annotation name (default from fnqual.toml)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the expansion cache")
	cmd.Flags().Bool("clear-cache", false, "drop the expansion cache before running")
	return cmd
}

type expandFilePayload struct {
	Path     string `json:"path"`
	Expanded int    `json:"expanded"`
	Failed   int    `json:"failed"`
	Changed  bool   `json:"changed"`
	Cached   bool   `json:"cached,omitempty"`
	Written  bool   `json:"written,omitempty"`
	Output   string `json:"output,omitempty"`
}

type expandPayload struct {
	Files       []expandFilePayload       `json:"files"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
	Timings     []driver.TimingPayload    `json:"timings,omitempty"`
}

func runExpand(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	target := args[0]

	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("failed to get write flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	startDir := target
	if !st.IsDir() {
		startDir = filepath.Dir(target)
	}
	s, err := loadSettings(cmd, startDir)
	if err != nil {
		return err
	}

	opts, err := expandOptions(cmd, s)
	if err != nil {
		return err
	}
	opts.Write = write

	var res *driver.Result
	if !st.IsDir() {
		res, err = driver.ExpandFile(cmd.Context(), target, opts)
	} else if format == "pretty" && !s.quiet && shouldUseTUI(mode, cmd.OutOrStdout()) {
		res, err = runExpandWithUI(cmd, target, opts)
	} else {
		res, err = driver.ExpandDir(cmd.Context(), target, opts)
	}
	if err != nil {
		return fmt.Errorf("expand failed: %w", err)
	}

	single := !st.IsDir() && !write
	if format == "json" {
		if err := printExpandJSON(cmd, s, res, single); err != nil {
			return err
		}
	} else {
		if err := printDiagnostics(cmd, s, format, res.Diagnostics(), res.FileSet); err != nil {
			return err
		}
		if single && len(res.Files) == 1 {
			_, _ = cmd.OutOrStdout().Write(res.Files[0].Output)
		}
		printExpandSummary(cmd, s, res)
		if s.timings {
			fmt.Fprint(cmd.ErrOrStderr(), res.TotalTimer().Summary())
		}
	}

	if res.HasErrors() {
		return errDiagnostics
	}
	return nil
}

// expandOptions merges fnqual.toml and the command flags into driver options.
func expandOptions(cmd *cobra.Command, s *settings) (driver.Options, error) {
	opts := driver.Options{
		Extensions: s.cfg.Expand.Extensions,
		Jobs:       s.cfg.Expand.Jobs,
	}
	opts.Expand.Annotation = s.cfg.Expand.Annotation
	opts.Expand.MaxDiagnostics = s.maxDiagnostics

	flags := cmd.Flags()
	if flags.Changed("jobs") {
		jobs, err := flags.GetInt("jobs")
		if err != nil {
			return opts, err
		}
		opts.Jobs = jobs
	}
	if flags.Changed("annotation") {
		name, err := flags.GetString("annotation")
		if err != nil {
			return opts, err
		}
		opts.Expand.Annotation = name
	}

	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return opts, err
	}
	clearCache, err := flags.GetBool("clear-cache")
	if err != nil {
		return opts, err
	}
	if !s.cfg.Expand.Cache || noCache {
		return opts, nil
	}
	cache, err := driver.OpenDiskCache("fnqual")
	if err != nil {
		// без кэша работаем дальше
		s.infof(cmd, "warning: expansion cache disabled: %v\n", err)
		return opts, nil
	}
	if clearCache {
		if err := cache.DropAll(); err != nil {
			return opts, fmt.Errorf("clear cache: %w", err)
		}
	}
	opts.Cache = cache
	return opts, nil
}

func printExpandSummary(cmd *cobra.Command, s *settings, res *driver.Result) {
	expanded, failed, changed := res.Totals()
	written, cached := 0, 0
	for i := range res.Files {
		if res.Files[i].Written {
			written++
		}
		if res.Files[i].Cached {
			cached++
		}
	}
	s.infof(cmd, "expanded %d site(s) in %d file(s): %d failed, %d changed, %d written, %d cached\n",
		expanded, len(res.Files), failed, changed, written, cached)
}

func printExpandJSON(cmd *cobra.Command, s *settings, res *driver.Result, withOutput bool) error {
	payload := expandPayload{
		Files:       make([]expandFilePayload, 0, len(res.Files)),
		Diagnostics: diagfmt.BuildDiagnosticsOutput(s.visible(res.Diagnostics()), res.FileSet, s.jsonOpts()),
	}
	for i := range res.Files {
		fr := &res.Files[i]
		fp := expandFilePayload{
			Path:     fr.Path,
			Expanded: fr.Expanded,
			Failed:   fr.Failed,
			Changed:  fr.Changed,
			Cached:   fr.Cached,
			Written:  fr.Written,
		}
		if withOutput {
			fp.Output = string(fr.Output)
		}
		payload.Files = append(payload.Files, fp)
	}
	if s.timings {
		payload.Timings = res.Timings()
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode expand output: %w", err)
	}
	return nil
}
