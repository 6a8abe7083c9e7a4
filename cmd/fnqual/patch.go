package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"fnqual/internal/diag"
	"fnqual/internal/diagfmt"
	"fnqual/internal/expand"
	"fnqual/internal/source"
	"fnqual/internal/trace"
)

func newPatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch --spec <spec> (--decl <decl> | --decl-file <file>)",
		Short: "Apply a qualifier specification to one declaration",
		Long: `Patch parses a qualifier specification (a single qualifier or a bracketed
list) and a function declaration, applies the first to the second and prints
the resulting declaration`,
		Example: `  fnqual patch --spec 'pub(crate)' --decl 'fn f() {}'
  fnqual patch --spec '[const, unsafe]' --decl-file decl.txt`,
		Args: cobra.NoArgs,
		RunE: runPatch,
	}
	cmd.Flags().String("spec", "", "qualifier specification")
	cmd.Flags().String("decl", "", "declaration text")
	cmd.Flags().String("decl-file", "", "read the declaration from a file (\"-\" for stdin)")
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	_ = cmd.MarkFlagRequired("spec")
	cmd.MarkFlagsMutuallyExclusive("decl", "decl-file")
	cmd.MarkFlagsOneRequired("decl", "decl-file")
	return cmd
}

// patchPayload is the JSON shape of `patch --format json`.
type patchPayload struct {
	Output      string                    `json:"output,omitempty"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

func runPatch(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	specText, err := cmd.Flags().GetString("spec")
	if err != nil {
		return fmt.Errorf("failed to get spec flag: %w", err)
	}
	declText, err := cmd.Flags().GetString("decl")
	if err != nil {
		return fmt.Errorf("failed to get decl flag: %w", err)
	}
	declFile, err := cmd.Flags().GetString("decl-file")
	if err != nil {
		return fmt.Errorf("failed to get decl-file flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	s, err := loadSettings(cmd, "")
	if err != nil {
		return err
	}

	if declFile != "" {
		data, err := readInput(cmd, declFile)
		if err != nil {
			return fmt.Errorf("read declaration: %w", err)
		}
		declText = string(data)
	}

	_, span := trace.Start(cmd.Context(), trace.ScopeDriver, "patch")
	fs := source.NewFileSet()
	out, bag := expand.Patch(fs, specText, declText)
	span.End(fmt.Sprintf("diags=%d", bag.Len()))

	bag.Sort()
	if format == "json" {
		payload := patchPayload{
			Diagnostics: diagfmt.BuildDiagnosticsOutput(s.visible(bag.Items()), fs, s.jsonOpts()),
		}
		if !bag.HasErrors() {
			payload.Output = out
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return fmt.Errorf("failed to encode patch output: %w", err)
		}
	} else if bag.Len() > 0 {
		if err := printDiagnostics(cmd, s, format, bag.Items(), fs); err != nil {
			return err
		}
	}
	if bag.HasErrors() {
		return errDiagnostics
	}
	if format == "pretty" {
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}
	return nil
}

// printDiagnostics writes pretty diagnostics to stderr or JSON to stdout.
func printDiagnostics(cmd *cobra.Command, s *settings, format string, items []diag.Diagnostic, fs *source.FileSet) error {
	items = s.visible(items)
	if s.maxDiagnostics > 0 && len(items) > s.maxDiagnostics {
		items = items[:s.maxDiagnostics]
	}
	switch format {
	case "json":
		if err := diagfmt.JSON(cmd.OutOrStdout(), items, fs, s.jsonOpts()); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "short":
		if text := diag.FormatShortDiagnostics(items, fs, true); text != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), text)
		}
	default:
		w := cmd.ErrOrStderr()
		diagfmt.PrettyItems(w, items, fs, s.prettyOpts(w))
	}
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	// #nosec G304 -- path comes from the command line
	return os.ReadFile(path)
}
