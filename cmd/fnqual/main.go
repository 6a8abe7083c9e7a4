package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fnqual/internal/version"
)

// errDiagnostics marks a run that already printed its error diagnostics;
// main exits with 1 without printing anything else.
var errDiagnostics = errors.New("diagnostics reported")

// newRootCmd builds the command tree. finish is set once the persistent
// pre-run has started tracing and profiling; run calls it after Execute.
func newRootCmd(finish *func(failed bool)) *cobra.Command {
	root := &cobra.Command{
		Use:   "fnqual",
		Short: "Function qualifier expander",
		Long: `fnqual rewrites the qualifiers of function declarations according to
@qualifiers(...) annotations placed above them`,
		Version:       version.Version,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			stopProfiling, err := setupProfiling(cmd)
			if err != nil {
				return err
			}
			traceDone, err := setupTracing(cmd)
			if err != nil {
				stopProfiling()
				return err
			}
			*finish = func(failed bool) {
				stopProfiling()
				traceDone(failed)
			}
			return nil
		},
	}

	// Добавляем команды
	root.AddCommand(newPatchCmd())
	root.AddCommand(newExpandCmd())
	root.AddCommand(newFixCmd())
	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "", "colorize output (auto|on|off); default from fnqual.toml")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics to show (0 = from fnqual.toml)")
	pf.String("severity", "info", "lowest severity to report (info|warning|error); default from fnqual.toml")
	pf.Bool("fixes", false, "show suggested fixes with pretty diagnostics")
	pf.Bool("preview", false, "show the lines each suggested fix would change (implies --fixes)")
	pf.String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	pf.String("config", "", "path to fnqual.toml (default: search upwards)")
	pf.String("trace", "", "trace output file (\"-\" for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson|chrome)")
	pf.Int("trace-ring-size", 4096, "ring buffer capacity in events")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat trace events at this interval (0 = off)")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")
	return root
}

// run executes the CLI and returns the process exit code: 0 on success,
// 1 when diagnostics were reported, 2 on usage or I/O errors.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) (code int) {
	finish := func(bool) {}
	defer func() {
		if r := recover(); r != nil {
			finish(true)
			panic(r)
		}
	}()

	root := newRootCmd(&finish)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	finish(err != nil)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errDiagnostics):
		return 1
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) // #nosec G115 -- fd fits int
}
