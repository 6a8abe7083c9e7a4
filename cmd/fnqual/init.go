package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fnqual/internal/project"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create fnqual.toml with default settings",
		Long: `Initialize a project by writing fnqual.toml and an example annotated file
(example.fq). If [path] is omitted, initializes the current directory; a
missing directory is created.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
	cmd.Flags().Bool("force", false, "overwrite an existing fnqual.toml")
	return cmd
}

const exampleSource = `// fnqual example: run "fnqual expand example.fq"

@qualifiers(pub)
fn greet(name: &str) -> String {
    format!("hello, {}", name)
}

@qualifiers([pub(crate), const, unsafe])
fn raw_len(p: *const u8) -> usize {
    0
}
`

func runInit(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err = filepath.Abs(target)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifest, err := project.WriteDefault(target, force)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("project already initialized: %s exists (use --force)", manifest)
	}
	if err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	examplePath := filepath.Join(target, "example.fq")
	createdExample := false
	if _, err := os.Stat(examplePath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(examplePath, []byte(exampleSource), 0o600); err != nil {
			return fmt.Errorf("failed to write example.fq: %w", err)
		}
		createdExample = true
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized fnqual project in %s\n", target)
	fmt.Fprintf(out, "  - %s\n", project.ManifestName)
	if createdExample {
		fmt.Fprintln(out, "  - example.fq")
	} else {
		fmt.Fprintln(out, "  - example.fq (existing)")
	}
	return nil
}
