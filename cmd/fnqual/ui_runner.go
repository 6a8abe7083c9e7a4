package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"fnqual/internal/driver"
	"fnqual/internal/ui"
)

type expandOutcome struct {
	result *driver.Result
	err    error
}

// runExpandWithUI runs ExpandDir in the background and renders its progress
// events until the run finishes.
func runExpandWithUI(cmd *cobra.Command, dir string, opts driver.Options) (*driver.Result, error) {
	files, err := driver.ListFiles(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan expandOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.ExpandDir(cmd.Context(), dir, optsCopy)
		outcomeCh <- expandOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("expand "+dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(cmd.OutOrStdout()), tea.WithInput(nil))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
