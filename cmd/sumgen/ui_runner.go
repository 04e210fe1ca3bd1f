package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sumgen/internal/driver"
	"sumgen/internal/ui"
)

type passOutcome struct {
	result *driver.Result
	err    error
}

// runWithUI runs one pass on a fresh session whose progress events feed the
// bubbletea view.
func runWithUI(ctx context.Context, title string, files []string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan passOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.NewSession(opts).Run(ctx, files)
		outcomeCh <- passOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
