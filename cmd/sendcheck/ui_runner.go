package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sendcheck/internal/driver"
	"sendcheck/internal/ui"
)

type checkOutcome struct {
	result *driver.Result
	err    error
}

func runCheckWithUI(ctx context.Context, title, path string, cfg driver.Config) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		sink := driver.Sink(func(e driver.Event) { events <- e })
		res, err := driver.CheckFile(ctx, path, cfg, sink)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
