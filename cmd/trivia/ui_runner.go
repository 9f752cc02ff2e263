package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"trivia/internal/driver"
	"trivia/internal/ui"
)

type scanOutcome struct {
	result *driver.ScanResult
	err    error
}

// runScanWithUI runs ScanPaths while a progress view renders on stderr.
func runScanWithUI(ctx context.Context, title string, files, paths []string, opts driver.ScanOptions) (*driver.ScanResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan scanOutcome, 1)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.ScanPaths(ctx, paths, opts)
		outcomeCh <- scanOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	final, uiErr := program.Run()
	if uiErr != nil || ui.Interrupted(final) {
		cancel()
	}
	// вью могли закрыть раньше (ctrl+c): дочитываем события, чтобы воркеры не встали
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
