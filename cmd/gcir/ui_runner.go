package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"gcir/internal/driver"
	"gcir/internal/ui"
)

type compileOutcome struct {
	batch *driver.Batch
	err   error
}

// runCompileWithUI runs the batch while a progress view consumes job events.
func runCompileWithUI(ctx context.Context, title string, opts driver.Options, jobs []driver.Job) (*driver.Batch, error) {
	events := make(chan driver.PhaseEvent, 256)
	outcomeCh := make(chan compileOutcome, 1)

	next := opts.Observer
	opts.Observer = func(ev driver.PhaseEvent) {
		next.Emit(ev)
		events <- ev
	}
	go func() {
		batch, err := driver.Compile(ctx, opts, jobs)
		outcomeCh <- compileOutcome{batch: batch, err: err}
		close(events)
	}()

	names := make([]string, len(jobs))
	for i, j := range jobs {
		names[i] = j.Name
	}
	program := tea.NewProgram(ui.NewProgressModel(title, names, events), tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.batch, uiErr
	}
	return outcome.batch, outcome.err
}
