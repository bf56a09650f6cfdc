package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"profstat/internal/session"
	"profstat/internal/ui"
)

type analyzeOutcome struct {
	results []session.Result
	err     error
}

// analyzeWithUI runs session.Analyze while a Bubble Tea program renders its
// progress events.
func analyzeWithUI(ctx context.Context, title string, req session.Request) ([]session.Result, error) {
	events := make(chan session.Event, 256)
	outcomeCh := make(chan analyzeOutcome, 1)

	go func() {
		req.Progress = session.ChannelSink{Ch: events}
		results, err := session.Analyze(ctx, req)
		outcomeCh <- analyzeOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, req.Paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// The program may quit before the sessions finish; keep them unblocked.
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
