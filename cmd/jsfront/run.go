package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"jsfront/internal/driver"
	"jsfront/internal/observ"
	"jsfront/internal/source"
	"jsfront/internal/ui"
)

// loadWorkspace expands the inputs and loads every dump.
func loadWorkspace(ctx context.Context, s *runSettings, args []string, timer *observ.Timer) (*driver.Workspace, error) {
	phase := timer.Begin("load")
	defer timer.End(phase, "")

	paths, err := driver.ListDumps(s.inputs(args))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no ESTree dumps (*%s) found", source.ModuleSuffix)
	}
	return driver.Load(ctx, s.base(), paths, s.cfg.Resolve.Extensions)
}

func driverOptions(s *runSettings, timer *observ.Timer) driver.Options {
	return driver.Options{
		Jobs:           s.jobs,
		MaxDiagnostics: s.maxDiagnostics,
		Limits:         s.limits(),
		Timer:          timer,
	}
}

type resolveOutcome struct {
	result *driver.Result
	err    error
}

// resolveWithUI runs ResolveAll while a Bubble Tea program renders its
// progress events.
func resolveWithUI(ctx context.Context, cmd *cobra.Command, w *driver.Workspace, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.ProgressEvent, 256)
	outcomeCh := make(chan resolveOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.ResolveAll(ctx, w, opts)
		outcomeCh <- resolveOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("resolving", w.Modules(), events)
	program := tea.NewProgram(model, tea.WithOutput(cmd.OutOrStdout()), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// the UI may quit early; keep draining so the workers never block
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		fmt.Fprintf(os.Stderr, "ui: %v\n", uiErr)
	}
	return outcome.result, outcome.err
}

func resolveWorkspace(ctx context.Context, cmd *cobra.Command, s *runSettings, w *driver.Workspace, timer *observ.Timer) (*driver.Result, error) {
	opts := driverOptions(s, timer)
	if shouldUseTUI(s.ui, cmd.OutOrStdout()) {
		return resolveWithUI(ctx, cmd, w, opts)
	}
	return driver.ResolveAll(ctx, w, opts)
}
