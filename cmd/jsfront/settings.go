package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jsfront/internal/project"
	"jsfront/internal/sema"
)

// runSettings merges jsfront.toml with the persistent flags; flags win.
type runSettings struct {
	cfg            *project.Config
	jobs           int
	maxDiagnostics int
	timings        bool
	ui             uiMode
}

func loadSettings(cmd *cobra.Command) (*runSettings, error) {
	flags := cmd.Root().PersistentFlags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg *project.Config
	if configPath != "" {
		cfg, err = project.LoadConfig(configPath)
	} else {
		cfg, err = project.Discover(".")
	}
	if err != nil {
		return nil, err
	}

	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs <= 0 {
		jobs = cfg.Resolve.Jobs
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	ui, err := readUIMode(uiValue)
	if err != nil {
		return nil, err
	}

	return &runSettings{
		cfg:            cfg,
		jobs:           jobs,
		maxDiagnostics: maxDiagnostics,
		timings:        timings,
		ui:             ui,
	}, nil
}

func (s *runSettings) limits() sema.Limits {
	return sema.Limits{
		Decls:     s.cfg.Limits.Decls,
		Scopes:    s.cfg.Limits.Scopes,
		Functions: s.cfg.Limits.Functions,
	}
}

// base is the directory module paths are made relative to.
func (s *runSettings) base() string {
	if s.cfg.Root != "" {
		return s.cfg.Root
	}
	return "."
}

// inputs are the paths given on the command line, or the configured roots.
func (s *runSettings) inputs(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return s.cfg.RootDirs()
}
