package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jsfront/internal/diag"
	"jsfront/internal/driver"
	"jsfront/internal/observ"
	"jsfront/internal/sema"
)

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [flags] [dump.json|directory]...",
		Short: "Resolve modules and print their semantic context",
		Long: `Resolve every module given as an ESTree JSON dump (or found under the given
directories, or under the configured roots) and print the semantic context
dump of each, followed by the diagnostics.`,
		RunE: runResolve,
	}
	cmd.Flags().Bool("no-dump", false, "only print diagnostics")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().Bool("order", false, "print the require load order")
	return cmd
}

func runResolve(cmd *cobra.Command, args []string) (err error) {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil && !errors.Is(err, errDiagnostics)) }()

	noDump, err := cmd.Flags().GetBool("no-dump")
	if err != nil {
		return fmt.Errorf("failed to get no-dump flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	showOrder, err := cmd.Flags().GetBool("order")
	if err != nil {
		return fmt.Errorf("failed to get order flag: %w", err)
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	timer := observ.NewTimer()
	w, err := loadWorkspace(ctx, s, args, timer)
	if err != nil {
		return err
	}
	res, err := resolveWorkspace(ctx, cmd, s, w, timer)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !noDump {
		phase := timer.Begin("dump")
		if err := printDumps(out, res); err != nil {
			return err
		}
		timer.End(phase, "")
	}
	if showOrder && res.Order != nil {
		printOrder(out, res)
	}
	if text := diag.FormatShort(res.Diagnostics(), res.Files, withNotes); text != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), text)
	}
	if s.timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if res.HasErrors() {
		return errDiagnostics
	}
	return nil
}

func printDumps(out io.Writer, res *driver.Result) error {
	header := color.New(color.Bold)
	for i, m := range res.Modules {
		if i > 0 {
			fmt.Fprintln(out)
		}
		header.Fprintf(out, "== %s ==\n", m.Module)
		if m.Sema == nil {
			fmt.Fprintln(out, " <not resolved>")
			continue
		}
		opts := sema.DumpOptions{Color: !color.NoColor}
		if err := m.Sema.Dump(out, m.Strings, m.Tree, opts); err != nil {
			return err
		}
	}
	return nil
}

func printOrder(out io.Writer, res *driver.Result) {
	fmt.Fprintln(out, "load order:")
	for i, batch := range res.Order.Batches {
		fmt.Fprintf(out, "  %d:", i)
		for _, id := range batch {
			fmt.Fprintf(out, " %s", res.Files.Get(id).Module)
		}
		fmt.Fprintln(out)
	}
	if res.Order.Cyclic {
		fmt.Fprint(out, "  cyclic:")
		for _, id := range res.Order.Cycles {
			fmt.Fprintf(out, " %s", res.Files.Get(id).Module)
		}
		fmt.Fprintln(out)
	}
}
