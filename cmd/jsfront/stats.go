package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"jsfront/internal/driver"
	"jsfront/internal/observ"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [flags] [dump.json|directory]...",
		Short: "Print per-module declaration statistics",
		RunE:  runStats,
	}
	cmd.Flags().String("format", "text", "output format (text|json)")
	cmd.Flags().Bool("disk-cache", false, "reuse summaries cached on disk")
	cmd.Flags().Bool("drop-cache", false, "clear the disk cache before running")
	return cmd
}

func runStats(cmd *cobra.Command, args []string) (err error) {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be text or json)", format)
	}
	useCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	dropCache, err := cmd.Flags().GetBool("drop-cache")
	if err != nil {
		return fmt.Errorf("failed to get drop-cache flag: %w", err)
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	var cache *driver.DiskCache
	if useCache || dropCache {
		if cache, err = driver.OpenDiskCache("jsfront"); err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		if dropCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to drop disk cache: %w", err)
			}
		}
		if !useCache {
			cache = nil
		}
	}

	ctx := cmd.Context()
	timer := observ.NewTimer()
	w, err := loadWorkspace(ctx, s, args, timer)
	if err != nil {
		return err
	}
	phase := timer.Begin("summarize")
	summaries, err := driver.Summaries(ctx, w, driverOptions(s, timer), cache)
	timer.End(phase, "")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summaries); err != nil {
			return err
		}
	} else if err := printStats(out, summaries); err != nil {
		return err
	}
	if s.timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	return nil
}

func printStats(out io.Writer, summaries []driver.Summary) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "functions\tscopes\tdecls\tidents\trequires\terrors\twarnings\tmodule\t")
	total := driver.Summary{Kinds: map[string]int{}}
	for _, s := range summaries {
		module := s.Module
		if s.Failed {
			module += " (failed)"
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t%s\t\n",
			s.Functions, s.Scopes, s.Decls, s.Idents, s.Requires, s.Errors, s.Warnings, module)
		total.Functions += s.Functions
		total.Scopes += s.Scopes
		total.Decls += s.Decls
		total.Idents += s.Idents
		total.Requires += s.Requires
		total.Errors += s.Errors
		total.Warnings += s.Warnings
		for k, n := range s.Kinds {
			total.Kinds[k] += n
		}
	}
	fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t%s\t\n",
		total.Functions, total.Scopes, total.Decls, total.Idents, total.Requires, total.Errors, total.Warnings, "total")
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(total.Kinds) == 0 {
		return nil
	}
	fmt.Fprintln(out, "\ndeclarations by kind:")
	for _, k := range slices.Sorted(maps.Keys(total.Kinds)) {
		fmt.Fprintf(out, "  %-26s %d\n", k, total.Kinds[k])
	}
	return nil
}
