package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tsawler/outliner/batch"
	"github.com/tsawler/outliner/export"
)

type batchOptions struct {
	workers   int
	format    export.Format
	recursive bool
	cache     bool
	cachePath string
}

func newBatchCmd(a *app) *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:     "batch INPUT_DIR OUTPUT_DIR",
		Short:   "Extract outlines for every PDF in a directory",
		Example: "  outliner batch ./input ./output --workers 4 --cache",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, a, opts, args[0], args[1])
		},
	}

	cmd.Flags().IntVarP(&opts.workers, "workers", "w", batch.DefaultWorkers, "Number of documents processed in parallel")
	cmd.Flags().VarP(&opts.format, "format", "f", "Output format: "+export.FormatNames())
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().BoolVar(&opts.cache, "cache", false, "Reuse results of unchanged documents")
	cmd.Flags().StringVar(&opts.cachePath, "cache-path", "", "Cache database (default from configuration)")

	return cmd
}

func runBatch(cmd *cobra.Command, a *app, opts *batchOptions, in, out string) error {
	cfg := a.cfg
	if cmd.Flags().Changed("workers") {
		cfg.Batch.Workers = opts.workers
	}
	if cmd.Flags().Changed("format") {
		cfg.Batch.Format = opts.format.String()
	}
	if cmd.Flags().Changed("recursive") {
		cfg.Batch.Recursive = opts.recursive
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache.Enabled = opts.cache
	}
	if opts.cachePath != "" {
		cfg.Cache.Path = opts.cachePath
	}

	f, err := export.ParseFormat(cfg.Batch.Format)
	if err != nil {
		return err
	}

	runCfg := batch.Config{
		Workers:   cfg.Batch.Workers,
		Format:    f,
		Recursive: cfg.Batch.Recursive,
		MaxItems:  cfg.Core.MaxItems,
		MaxPages:  cfg.Core.MaxPages,
		Heading:   cfg.Core.Heading(),
		Logger:    slog.Default(),
	}

	if cfg.Cache.Enabled {
		c, err := a.openCache(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()
		runCfg.Cache = c
	}

	summary, err := batch.New(runCfg).Run(cmd.Context(), in, out)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	color.New(color.FgGreen).Fprintf(w, "Processed %d document(s) in %s", summary.Processed, summary.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, " (%d cached)\n", summary.Cached)
	if summary.Degraded > 0 {
		color.New(color.FgYellow).Fprintf(w, "%d document(s) could not be read\n", summary.Degraded)
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d output file(s) could not be written", summary.Failed)
	}
	return nil
}
