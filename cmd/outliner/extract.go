package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tsawler/outliner"
	"github.com/tsawler/outliner/export"
	"github.com/tsawler/outliner/layout"
	"github.com/tsawler/outliner/model"
)

type extractOptions struct {
	format   export.Format
	maxItems int
	maxPages int
	explain  bool
	output   string
}

func newExtractCmd(a *app) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Print the title and outline of one PDF",
		Example: "  outliner extract report.pdf\n" +
			"  outliner extract report.pdf --format markdown -o report.md\n" +
			"  outliner extract report.pdf --explain --max-items 10",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, a, opts, args[0])
		},
	}

	cmd.Flags().VarP(&opts.format, "format", "f", "Output format: "+export.FormatNames()+" (tree on a terminal unless set)")
	cmd.Flags().IntVarP(&opts.maxItems, "max-items", "n", layout.DefaultMaxItems, "Maximum number of outline entries")
	cmd.Flags().IntVar(&opts.maxPages, "max-pages", outliner.DefaultMaxPages, "Only read the first N pages (0 reads all)")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "Print the scoring rules behind every heading to stderr")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write to this file instead of stdout")

	return cmd
}

func runExtract(cmd *cobra.Command, a *app, opts *extractOptions, path string) error {
	core := a.cfg.Core
	if cmd.Flags().Changed("max-items") {
		core.MaxItems = opts.maxItems
	}
	if cmd.Flags().Changed("max-pages") {
		core.MaxPages = opts.maxPages
	}

	stdout := cmd.OutOrStdout()
	interactive := opts.output == "" && isTerminal(stdout)

	f := opts.format
	if interactive && !cmd.Flags().Changed("format") {
		f = export.FormatTree
	}

	ext := outliner.Open(path).
		HeadingConfig(core.Heading()).
		MaxItems(core.MaxItems).
		MaxPages(core.MaxPages).
		WithLogger(slog.Default())

	var result model.Result
	if opts.explain {
		analysis, warnings, err := ext.Analyze(cmd.Context())
		for _, w := range warnings {
			slog.Warn("page skipped", "document", ext.Name(), "page", w.Page, "reason", w.Message)
		}
		if err != nil {
			result = model.Degraded(ext.Name(), err)
		} else {
			result = model.Success(ext.Name(), analysis.Title, analysis.Outline)
			writeExplanation(cmd.ErrOrStderr(), analysis)
		}
	} else {
		result = ext.Extract(cmd.Context())
	}

	if result.Degraded() {
		color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "warning: %s could not be read: %v\n", path, result.Err)
	}

	if opts.output != "" {
		return export.WriteFile(opts.output, f, result)
	}
	if f == export.FormatTree {
		treeOpts := export.DefaultTreeOptions()
		if interactive {
			treeOpts.Color = true
			treeOpts.Width = terminalWidth(stdout)
		}
		return export.Tree(stdout, result, treeOpts)
	}
	return export.Write(stdout, f, result)
}

// writeExplanation lists every heading with its confidence and the scoring
// rules that produced it
func writeExplanation(w io.Writer, analysis *layout.HeadingLayout) {
	fmt.Fprintf(w, "lines: %d (discarded %d)  average size: %.2f  top sizes: %v\n",
		analysis.RawLineCount, analysis.DiscardedLines, analysis.Stats.AverageSize, analysis.Stats.TopSizes)

	for _, c := range analysis.Candidates {
		fmt.Fprintf(w, "  p.%-3d %5.2f %s  %s  [%s]\n",
			c.Line.Raw.PageIndex+1, c.Confidence, c.Level, c.Line.Text,
			strings.Join(layout.Explain(c.Line, analysis.Stats), " "))
	}
	if analysis.FallbackTriggered {
		fmt.Fprintf(w, "fallback: %d recovered\n", analysis.FallbackCount)
		for _, h := range analysis.Headings[analysis.PrimaryCount:] {
			fmt.Fprintf(w, "  p.%-3d %5.2f %s  %s\n", h.Page+1, h.Confidence, h.Level, h.Text)
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
