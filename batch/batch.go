// Package batch extracts outlines for every document in a directory on a
// bounded pool of workers and writes one output file per document.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/outliner"
	"github.com/tsawler/outliner/cache"
	"github.com/tsawler/outliner/export"
	"github.com/tsawler/outliner/format"
	"github.com/tsawler/outliner/layout"
	"github.com/tsawler/outliner/model"
)

var (
	// ErrNoInput is returned when the input directory does not exist
	ErrNoInput = errors.New("input directory not found")
	// ErrNoDocuments is returned when the input directory holds no
	// supported documents
	ErrNoDocuments = errors.New("no supported documents found")
)

// DefaultWorkers bounds the pool when Config.Workers is not set
const DefaultWorkers = 8

// Config configures a batch run.
type Config struct {
	// Workers is the pool size; the pool never exceeds the document count
	Workers int

	// Format is the output format of every document
	Format export.Format

	// Recursive descends into subdirectories, mirroring them in the output
	Recursive bool

	// MaxItems and MaxPages are the extraction limits; zero selects the
	// defaults
	MaxItems int
	MaxPages int

	// Heading holds the detection thresholds; zero means the defaults
	Heading layout.HeadingConfig

	// Cache, when set, is consulted before extraction and filled after
	Cache *cache.Cache

	// OnItem is called after each document, from the worker goroutine
	OnItem func(Item)

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.MaxItems == 0 {
		c.MaxItems = layout.DefaultMaxItems
	}
	if c.MaxPages == 0 {
		c.MaxPages = outliner.DefaultMaxPages
	}
	if c.Heading == (layout.HeadingConfig{}) {
		c.Heading = layout.DefaultHeadingConfig()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Item is the outcome for one document
type Item struct {
	Input    string
	Output   string
	Result   model.Result
	Cached   bool
	Duration time.Duration

	// WriteErr is set when the output file could not be written
	WriteErr error
}

// Summary counts the outcomes of a run
type Summary struct {
	Processed int
	Degraded  int
	Cached    int
	Failed    int // output files that could not be written
	Duration  time.Duration
	Items     []Item // in discovery order
}

// Runner runs batches with a fixed configuration
type Runner struct {
	cfg Config
}

// New creates a Runner
func New(cfg Config) *Runner {
	cfg.defaults()
	return &Runner{cfg: cfg}
}

// Discover lists the supported documents under dir in lexical order
func (r *Runner) Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoInput)
	}

	var docs []string
	if !r.cfg.Recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.Type().IsRegular() && format.Detect(e.Name()).Supported() {
				docs = append(docs, filepath.Join(dir, e.Name()))
			}
		}
		return docs, nil
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && format.Detect(path).Supported() {
			docs = append(docs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	sort.Strings(docs)
	return docs, nil
}

// OutputPath maps an input document to its output file:
// <outputDir>/<relative dir>/<stem><format extension>
func (r *Runner) OutputPath(inputDir, outputDir, input string) string {
	rel, err := filepath.Rel(inputDir, input)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(input)
	}
	stem := strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.Join(outputDir, stem+r.cfg.Format.FileExtension())
}

// Run processes every document in inputDir and writes the outputs into
// outputDir, creating it. Per-document failures are recorded in the summary
// as degraded results; only missing input, an unusable output directory or
// cancellation of ctx are returned as errors.
func (r *Runner) Run(ctx context.Context, inputDir, outputDir string) (Summary, error) {
	start := time.Now()
	logger := r.cfg.Logger

	docs, err := r.Discover(inputDir)
	if err != nil {
		return Summary{}, err
	}
	if len(docs) == 0 {
		return Summary{}, fmt.Errorf("%s: %w", inputDir, ErrNoDocuments)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	logger.Info("starting batch", "documents", len(docs), "workers", min(r.cfg.Workers, len(docs)))

	items := make([]Item, len(docs))
	done := make([]bool, len(docs))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(min(r.cfg.Workers, len(docs)))
	for i, doc := range docs {
		if ctx.Err() != nil {
			break
		}
		i, doc := i, doc
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			item := r.process(ctx, doc, r.OutputPath(inputDir, outputDir, doc))

			mu.Lock()
			items[i] = item
			done[i] = true
			mu.Unlock()

			if r.cfg.OnItem != nil {
				r.cfg.OnItem(item)
			}
			return nil
		})
	}
	_ = g.Wait()

	summary := Summary{Duration: time.Since(start)}
	for i, item := range items {
		if !done[i] {
			continue
		}
		summary.Items = append(summary.Items, item)
		summary.Processed++
		if item.Result.Degraded() {
			summary.Degraded++
		}
		if item.Cached {
			summary.Cached++
		}
		if item.WriteErr != nil {
			summary.Failed++
		}
	}

	logger.Info("batch finished",
		"processed", summary.Processed,
		"degraded", summary.Degraded,
		"cached", summary.Cached,
		"failed", summary.Failed,
		"duration", summary.Duration.Round(time.Millisecond))

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// process extracts one document and writes its output. It never fails; a
// document that cannot be read produces a degraded result.
func (r *Runner) process(ctx context.Context, input, output string) Item {
	start := time.Now()
	name := model.DocumentName(input)
	logger := r.cfg.Logger.With("document", filepath.Base(input))
	item := Item{Input: input, Output: output}

	data, err := os.ReadFile(input)
	switch {
	case err != nil:
		item.Result = model.Degraded(name, err)
		logger.Error("failed to read document", "error", err)
	default:
		item.Result, item.Cached = r.extract(ctx, name, data, logger)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		item.WriteErr = err
	} else {
		item.WriteErr = export.WriteFile(output, r.cfg.Format, item.Result)
	}
	if item.WriteErr != nil {
		logger.Error("failed to write output", "output", output, "error", item.WriteErr)
	}

	item.Duration = time.Since(start)
	logger.Info("processed", "headings", len(item.Result.Outline),
		"status", item.Result.Status, "cached", item.Cached,
		"duration", item.Duration.Round(time.Millisecond))
	return item
}

// extract returns the cached result for data when there is one, otherwise
// runs extraction and stores a successful result
func (r *Runner) extract(ctx context.Context, name string, data []byte, logger *slog.Logger) (model.Result, bool) {
	run := func() model.Result {
		return outliner.FromBytes(name, data).
			HeadingConfig(r.cfg.Heading).
			MaxItems(r.cfg.MaxItems).
			MaxPages(r.cfg.MaxPages).
			WithLogger(logger).
			Extract(ctx)
	}
	if r.cfg.Cache == nil {
		return run(), false
	}

	result, cached, err := r.cfg.Cache.Resolve(ctx, cache.Key(data, r.cfg.MaxItems, r.cfg.MaxPages, r.cfg.Heading), run)
	if err != nil {
		logger.Warn("cache unavailable", "error", err)
	}
	if cached {
		result.Name = name
	}
	return result, cached
}
