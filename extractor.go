package outliner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tsawler/outliner/format"
	"github.com/tsawler/outliner/layout"
	"github.com/tsawler/outliner/model"
	"github.com/tsawler/outliner/reader"
)

// ErrUnsupportedFormat is returned for documents that are not PDFs
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Extractor provides a fluent interface for extracting the outline of a PDF.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source: a file name, or in-memory data
	filename string
	name     string
	data     []byte
	inMem    bool

	reader *reader.Reader

	// Lifecycle
	ownsReader   bool // true if we opened the reader and should close it
	readerOpened bool // true if reader has been opened

	// Configuration
	options ExtractOptions
}

// clone creates a shallow copy of the Extractor with a copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:     e.filename,
		name:         e.name,
		data:         e.data,
		inMem:        e.inMem,
		reader:       e.reader,
		ownsReader:   e.ownsReader,
		readerOpened: e.readerOpened,
		options:      e.options.clone(),
	}
}

// ensureReader opens the reader if not already open.
func (e *Extractor) ensureReader() error {
	if e.readerOpened {
		return nil
	}

	if e.inMem {
		if format.DetectFromMagic(e.data) != format.PDF {
			return fmt.Errorf("%s: %w", e.name, ErrUnsupportedFormat)
		}
		r, err := reader.NewReader(e.name, bytes.NewReader(e.data), int64(len(e.data)))
		if err != nil {
			return err
		}
		e.reader = r
		e.ownsReader = true
		e.readerOpened = true
		return nil
	}

	if e.filename == "" {
		return fmt.Errorf("no filename specified")
	}
	if f := format.Detect(e.filename); !f.Supported() {
		return fmt.Errorf("%s (%s): %w", e.filename, f, ErrUnsupportedFormat)
	}

	r, err := reader.Open(e.filename)
	if err != nil {
		return err
	}
	e.reader = r
	e.ownsReader = true
	e.readerOpened = true
	return nil
}

// Close releases resources associated with the Extractor.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	if e.ownsReader && e.reader != nil {
		err := e.reader.Close()
		e.reader = nil
		e.ownsReader = false
		e.readerOpened = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// MaxItems bounds the number of outline entries. Zero or less yields an
// empty outline.
//
// Example:
//
//	result := outliner.Open("doc.pdf").MaxItems(10).Extract(ctx)
func (e *Extractor) MaxItems(n int) *Extractor {
	newExt := e.clone()
	newExt.options.maxItems = n
	return newExt
}

// MaxPages limits reading to the first n pages. Zero or less reads every
// page.
//
// Example:
//
//	result := outliner.Open("doc.pdf").MaxPages(5).Extract(ctx)
func (e *Extractor) MaxPages(n int) *Extractor {
	newExt := e.clone()
	newExt.options.maxPages = n
	return newExt
}

// HeadingConfig replaces the detection thresholds. MaxItems set through
// MaxItems takes precedence over cfg.MaxItems.
func (e *Extractor) HeadingConfig(cfg layout.HeadingConfig) *Extractor {
	newExt := e.clone()
	newExt.options.heading = cfg
	return newExt
}

// WithLogger sets the logger used to report page warnings and degraded
// documents. The default is slog.Default().
func (e *Extractor) WithLogger(logger *slog.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = logger
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Name returns the document name used as the fallback title
func (e *Extractor) Name() string {
	return e.name
}

// PageCount returns the number of pages in the document.
func (e *Extractor) PageCount() (int, error) {
	if err := e.ensureReader(); err != nil {
		return 0, err
	}
	defer e.Close()

	return e.reader.PageCount(), nil
}

// Lines returns the raw text lines of the pages that would be analysed, in
// reading order. Unreadable pages contribute no lines and a warning.
func (e *Extractor) Lines(ctx context.Context) ([]model.RawLine, []Warning, error) {
	if err := e.ensureReader(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	pages, err := e.reader.Document(ctx, e.options.maxPages)
	warnings := e.reader.Warnings()
	if err != nil {
		return nil, warnings, err
	}
	return model.AllLines(pages), warnings, nil
}

// Analyze runs heading detection and returns the full detection record,
// including the scored candidates and document statistics.
func (e *Extractor) Analyze(ctx context.Context) (*layout.HeadingLayout, []Warning, error) {
	lines, warnings, err := e.Lines(ctx)
	if err != nil {
		return nil, warnings, err
	}

	detector := layout.NewHeadingDetectorWithConfig(e.options.headingConfig())
	return detector.Detect(e.name, lines), warnings, nil
}

// Extract infers the document title and outline. It never fails: a document
// that cannot be opened or read, or a cancelled ctx, yields a degraded
// result whose title is the document name.
//
// Example:
//
//	result := outliner.Open("doc.pdf").Extract(ctx)
func (e *Extractor) Extract(ctx context.Context) model.Result {
	logger := e.options.log().With("document", e.name)

	analysis, warnings, err := e.Analyze(ctx)
	for _, w := range warnings {
		logger.Warn("page skipped", "page", w.Page, "reason", w.Message)
	}
	if err != nil {
		logger.Error("extraction degraded", "error", err)
		return model.Degraded(e.name, err)
	}

	logger.Debug("outline extracted",
		"lines", analysis.RawLineCount,
		"discarded", analysis.DiscardedLines,
		"primary", analysis.PrimaryCount,
		"fallback", analysis.FallbackCount,
		"headings", analysis.HeadingCount(),
	)
	return model.Success(e.name, analysis.Title, analysis.Outline)
}
