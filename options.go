package outliner

import (
	"log/slog"

	"github.com/tsawler/outliner/layout"
)

// DefaultMaxPages is the number of leading pages read per document
const DefaultMaxPages = 50

// ExtractOptions holds configuration for outline extraction.
type ExtractOptions struct {
	// Outline size bound
	maxItems int

	// Only the first maxPages pages are read; <= 0 reads every page
	maxPages int

	// Detection thresholds
	heading layout.HeadingConfig

	logger *slog.Logger
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		maxItems: layout.DefaultMaxItems,
		maxPages: DefaultMaxPages,
		heading:  layout.DefaultHeadingConfig(),
	}
}

// clone creates a copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	return o
}

// headingConfig returns the detector configuration with the outline bound
// applied
func (o ExtractOptions) headingConfig() layout.HeadingConfig {
	cfg := o.heading
	cfg.MaxItems = o.maxItems
	return cfg
}

func (o ExtractOptions) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.Default()
}
