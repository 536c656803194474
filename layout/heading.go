package layout

import (
	"github.com/tsawler/outliner/model"
)

// HeadingConfig holds configuration for heading detection. The score weights
// and level ratios are fixed; these are the limits and the empirical
// thresholds around them.
type HeadingConfig struct {
	// MaxItems bounds the outline size
	// Default: 20
	MaxItems int

	// PrimaryThreshold is the minimum confidence for a heading
	// Default: 2.0
	PrimaryThreshold float64

	// ShortDocumentThreshold replaces PrimaryThreshold for short documents
	// Default: 1.0
	ShortDocumentThreshold float64

	// ShortDocumentLines is the line count below which a document is short
	// Default: 100
	ShortDocumentLines int

	// FallbackMinHeadings triggers fallback recovery when fewer primary
	// headings are found
	// Default: 5
	FallbackMinHeadings int

	// FallbackLimit is the maximum number of recovered headings
	// Default: 5
	FallbackLimit int
}

// DefaultHeadingConfig returns the tuned defaults
func DefaultHeadingConfig() HeadingConfig {
	return HeadingConfig{
		MaxItems:               DefaultMaxItems,
		PrimaryThreshold:       2.0,
		ShortDocumentThreshold: 1.0,
		ShortDocumentLines:     100,
		FallbackMinHeadings:    5,
		FallbackLimit:          5,
	}
}

// Candidate is a cleaned line with its confidence and level
type Candidate struct {
	Line       CleanedLine
	Confidence float64
	Level      model.HeadingLevel
}

// Entry converts the candidate into a heading entry
func (c Candidate) Entry() model.HeadingEntry {
	return model.HeadingEntry{
		Level:      c.Level,
		Text:       c.Line.Text,
		Page:       c.Line.Raw.PageIndex,
		Confidence: c.Confidence,
		Top:        c.Line.Raw.Top,
	}
}

// HeadingLayout is the outcome of heading detection for one document
type HeadingLayout struct {
	// Title is the selected title, or the document name when no heading exists
	Title string

	// Outline is the filtered outline in reading order
	Outline model.Outline

	// Headings are all headings before filtering: primary ones in document
	// order followed by recovered ones
	Headings []model.HeadingEntry

	// Candidates are the accepted primary candidates
	Candidates []Candidate

	// Stats are the document baselines
	Stats DocumentStats

	// RawLineCount and DiscardedLines count input lines and those removed by
	// the normalizer
	RawLineCount   int
	DiscardedLines int

	PrimaryCount      int
	FallbackTriggered bool
	FallbackCount     int

	// Config is the configuration used for detection
	Config HeadingConfig
}

// HeadingDetector runs the heading pipeline over one document's lines
type HeadingDetector struct {
	config HeadingConfig
}

// NewHeadingDetector creates a new heading detector with default configuration
func NewHeadingDetector() *HeadingDetector {
	return &HeadingDetector{
		config: DefaultHeadingConfig(),
	}
}

// NewHeadingDetectorWithConfig creates a heading detector with custom configuration
func NewHeadingDetectorWithConfig(config HeadingConfig) *HeadingDetector {
	return &HeadingDetector{
		config: config,
	}
}

// Config returns the detector configuration
func (d *HeadingDetector) Config() HeadingConfig {
	return d.config
}

// Detect infers the title and outline of a document from its raw lines in
// reading order. name is the title used when no heading is found.
func (d *HeadingDetector) Detect(name string, raw []model.RawLine) *HeadingLayout {
	lines := CleanLines(raw)

	result := &HeadingLayout{
		Title:          name,
		Outline:        model.Outline{},
		RawLineCount:   len(raw),
		DiscardedLines: len(raw) - len(lines),
		Config:         d.config,
	}
	if len(lines) == 0 {
		return result
	}

	stats := ComputeStats(lines)
	result.Stats = stats

	claimed := NewClaimSet()
	result.Candidates = d.primaryPass(lines, stats, claimed)
	result.PrimaryCount = len(result.Candidates)

	headings := make([]model.HeadingEntry, 0, len(result.Candidates)+d.config.FallbackLimit)
	for _, c := range result.Candidates {
		headings = append(headings, c.Entry())
	}

	if result.PrimaryCount < d.config.FallbackMinHeadings {
		result.FallbackTriggered = true
		recovered := RecoverFallback(lines, stats, claimed, d.config.FallbackLimit)
		result.FallbackCount = len(recovered)
		headings = append(headings, recovered...)
	}
	result.Headings = headings

	if title, ok := SelectTitle(headings); ok {
		result.Title = title
	}
	result.Outline = FilterOutline(headings, d.config.MaxItems)

	return result
}

// primaryPass scores every line and keeps those above the acceptance
// threshold whose claim key is still free
func (d *HeadingDetector) primaryPass(lines []CleanedLine, stats DocumentStats, claimed ClaimSet) []Candidate {
	var candidates []Candidate
	for _, line := range lines {
		score := Score(line, stats)
		if !d.Accepts(score, stats.LineCount) {
			continue
		}
		if !claimed.Claim(ClaimKey(line.Text)) {
			continue
		}
		candidates = append(candidates, Candidate{
			Line:       line,
			Confidence: score,
			Level:      ClassifyLevel(line.Raw.FontSize, stats.TopSizes, score, line.Bold),
		})
	}
	return candidates
}

// Accepts reports whether a score passes the primary threshold for a
// document of lineCount cleaned lines
func (d *HeadingDetector) Accepts(score float64, lineCount int) bool {
	if score >= d.config.PrimaryThreshold {
		return true
	}
	return lineCount < d.config.ShortDocumentLines && score >= d.config.ShortDocumentThreshold
}

// HeadingCount returns the number of outline entries
func (l *HeadingLayout) HeadingCount() int {
	if l == nil {
		return 0
	}
	return len(l.Outline)
}

// Empty reports whether no outline entry was found
func (l *HeadingLayout) Empty() bool {
	return l.HeadingCount() == 0
}
