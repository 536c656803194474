package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/outliner/model"
	"github.com/tsawler/outliner/text"
)

// LineConfig holds configuration for line detection
type LineConfig struct {
	// LineHeightTolerance is the Y-distance tolerance for grouping fragments into lines
	// as a fraction of fragment height (default: 0.5)
	LineHeightTolerance float64

	// ColumnGapRatio splits a line where the horizontal gap exceeds this many
	// font sizes (default: 4)
	ColumnGapRatio float64

	// AscentRatio and DescentRatio place the line bounds above and below the
	// baseline as fractions of the fragment height (defaults: 0.8, 0.2)
	AscentRatio  float64
	DescentRatio float64
}

// DefaultLineConfig returns sensible default configuration
func DefaultLineConfig() LineConfig {
	return LineConfig{
		LineHeightTolerance: 0.5,
		ColumnGapRatio:      4.0,
		AscentRatio:         0.8,
		DescentRatio:        0.2,
	}
}

// LineDetector assembles positioned fragments into raw lines
type LineDetector struct {
	config LineConfig
}

// NewLineDetector creates a new line detector with default configuration
func NewLineDetector() *LineDetector {
	return &LineDetector{
		config: DefaultLineConfig(),
	}
}

// NewLineDetectorWithConfig creates a line detector with custom configuration
func NewLineDetectorWithConfig(config LineConfig) *LineDetector {
	return &LineDetector{
		config: config,
	}
}

// Detect groups the fragments of one page into lines, top to bottom
func (d *LineDetector) Detect(fragments []text.TextFragment, pageIndex int, pageHeight float64) []model.RawLine {
	if len(fragments) == 0 {
		return nil
	}

	var lines []model.RawLine
	for _, group := range d.groupIntoLines(fragments) {
		text.SortByX(group)
		for _, segment := range d.splitAtGutters(group) {
			if line, ok := d.buildLine(segment, pageIndex, pageHeight); ok {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

// groupIntoLines groups fragments into horizontal lines by baseline proximity
func (d *LineDetector) groupIntoLines(fragments []text.TextFragment) [][]text.TextFragment {
	// Sort by Y descending (top of page first), keeping stream order for ties
	sorted := make([]text.TextFragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var lines [][]text.TextFragment
	var currentLine []text.TextFragment
	var lineY, lineHeight float64

	for _, frag := range sorted {
		if len(currentLine) == 0 {
			currentLine = append(currentLine, frag)
			lineY, lineHeight = frag.Y, frag.Height
			continue
		}

		tolerance := math.Max(lineHeight, frag.Height) * d.config.LineHeightTolerance
		if math.Abs(frag.Y-lineY) <= tolerance {
			currentLine = append(currentLine, frag)
			lineHeight = math.Max(lineHeight, frag.Height)
			continue
		}

		lines = append(lines, currentLine)
		currentLine = []text.TextFragment{frag}
		lineY, lineHeight = frag.Y, frag.Height
	}
	if len(currentLine) > 0 {
		lines = append(lines, currentLine)
	}

	return lines
}

// splitAtGutters splits a line, ordered left to right, where the gap between
// neighbouring fragments is wide enough to separate columns
func (d *LineDetector) splitAtGutters(line []text.TextFragment) [][]text.TextFragment {
	if d.config.ColumnGapRatio <= 0 {
		return [][]text.TextFragment{line}
	}

	var segments [][]text.TextFragment
	start := 0
	lastRight := -math.MaxFloat64
	for i, frag := range line {
		if frag.IsSpace() {
			continue
		}
		if i > start && lastRight > -math.MaxFloat64 &&
			frag.X-lastRight > frag.FontSize*d.config.ColumnGapRatio {
			segments = append(segments, line[start:i])
			start = i
		}
		lastRight = math.Max(lastRight, frag.Right())
	}
	return append(segments, line[start:])
}

// buildLine turns one segment into a RawLine. The dominant run is the one
// with the largest font size; the first one wins on ties.
func (d *LineDetector) buildLine(segment []text.TextFragment, pageIndex int, pageHeight float64) (model.RawLine, bool) {
	runs := text.MergeRuns(segment)
	if len(runs) == 0 {
		return model.RawLine{}, false
	}

	content := strings.TrimSpace(text.LogicalOrder(text.Fold(text.JoinRuns(runs))))
	if content == "" {
		return model.RawLine{}, false
	}

	dominant := runs[0]
	top, bottom := math.MaxFloat64, -math.MaxFloat64
	for _, r := range runs {
		if r.FontSize > dominant.FontSize {
			dominant = r
		}
		top = math.Min(top, model.FlipY(r.Y+r.Height*d.config.AscentRatio, pageHeight))
		bottom = math.Max(bottom, model.FlipY(r.Y-r.Height*d.config.DescentRatio, pageHeight))
	}

	return model.RawLine{
		Text:       content,
		FontSize:   dominant.FontSize,
		FontName:   dominant.FontName,
		FontFlags:  dominant.FontFlags,
		Top:        top,
		Bottom:     bottom,
		PageIndex:  pageIndex,
		RunCount:   len(runs),
		PageHeight: pageHeight,
	}, true
}
