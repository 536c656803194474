package model

// FlagBold marks a bold face in RawLine.FontFlags.
const FlagBold = 1 << 4

// RawLine is one visual line of text as reported by a layout reader.
type RawLine struct {
	// Text is the concatenated text of all runs in the line
	Text string

	// FontSize is the largest font size among the line's runs
	FontSize float64

	// FontName and FontFlags belong to the run with the largest font size
	FontName  string
	FontFlags int

	// Top and Bottom are distances from the top edge of the page
	Top    float64
	Bottom float64

	// PageIndex is the 0-based page the line was found on
	PageIndex int

	// RunCount is the number of style runs composing the line
	RunCount int

	// PageHeight is the height of the line's page in points
	PageHeight float64
}

// Height returns the vertical extent of the line.
func (l RawLine) Height() float64 {
	return l.Bottom - l.Top
}

// Page is the layout of a single page.
type Page struct {
	Index  int     // 0-based page index
	Width  float64 // Page width in points
	Height float64 // Page height in points
	Lines  []RawLine
}

// LineCount returns the number of lines on the page.
func (p *Page) LineCount() int {
	if p == nil {
		return 0
	}
	return len(p.Lines)
}

// AllLines flattens the lines of pages in page order.
func AllLines(pages []Page) []RawLine {
	n := 0
	for _, p := range pages {
		n += len(p.Lines)
	}
	lines := make([]RawLine, 0, n)
	for _, p := range pages {
		lines = append(lines, p.Lines...)
	}
	return lines
}
