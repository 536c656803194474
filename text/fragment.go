package text

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TextFragment represents a piece of extracted text with position
type TextFragment struct {
	Text      string
	X, Y      float64 // Baseline origin in PDF user space
	Width     float64
	Height    float64
	FontName  string
	FontSize  float64
	FontFlags int
}

// Right returns the X coordinate where the fragment ends
func (f TextFragment) Right() float64 {
	return f.X + f.Width
}

// IsSpace reports whether the fragment holds only whitespace
func (f TextFragment) IsSpace() bool {
	return strings.TrimSpace(f.Text) == ""
}

// SameStyle reports whether two fragments share font name, size and flags
func SameStyle(a, b TextFragment) bool {
	return a.FontName == b.FontName &&
		a.FontFlags == b.FontFlags &&
		math.Abs(a.FontSize-b.FontSize) < 0.01
}

// HorizontalGap returns the distance from the end of frag to the start of next
func HorizontalGap(frag, next TextFragment) float64 {
	return next.X - frag.Right()
}

// SpaceWidth estimates the width of a space character as 25% of the font size
func SpaceWidth(fontSize float64) float64 {
	return fontSize * 0.25
}

// ShouldInsertSpace determines if a space belongs between two fragments based
// on the horizontal gap
func ShouldInsertSpace(frag, next TextFragment) bool {
	if frag.IsSpace() || next.IsSpace() {
		return false
	}

	gap := HorizontalGap(frag, next)
	if gap < 0 || gap < frag.FontSize*0.05 {
		return false
	}

	// Half a space width absorbs kerning while still catching word breaks
	return gap >= SpaceWidth(frag.FontSize)*0.5
}

// SortByX orders fragments left to right, keeping stream order for ties
func SortByX(fragments []TextFragment) {
	sort.SliceStable(fragments, func(i, j int) bool {
		return fragments[i].X < fragments[j].X
	})
}

// MergeRuns joins the fragments of a single line, ordered left to right, into
// runs of uniform style. Whitespace-only fragments never form a run of their
// own; they only mark a word break.
func MergeRuns(fragments []TextFragment) []TextFragment {
	var runs []TextFragment
	var sb strings.Builder
	var current TextFragment
	open := false
	pendingSpace := false

	for _, next := range fragments {
		if next.IsSpace() {
			pendingSpace = open
			continue
		}

		if !open {
			current = next
			sb.WriteString(next.Text)
			open = true
			continue
		}

		space := pendingSpace || ShouldInsertSpace(current, next)
		pendingSpace = false

		if !SameStyle(current, next) {
			if space {
				sb.WriteString(" ")
			}
			current.Text = sb.String()
			runs = append(runs, current)

			sb.Reset()
			current = next
			sb.WriteString(next.Text)
			continue
		}

		if space {
			sb.WriteString(" ")
		}
		sb.WriteString(next.Text)

		// Grow the run to cover the next fragment
		right := math.Max(current.Right(), next.Right())
		current.Width = right - current.X
		if next.Height > current.Height {
			current.Height = next.Height
		}
		if next.Y < current.Y {
			current.Y = next.Y
		}
	}

	if open {
		current.Text = sb.String()
		runs = append(runs, current)
	}

	return runs
}

// JoinRuns concatenates run text. Runs end with the separating space already
// written by MergeRuns.
func JoinRuns(runs []TextFragment) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Fold applies NFKC compatibility normalization
func Fold(s string) string {
	return norm.NFKC.String(s)
}
