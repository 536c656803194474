package layout

import (
	"sort"

	"github.com/tsawler/outliner/model"
)

const (
	// FallbackConfidence is the fixed confidence of recovered headings
	FallbackConfidence = 0.5

	fallbackMaxTop   = 0.6
	fallbackMaxRunes = 80
	fallbackBigSize  = 1.2
)

// ClaimSet records the keys of lines already taken as headings. The primary
// pass fills it and fallback recovery skips whatever it holds.
type ClaimSet map[string]struct{}

// NewClaimSet creates an empty claim set
func NewClaimSet() ClaimSet {
	return make(ClaimSet)
}

// Claim adds key and reports whether it was not claimed before
func (c ClaimSet) Claim(key string) bool {
	if _, ok := c[key]; ok {
		return false
	}
	c[key] = struct{}{}
	return true
}

// Claimed reports whether key is already claimed
func (c ClaimSet) Claimed(key string) bool {
	_, ok := c[key]
	return ok
}

// IsFallbackCandidate applies the typographic rules of fallback recovery: in
// the top 60% of its page, at most 80 characters, at least average size and
// either bold or clearly larger than average.
func IsFallbackCandidate(line CleanedLine, stats DocumentStats) bool {
	if line.Raw.PageHeight <= 0 || line.Raw.Top >= line.Raw.PageHeight*fallbackMaxTop {
		return false
	}
	if line.RuneCount() > fallbackMaxRunes {
		return false
	}
	size := line.Raw.FontSize
	if size < stats.AverageSize {
		return false
	}
	return line.Bold || size >= stats.AverageSize*fallbackBigSize
}

// RecoverFallback mines unclaimed lines that pass IsFallbackCandidate, ranks
// them by size (descending), top and page, and returns up to limit of them as
// H3 entries with FallbackConfidence. Every matching line is claimed, even
// those beyond the limit.
func RecoverFallback(lines []CleanedLine, stats DocumentStats, claimed ClaimSet, limit int) []model.HeadingEntry {
	var matches []CleanedLine
	for _, line := range lines {
		if !IsFallbackCandidate(line, stats) {
			continue
		}
		if claimed.Claim(ClaimKey(line.Text)) {
			matches = append(matches, line)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i].Raw, matches[j].Raw
		if a.FontSize != b.FontSize {
			return a.FontSize > b.FontSize
		}
		if a.Top != b.Top {
			return a.Top < b.Top
		}
		return a.PageIndex < b.PageIndex
	})

	if limit < 0 {
		limit = 0
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}

	entries := make([]model.HeadingEntry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, model.HeadingEntry{
			Level:      model.H3,
			Text:       m.Text,
			Page:       m.Raw.PageIndex,
			Confidence: FallbackConfidence,
			Top:        m.Raw.Top,
		})
	}
	return entries
}
