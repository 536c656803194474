package layout

import (
	"sort"

	"github.com/tsawler/outliner/model"
)

// DefaultMaxItems bounds the outline size
const DefaultMaxItems = 20

// FilterOutline ranks headings by confidence (then top, then page), drops
// later entries whose NormalizeKey was already kept, truncates to maxItems
// and returns the survivors in reading order: page, then level.
func FilterOutline(headings []model.HeadingEntry, maxItems int) model.Outline {
	ranked := make([]model.HeadingEntry, len(headings))
	copy(ranked, headings)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Top != b.Top {
			return a.Top < b.Top
		}
		return a.Page < b.Page
	})

	seen := make(map[string]struct{}, len(ranked))
	outline := make(model.Outline, 0, min(len(ranked), max(maxItems, 0)))
	for _, h := range ranked {
		if len(outline) >= maxItems {
			break
		}
		key := NormalizeKey(h.Text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		outline = append(outline, h)
	}

	sort.SliceStable(outline, func(i, j int) bool {
		if outline[i].Page != outline[j].Page {
			return outline[i].Page < outline[j].Page
		}
		return outline[i].Level.Rank() < outline[j].Level.Rank()
	})

	return outline
}
