package layout

import (
	"sort"

	"github.com/tsawler/outliner/model"
)

// SelectTitle picks the highest-confidence H1 on the first page, or else the
// highest-confidence heading anywhere. Ties go to the topmost line. It
// returns false when there are no headings.
func SelectTitle(headings []model.HeadingEntry) (string, bool) {
	var firstPage []model.HeadingEntry
	for _, h := range headings {
		if h.Page == 0 && h.Level == model.H1 {
			firstPage = append(firstPage, h)
		}
	}

	if best, ok := bestHeading(firstPage); ok {
		return best.Text, true
	}
	if best, ok := bestHeading(headings); ok {
		return best.Text, true
	}
	return "", false
}

func bestHeading(headings []model.HeadingEntry) (model.HeadingEntry, bool) {
	if len(headings) == 0 {
		return model.HeadingEntry{}, false
	}
	ranked := make([]model.HeadingEntry, len(headings))
	copy(ranked, headings)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		return ranked[i].Top < ranked[j].Top
	})
	return ranked[0], true
}
