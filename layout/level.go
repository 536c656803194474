package layout

import "github.com/tsawler/outliner/model"

const (
	// OverrideScore is the confidence at which a line is H1 regardless of size
	OverrideScore = 6.0
)

// LevelInput is what the level classifier looks at
type LevelInput struct {
	Size     float64
	TopSizes []float64
	Score    float64
	Bold     bool
}

// LevelRule maps a LevelInput to a level when it applies
type LevelRule struct {
	Name    string
	Level   model.HeadingLevel
	Applies func(in LevelInput) bool
}

// LevelRules is the ordered rule chain used by ClassifyLevel; the first rule
// that applies wins and H3 is the default.
var LevelRules = []LevelRule{
	{Name: "strong-confidence", Level: model.H1, Applies: func(in LevelInput) bool {
		return in.Score >= OverrideScore
	}},
	{Name: "largest-size", Level: model.H1, Applies: func(in LevelInput) bool {
		return len(in.TopSizes) > 0 && in.Size >= in.TopSizes[0]*0.98
	}},
	{Name: "second-size", Level: model.H2, Applies: func(in LevelInput) bool {
		return len(in.TopSizes) > 1 && in.Size >= in.TopSizes[1]*0.95
	}},
	{Name: "bold-large-enough", Level: model.H3, Applies: func(in LevelInput) bool {
		return in.Bold && len(in.TopSizes) > 0 && in.Size >= in.TopSizes[len(in.TopSizes)-1]*0.9
	}},
}

// ClassifyLevel assigns H1, H2 or H3 from the line size relative to the
// document's top sizes, with a confidence override.
func ClassifyLevel(size float64, topSizes []float64, score float64, bold bool) model.HeadingLevel {
	in := LevelInput{Size: size, TopSizes: topSizes, Score: score, Bold: bold}
	for _, rule := range LevelRules {
		if rule.Applies(in) {
			return rule.Level
		}
	}
	return model.H3
}
