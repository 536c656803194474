package layout

import (
	"testing"

	"github.com/tsawler/outliner/model"
)

func TestClassifyLevel(t *testing.T) {
	top := []float64{24, 18, 12}

	tests := []struct {
		name     string
		size     float64
		topSizes []float64
		score    float64
		bold     bool
		want     model.HeadingLevel
	}{
		{"confidence override", 8, top, 6, false, model.H1},
		{"largest size", 24, top, 3, false, model.H1},
		{"within 2% of largest", 23.6, top, 3, false, model.H1},
		{"second size", 18, top, 3, false, model.H2},
		{"within 5% of second", 17.2, top, 3, false, model.H2},
		{"between tiers", 16, top, 3, false, model.H3},
		{"bold and large enough", 16, top, 4, true, model.H3},
		{"no top sizes", 30, nil, 3, true, model.H3},
		{"single top size", 20, []float64{24}, 3, false, model.H3},
		{"just under override", 8, top, 5.5, false, model.H3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyLevel(tt.size, tt.topSizes, tt.score, tt.bold); got != tt.want {
				t.Errorf("ClassifyLevel(%v, %v, %v, %v) = %v, want %v",
					tt.size, tt.topSizes, tt.score, tt.bold, got, tt.want)
			}
		})
	}
}

func TestLevelRulesOrder(t *testing.T) {
	if len(LevelRules) == 0 || LevelRules[0].Name != "strong-confidence" {
		t.Fatal("the confidence override must be evaluated first")
	}
	for _, r := range LevelRules {
		if !r.Level.Valid() {
			t.Errorf("rule %q yields invalid level %v", r.Name, r.Level)
		}
	}
}
