package layout

import (
	"unicode"
	"unicode/utf8"
)

// indicScripts covers Devanagari and the Gurmukhi through Kannada blocks
var indicScripts = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0900, Hi: 0x097F, Stride: 1},
		{Lo: 0x0A00, Hi: 0x0CFF, Stride: 1},
	},
}

// ScoreRule is one additive heading signal. Rules are evaluated
// independently and the weights of the rules that apply are summed.
type ScoreRule struct {
	Name    string
	Weight  float64
	Applies func(line CleanedLine, stats DocumentStats) bool
}

// ScoreRules is the ordered rule table used by Score.
var ScoreRules = []ScoreRule{
	{Name: "size>=1.5x", Weight: 3, Applies: func(l CleanedLine, s DocumentStats) bool {
		return sizeRatioAtLeast(l, s, 1.5)
	}},
	{Name: "size>=1.2x", Weight: 2, Applies: func(l CleanedLine, s DocumentStats) bool {
		return sizeRatioAtLeast(l, s, 1.2) && !sizeRatioAtLeast(l, s, 1.5)
	}},
	{Name: "size>=1.05x", Weight: 1, Applies: func(l CleanedLine, s DocumentStats) bool {
		return sizeRatioAtLeast(l, s, 1.05) && !sizeRatioAtLeast(l, s, 1.2)
	}},
	{Name: "bold", Weight: 1.5, Applies: func(l CleanedLine, _ DocumentStats) bool {
		return l.Bold
	}},
	{Name: "top-fifth", Weight: 1, Applies: func(l CleanedLine, _ DocumentStats) bool {
		return aboveFraction(l, 1.0/5)
	}},
	{Name: "top-third", Weight: 0.5, Applies: func(l CleanedLine, _ DocumentStats) bool {
		return aboveFraction(l, 1.0/3) && !aboveFraction(l, 1.0/5)
	}},
	{Name: "indic-script", Weight: 1, Applies: func(l CleanedLine, _ DocumentStats) bool {
		return containsIndic(l.Text)
	}},
	{Name: "single-run", Weight: 1, Applies: func(l CleanedLine, _ DocumentStats) bool {
		return l.Raw.RunCount == 1
	}},
	{Name: "tall-line", Weight: 0.5, Applies: func(l CleanedLine, s DocumentStats) bool {
		return l.Height > s.AverageLineHeight*1.5
	}},
	{Name: "all-caps", Weight: 1, Applies: func(l CleanedLine, _ DocumentStats) bool {
		return isAllUpper(l.Text) && l.WordCount() < 10
	}},
	{Name: "capitalized", Weight: 0.5, Applies: func(l CleanedLine, _ DocumentStats) bool {
		n := l.WordCount()
		return startsUpper(l.Text) && n >= 2 && n <= 14
	}},
}

// Score returns the heading confidence of a line: the sum of the weights of
// every rule in ScoreRules that applies.
func Score(line CleanedLine, stats DocumentStats) float64 {
	score := 0.0
	for _, rule := range ScoreRules {
		if rule.Applies(line, stats) {
			score += rule.Weight
		}
	}
	return score
}

// Explain returns the names of the rules that contribute to a line's score
func Explain(line CleanedLine, stats DocumentStats) []string {
	var names []string
	for _, rule := range ScoreRules {
		if rule.Applies(line, stats) {
			names = append(names, rule.Name)
		}
	}
	return names
}

func sizeRatioAtLeast(l CleanedLine, s DocumentStats, ratio float64) bool {
	if s.AverageSize <= 0 {
		return false
	}
	return l.Raw.FontSize >= s.AverageSize*ratio
}

// aboveFraction reports whether the line starts above the given fraction of
// its page height
func aboveFraction(l CleanedLine, fraction float64) bool {
	if l.Raw.PageHeight <= 0 {
		return false
	}
	return l.Raw.Top < l.Raw.PageHeight*fraction
}

func containsIndic(s string) bool {
	for _, r := range s {
		if unicode.Is(indicScripts, r) {
			return true
		}
	}
	return false
}

// isAllUpper reports whether s has at least one cased letter and every cased
// letter is uppercase
func isAllUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && unicode.IsUpper(r)
}
