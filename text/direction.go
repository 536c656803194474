package text

import (
	"slices"
	"unicode"
)

// Direction is the dominant writing direction of a line
type Direction int

const (
	LTR Direction = iota
	RTL
	Neutral // no strong characters: digits, punctuation, symbols
)

// rtlScripts are the scripts PDFs lay out right to left
var rtlScripts = []*unicode.RangeTable{
	unicode.Arabic,
	unicode.Hebrew,
	unicode.Syriac,
	unicode.Thaana,
	unicode.Nko,
}

// DetectDirection returns the direction with more strong characters in s,
// LTR on ties, or Neutral when s has none.
func DetectDirection(s string) Direction {
	var ltr, rtl int
	for _, r := range s {
		switch charDirection(r) {
		case LTR:
			ltr++
		case RTL:
			rtl++
		}
	}

	switch {
	case ltr == 0 && rtl == 0:
		return Neutral
	case rtl > ltr:
		return RTL
	}
	return LTR
}

// LogicalOrder converts a line read left to right into logical order when
// its dominant direction is RTL. Embedded words and numbers written left to
// right keep their order. Other lines are returned unchanged.
func LogicalOrder(s string) string {
	if DetectDirection(s) != RTL {
		return s
	}

	rs := []rune(s)
	slices.Reverse(rs)
	for i := 0; i < len(rs); {
		if !leftToRight(rs[i]) {
			i++
			continue
		}
		j := i
		for j < len(rs) && leftToRight(rs[j]) {
			j++
		}
		slices.Reverse(rs[i:j])
		i = j
	}
	return string(rs)
}

func leftToRight(r rune) bool {
	return unicode.IsDigit(r) || charDirection(r) == LTR
}

func charDirection(r rune) Direction {
	switch {
	case unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r):
		return Neutral
	case unicode.IsOneOf(rtlScripts, r):
		return RTL
	case unicode.IsLetter(r) || unicode.IsMark(r):
		return LTR
	}
	return Neutral
}
