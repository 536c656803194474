package layout

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tsawler/outliner/format"
	"github.com/tsawler/outliner/model"
)

const (
	// MinLineRunes is the shortest text accepted after trimming
	MinLineRunes = 2
	// MaxLineRunes is the longest text accepted
	MaxLineRunes = 120
	// MaxLineWords is the largest word count accepted
	MaxLineWords = 20
)

// boilerplatePattern matches whole lines that are never headings: page and
// step numbers, outline markers, prompts, leaders, file names and the generic
// section names found in front and back matter.
var boilerplatePattern = regexp.MustCompile(`(?i)^(?:` +
	`\p{Nd}+|` +
	`page\s+\p{Nd}+|p\.\s*\p{Nd}+|` +
	`step\s+\p{Nd}+|` +
	`note\s*:|` +
	`\p{Nd}+\.\s*(?:open|click|select)|` +
	`\([a-z]\)|` +
	`\.{3,}|` +
	`(?:optional|required)\s*:|` +
	`[\p{L}\p{N}_]+\.(?:` + strings.Join(format.DocumentExtensions(), "|") + `)|` +
	`(?:revision\s+history|table\s+of\s+contents|acknowledgements?|` +
	`references?|trademarks?|documents?\s+and\s+web\s+sites?|` +
	`appendix|index|bibliography|abstract|summary|` +
	`copyright|legal|disclaimer|confidential|version|date|` +
	`contact\s+us|about\s+us|terms\s+and\s+conditions)` +
	`)$`)

// Clean normalizes raw line text. It returns false for text that cannot be a
// heading: too short, boilerplate, too long, or without any letter.
func Clean(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if utf8.RuneCountInString(trimmed) < MinLineRunes {
		return "", false
	}

	words := strings.Fields(trimmed)
	cleaned := strings.Join(words, " ")

	if IsBoilerplate(cleaned) {
		return "", false
	}
	if utf8.RuneCountInString(cleaned) > MaxLineRunes || len(words) > MaxLineWords {
		return "", false
	}
	if !hasLetter(cleaned) {
		return "", false
	}

	return cleaned, true
}

// IsBoilerplate reports whether the whole of text matches a noise pattern
func IsBoilerplate(text string) bool {
	return boilerplatePattern.MatchString(strings.ToLower(text))
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// IsBold reports whether a font is bold, from its flags or its name
func IsBold(fontName string, flags int) bool {
	if flags&model.FlagBold != 0 {
		return true
	}
	return strings.Contains(strings.ToLower(fontName), "bold")
}

// NormalizeKey lowercases text and strips everything except letters, marks,
// digits and underscores. Outline entries with equal keys are duplicates.
func NormalizeKey(text string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r) || r == '_' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// ClaimKey is the key a line is claimed under while headings are collected
func ClaimKey(text string) string {
	return strings.ToLower(text)
}

// CleanedLine is a raw line that survived normalization
type CleanedLine struct {
	Raw model.RawLine

	// Text is the whitespace-collapsed text
	Text string

	// Bold is derived from the font flags or name
	Bold bool

	// Height is Bottom - Top
	Height float64
}

// NewCleanedLine normalizes a raw line, returning false when it is discarded
func NewCleanedLine(raw model.RawLine) (CleanedLine, bool) {
	cleaned, ok := Clean(raw.Text)
	if !ok {
		return CleanedLine{}, false
	}
	return CleanedLine{
		Raw:    raw,
		Text:   cleaned,
		Bold:   IsBold(raw.FontName, raw.FontFlags),
		Height: raw.Height(),
	}, true
}

// CleanLines normalizes every raw line, keeping document order
func CleanLines(raw []model.RawLine) []CleanedLine {
	lines := make([]CleanedLine, 0, len(raw))
	for _, r := range raw {
		if line, ok := NewCleanedLine(r); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

// WordCount returns the number of whitespace-delimited words
func (l CleanedLine) WordCount() int {
	return len(strings.Fields(l.Text))
}

// RuneCount returns the number of characters in the text
func (l CleanedLine) RuneCount() int {
	return utf8.RuneCountInString(l.Text)
}
