package layout

import (
	"strings"
	"testing"

	"github.com/tsawler/outliner/model"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"empty", "", "", false},
		{"whitespace", "   \t ", "", false},
		{"single rune", " A ", "", false},
		{"heading", "Introduction", "Introduction", true},
		{"collapses whitespace", "  Results   and\tDiscussion ", "Results and Discussion", true},
		{"page number", "12", "", false},
		{"page label", "Page 3", "", false},
		{"page label lower", "page 12", "", false},
		{"page abbreviation", "p. 4", "", false},
		{"step", "Step 1", "", false},
		{"note prefix", "Note:", "", false},
		{"ui instruction", "3. Click", "", false},
		{"outline marker", "(a)", "", false},
		{"leader", "......", "", false},
		{"optional prefix", "Optional:", "", false},
		{"file name", "report_2024.pdf", "", false},
		{"file name docx", "Minutes.DOCX", "", false},
		{"table of contents", "Table of Contents", "", false},
		{"table of contents caps", "TABLE  OF  CONTENTS", "", false},
		{"references", "References", "", false},
		{"confidential", "Confidential", "", false},
		{"acknowledgement", "Acknowledgements", "", false},
		{"partial match kept", "References and Further Reading", "References and Further Reading", true},
		{"page in a title kept", "Page Layout Basics", "Page Layout Basics", true},
		{"no letters", "1.2.3 - 4", "", false},
		{"devanagari", "परिचय", "परिचय", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Clean(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Clean(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCleanLengthBounds(t *testing.T) {
	words := func(n int) string {
		return strings.TrimSpace(strings.Repeat("w ", n))
	}

	if _, ok := Clean(words(MaxLineWords)); !ok {
		t.Errorf("%d words should be accepted", MaxLineWords)
	}
	if _, ok := Clean(words(MaxLineWords + 1)); ok {
		t.Errorf("%d words should be rejected", MaxLineWords+1)
	}
	if _, ok := Clean(strings.Repeat("a", MaxLineRunes)); !ok {
		t.Errorf("%d runes should be accepted", MaxLineRunes)
	}
	if _, ok := Clean(strings.Repeat("a", MaxLineRunes+1)); ok {
		t.Errorf("%d runes should be rejected", MaxLineRunes+1)
	}
	// Runes, not bytes
	if _, ok := Clean(strings.Repeat("é", MaxLineRunes)); !ok {
		t.Error("multi-byte runes should be counted once")
	}
}

func TestCleanedLinesRespectBounds(t *testing.T) {
	inputs := []string{
		"Short heading",
		strings.Repeat("word ", 40),
		strings.Repeat("x", 200),
		"A reasonably long line of body text that still fits under the limit",
	}
	for _, in := range inputs {
		got, ok := Clean(in)
		if !ok {
			continue
		}
		if n := len([]rune(got)); n > MaxLineRunes {
			t.Errorf("Clean(%q) kept %d runes", in, n)
		}
		if n := len(strings.Fields(got)); n > MaxLineWords {
			t.Errorf("Clean(%q) kept %d words", in, n)
		}
	}
}

func TestIsBold(t *testing.T) {
	tests := []struct {
		font  string
		flags int
		want  bool
	}{
		{"Helvetica", 0, false},
		{"Helvetica-Bold", 0, true},
		{"ABCDEF+Arial-BoldMT", 0, true},
		{"Roboto-Black", 0, false},
		{"Roboto-Black", model.FlagBold, true},
		{"Inter-SemiBold", 0, true},
		{"Times-Roman", model.FlagBold, true},
		{"", 0, false},
	}

	for _, tt := range tests {
		if got := IsBold(tt.font, tt.flags); got != tt.want {
			t.Errorf("IsBold(%q, %d) = %v, want %v", tt.font, tt.flags, got, tt.want)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Overview", "overview"},
		{"OVERVIEW:", "overview"},
		{"1. Introduction", "1introduction"},
		{"Results & Discussion", "resultsdiscussion"},
		{"snake_case", "snake_case"},
		{"Données", "données"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := NormalizeKey(tt.in); got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClaimKey(t *testing.T) {
	if ClaimKey("Overview") != ClaimKey("OVERVIEW") {
		t.Error("claim keys should ignore case")
	}
	if ClaimKey("Overview") == ClaimKey("Overview:") {
		t.Error("claim keys keep punctuation")
	}
}

func TestCleanLines(t *testing.T) {
	raw := []model.RawLine{
		{Text: "  Annual   Report ", FontName: "Helvetica-Bold", FontSize: 24, Top: 50, Bottom: 80},
		{Text: "Page 1"},
		{Text: "Body text here", FontName: "Helvetica", FontSize: 11, Top: 100, Bottom: 113},
	}

	lines := CleanLines(raw)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Text != "Annual Report" || !lines[0].Bold || lines[0].Height != 30 {
		t.Errorf("first line = %+v", lines[0])
	}
	if lines[0].Raw.Text != raw[0].Text {
		t.Error("raw line should be kept unchanged")
	}
	if lines[1].Bold || lines[1].WordCount() != 3 || lines[1].RuneCount() != 14 {
		t.Errorf("second line = %+v", lines[1])
	}
}
