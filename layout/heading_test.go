package layout

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/tsawler/outliner/model"
)

// rawLine builds a raw line on an 800pt page
func rawLine(text string, size, top, height float64, page, runs int, font string) model.RawLine {
	return model.RawLine{
		Text:       text,
		FontSize:   size,
		FontName:   font,
		Top:        top,
		Bottom:     top + height,
		PageIndex:  page,
		RunCount:   runs,
		PageHeight: 800,
	}
}

func TestNewHeadingDetector(t *testing.T) {
	detector := NewHeadingDetector()
	if detector == nil {
		t.Fatal("NewHeadingDetector returned nil")
	}
	if detector.Config() != DefaultHeadingConfig() {
		t.Errorf("Config() = %+v", detector.Config())
	}

	cfg := DefaultHeadingConfig()
	cfg.MaxItems = 3
	if got := NewHeadingDetectorWithConfig(cfg).Config().MaxItems; got != 3 {
		t.Errorf("MaxItems = %d, want 3", got)
	}
}

func TestDefaultHeadingConfig(t *testing.T) {
	cfg := DefaultHeadingConfig()
	if cfg.MaxItems != 20 || cfg.PrimaryThreshold != 2.0 || cfg.ShortDocumentThreshold != 1.0 ||
		cfg.ShortDocumentLines != 100 || cfg.FallbackMinHeadings != 5 || cfg.FallbackLimit != 5 {
		t.Errorf("DefaultHeadingConfig() = %+v", cfg)
	}
}

func TestAccepts(t *testing.T) {
	d := NewHeadingDetector()
	tests := []struct {
		score float64
		lines int
		want  bool
	}{
		{2.0, 500, true},
		{1.9, 500, false},
		{1.0, 99, true},
		{1.0, 100, false},
		{0.9, 10, false},
	}
	for _, tt := range tests {
		if got := d.Accepts(tt.score, tt.lines); got != tt.want {
			t.Errorf("Accepts(%v, %d) = %v, want %v", tt.score, tt.lines, got, tt.want)
		}
	}
}

func TestDetectMinimalStyledDocument(t *testing.T) {
	// Average size 12: one large bold line over three small body lines
	raw := []model.RawLine{
		rawLine("Introduction", 24, 50, 28.8, 0, 1, "Helvetica-Bold"),
		rawLine("the body text continues here", 8, 500, 9.6, 0, 2, "Helvetica"),
		rawLine("the body text continues here too", 8, 520, 9.6, 0, 2, "Helvetica"),
		rawLine("and the body text ends here", 8, 540, 9.6, 0, 2, "Helvetica"),
	}

	result := NewHeadingDetector().Detect("sample", raw)

	if result.Stats.AverageSize != 12 {
		t.Fatalf("AverageSize = %v, want 12", result.Stats.AverageSize)
	}
	if result.Title != "Introduction" {
		t.Errorf("Title = %q, want %q", result.Title, "Introduction")
	}
	if len(result.Outline) != 1 {
		t.Fatalf("got %d entries, want 1: %+v", len(result.Outline), result.Outline)
	}
	h := result.Outline[0]
	if h.Level != model.H1 || h.Text != "Introduction" || h.Page != 0 {
		t.Errorf("entry = %+v, want H1 Introduction on page 0", h)
	}
	if result.PrimaryCount != 1 || !result.FallbackTriggered || result.FallbackCount != 0 {
		t.Errorf("counts: primary %d, fallback %v/%d", result.PrimaryCount, result.FallbackTriggered, result.FallbackCount)
	}
	if result.HeadingCount() != 1 || result.Empty() {
		t.Errorf("HeadingCount() = %d", result.HeadingCount())
	}
}

func TestDetectBoilerplateOnlyPage(t *testing.T) {
	raw := []model.RawLine{
		rawLine("Page 1", 10, 760, 12, 0, 1, "Helvetica"),
		rawLine("Confidential", 14, 20, 16, 0, 1, "Helvetica-Bold"),
	}

	result := NewHeadingDetector().Detect("memo", raw)

	if !result.Empty() {
		t.Errorf("outline = %+v, want empty", result.Outline)
	}
	if result.Outline == nil {
		t.Error("outline should be empty, not nil")
	}
	if result.Title != "memo" {
		t.Errorf("Title = %q, want the document name", result.Title)
	}
	if result.RawLineCount != 2 || result.DiscardedLines != 2 {
		t.Errorf("RawLineCount %d DiscardedLines %d", result.RawLineCount, result.DiscardedLines)
	}
}

func TestDetectEmptyDocument(t *testing.T) {
	result := NewHeadingDetector().Detect("blank", nil)
	if result.Title != "blank" || !result.Empty() || result.Stats.LineCount != 0 {
		t.Errorf("Detect(nil) = %+v", result)
	}
}

func TestDetectDuplicateHeadingAcrossPages(t *testing.T) {
	var raw []model.RawLine
	for page := 0; page < 3; page++ {
		for i := 0; i < 4; i++ {
			raw = append(raw, rawLine("plain body text", 10, 400+float64(i)*20, 12, page, 2, "Helvetica"))
		}
	}
	raw = append(raw,
		rawLine("Overview", 20, 40, 24, 0, 1, "Helvetica-Bold"),
		rawLine("OVERVIEW", 14, 40, 16, 2, 2, "Helvetica"),
	)

	result := NewHeadingDetector().Detect("guide", raw)

	count := 0
	for _, h := range result.Outline {
		if NormalizeKey(h.Text) == "overview" {
			count++
			if h.Page != 0 {
				t.Errorf("kept Overview from page %d, want 0", h.Page)
			}
		}
	}
	if count != 1 {
		t.Errorf("got %d Overview entries, want 1: %+v", count, result.Outline)
	}
}

func TestDetectFallbackActivation(t *testing.T) {
	raw := []model.RawLine{rawLine("key findings", 10, 300, 12, 0, 2, "Helvetica-Bold")}
	for i := 0; i < 9; i++ {
		raw = append(raw, rawLine("plain body text line", 10, 500+float64(i)*20, 12, 0, 2, "Helvetica"))
	}

	// Without the short-document bar only fallback recovery can find the
	// bold line
	cfg := DefaultHeadingConfig()
	cfg.ShortDocumentLines = 0
	result := NewHeadingDetectorWithConfig(cfg).Detect("notes", raw)

	if result.PrimaryCount != 0 || !result.FallbackTriggered || result.FallbackCount != 1 {
		t.Fatalf("primary %d, fallback %v/%d", result.PrimaryCount, result.FallbackTriggered, result.FallbackCount)
	}

	found := false
	for _, h := range result.Outline {
		if h.Confidence == FallbackConfidence {
			found = true
			if h.Level != model.H3 || h.Text != "key findings" {
				t.Errorf("recovered entry = %+v", h)
			}
		}
	}
	if !found {
		t.Errorf("no recovered entry in %+v", result.Outline)
	}
	if result.Title != "key findings" {
		t.Errorf("Title = %q", result.Title)
	}
}

func TestDetectShortDocumentPrimaryPass(t *testing.T) {
	raw := []model.RawLine{rawLine("key findings", 10, 300, 12, 0, 2, "Helvetica-Bold")}
	for i := 0; i < 9; i++ {
		raw = append(raw, rawLine("plain body text line", 10, 500+float64(i)*20, 12, 0, 2, "Helvetica"))
	}

	// The lower bar of short documents accepts the bold line in the primary
	// pass, leaving nothing for fallback recovery
	result := NewHeadingDetector().Detect("notes", raw)

	if result.PrimaryCount != 1 || !result.FallbackTriggered || result.FallbackCount != 0 {
		t.Fatalf("primary %d, fallback %v/%d", result.PrimaryCount, result.FallbackTriggered, result.FallbackCount)
	}
	if len(result.Outline) != 1 || result.Outline[0].Confidence != 1.5 {
		t.Errorf("outline = %+v", result.Outline)
	}
}

// longDocument has one bold heading at the top of each page followed by
// three lines of body text
func longDocument(pages int) []model.RawLine {
	var raw []model.RawLine
	for p := 0; p < pages; p++ {
		raw = append(raw, rawLine(fmt.Sprintf("Section %d Title", p+1), 16, 50, 20, p, 1, "Helvetica-Bold"))
		for i := 0; i < 3; i++ {
			raw = append(raw, rawLine(fmt.Sprintf("the body text on page %d", p+1), 10, 300+float64(i)*20, 12, p, 2, "Helvetica"))
		}
	}
	return raw
}

func TestDetectOutlineBound(t *testing.T) {
	raw := longDocument(60)

	result := NewHeadingDetector().Detect("book", raw)
	if result.PrimaryCount != 60 || result.FallbackTriggered {
		t.Errorf("primary %d, fallback %v", result.PrimaryCount, result.FallbackTriggered)
	}
	if len(result.Outline) != DefaultMaxItems {
		t.Errorf("got %d entries, want %d", len(result.Outline), DefaultMaxItems)
	}
	assertSorted(t, result.Outline)
	if result.Title != "Section 1 Title" {
		t.Errorf("Title = %q", result.Title)
	}

	cfg := DefaultHeadingConfig()
	cfg.MaxItems = 5
	result = NewHeadingDetectorWithConfig(cfg).Detect("book", raw)
	if len(result.Outline) != 5 {
		t.Errorf("got %d entries, want 5", len(result.Outline))
	}

	cfg.MaxItems = 0
	result = NewHeadingDetectorWithConfig(cfg).Detect("book", raw)
	if !result.Empty() || result.Title != "Section 1 Title" {
		t.Errorf("MaxItems 0: outline %+v title %q", result.Outline, result.Title)
	}
}

func TestDetectIsDeterministic(t *testing.T) {
	raw := longDocument(12)
	detector := NewHeadingDetector()

	first := detector.Detect("book", raw)
	for i := 0; i < 5; i++ {
		again := detector.Detect("book", raw)
		if again.Title != first.Title || !reflect.DeepEqual(again.Outline, first.Outline) {
			t.Fatalf("run %d differs: %+v vs %+v", i, again.Outline, first.Outline)
		}
	}
}

func TestCandidateEntry(t *testing.T) {
	line, ok := NewCleanedLine(rawLine("Methods", 16, 120, 20, 4, 1, "Helvetica-Bold"))
	if !ok {
		t.Fatal("line was discarded")
	}
	c := Candidate{Line: line, Confidence: 4.5, Level: model.H2}
	e := c.Entry()
	if e.Level != model.H2 || e.Text != "Methods" || e.Page != 4 || e.Confidence != 4.5 || e.Top != 120 {
		t.Errorf("Entry() = %+v", e)
	}
}

func TestHeadingLayoutNil(t *testing.T) {
	var l *HeadingLayout
	if l.HeadingCount() != 0 || !l.Empty() {
		t.Error("nil layout should be empty")
	}
}
