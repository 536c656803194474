package text

import (
	"testing"
)

func frag(s string, x, width, size float64) TextFragment {
	return TextFragment{Text: s, X: x, Y: 700, Width: width, Height: size, FontName: "Helvetica", FontSize: size}
}

func TestTextFragmentGeometry(t *testing.T) {
	f := frag("Hello", 72, 30, 12)
	if f.Right() != 102 {
		t.Errorf("Right() = %v, want 102", f.Right())
	}
	if f.IsSpace() {
		t.Error("IsSpace() = true for text")
	}
	if !frag(" \t", 0, 3, 12).IsSpace() {
		t.Error("IsSpace() = false for whitespace")
	}
}

func TestShouldInsertSpace(t *testing.T) {
	tests := []struct {
		name string
		a, b TextFragment
		want bool
	}{
		{"adjacent glyphs", frag("H", 72, 8, 12), frag("e", 80, 6, 12), false},
		{"kerning overlap", frag("A", 72, 8, 12), frag("V", 79, 8, 12), false},
		{"tiny gap", frag("r", 72, 4, 12), frag("n", 76.5, 6, 12), false},
		{"word gap", frag("Hello", 72, 30, 12), frag("World", 105, 30, 12), true},
		{"space fragment", frag(" ", 72, 3, 12), frag("World", 80, 30, 12), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldInsertSpace(tt.a, tt.b); got != tt.want {
				t.Errorf("ShouldInsertSpace() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSameStyle(t *testing.T) {
	a := frag("a", 0, 5, 12)
	b := frag("b", 5, 5, 12.001)
	if !SameStyle(a, b) {
		t.Error("sizes within tolerance should share a style")
	}
	b.FontName = "Helvetica-Bold"
	if SameStyle(a, b) {
		t.Error("different fonts should not share a style")
	}
	c := frag("c", 5, 5, 12)
	c.FontFlags = 16
	if SameStyle(a, c) {
		t.Error("different flags should not share a style")
	}
}

func TestSortByX(t *testing.T) {
	fragments := []TextFragment{frag("c", 30, 5, 12), frag("a", 10, 5, 12), frag("b", 20, 5, 12), frag("b2", 20, 5, 12)}
	SortByX(fragments)
	got := ""
	for _, f := range fragments {
		got += f.Text
	}
	if got != "abb2c" {
		t.Errorf("SortByX order = %q, want %q", got, "abb2c")
	}
}

func TestMergeRuns(t *testing.T) {
	bold := func(f TextFragment) TextFragment {
		f.FontName = "Helvetica-Bold"
		return f
	}

	tests := []struct {
		name      string
		fragments []TextFragment
		texts     []string
	}{
		{
			name:      "empty",
			fragments: nil,
			texts:     nil,
		},
		{
			name: "glyphs of one word",
			fragments: []TextFragment{
				frag("W", 72, 10, 12), frag("o", 82, 6, 12), frag("r", 88, 4, 12), frag("d", 92, 6, 12),
			},
			texts: []string{"Word"},
		},
		{
			name: "words separated by a gap",
			fragments: []TextFragment{
				frag("Hello", 72, 30, 12), frag("World", 105, 30, 12),
			},
			texts: []string{"Hello World"},
		},
		{
			name: "explicit space fragment",
			fragments: []TextFragment{
				frag("Hello", 72, 30, 12), frag(" ", 102, 1, 12), frag("World", 103, 30, 12),
			},
			texts: []string{"Hello World"},
		},
		{
			name: "leading space is dropped",
			fragments: []TextFragment{
				frag(" ", 60, 3, 12), frag("Hello", 72, 30, 12),
			},
			texts: []string{"Hello"},
		},
		{
			name: "style change starts a run",
			fragments: []TextFragment{
				bold(frag("Note", 72, 25, 12)), frag("this", 100, 20, 12), frag("well", 123, 20, 12),
			},
			texts: []string{"Note ", "this well"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := MergeRuns(tt.fragments)
			if len(runs) != len(tt.texts) {
				t.Fatalf("got %d runs, want %d", len(runs), len(tt.texts))
			}
			for i, r := range runs {
				if r.Text != tt.texts[i] {
					t.Errorf("run %d = %q, want %q", i, r.Text, tt.texts[i])
				}
			}
		})
	}
}

func TestMergeRunsExtent(t *testing.T) {
	runs := MergeRuns([]TextFragment{frag("Hello", 72, 30, 12), frag("World", 105, 30, 14)})
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2 (sizes differ)", len(runs))
	}

	runs = MergeRuns([]TextFragment{frag("Hello", 72, 30, 12), frag("World", 105, 30, 12)})
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].X != 72 || runs[0].Right() != 135 {
		t.Errorf("run spans [%v, %v], want [72, 135]", runs[0].X, runs[0].Right())
	}
}

func TestJoinRuns(t *testing.T) {
	runs := []TextFragment{{Text: "Note "}, {Text: "this well"}}
	if got := JoinRuns(runs); got != "Note this well" {
		t.Errorf("JoinRuns() = %q", got)
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ﬁnal", "final"},
		{"ﬀ", "ff"},
		{"Ｆｕｌｌ", "Full"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
