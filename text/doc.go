// Package text holds positioned text fragments and the rules for joining them.
//
// A [TextFragment] is a piece of text drawn at a position in PDF user space
// with one font. Readers usually produce one fragment per glyph; [MergeRuns]
// joins the fragments of one visual line into style runs, inserting spaces
// where the horizontal gap is wide enough to be a word break:
//
//	runs := text.MergeRuns(lineFragments)
//	for _, r := range runs {
//	    fmt.Println(r.FontName, r.FontSize, r.Text)
//	}
//
// [Fold] applies compatibility normalization so ligature glyphs such as "ﬁ"
// come out as plain letters.
package text
