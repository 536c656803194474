// Package layout turns positioned text into document structure: it groups
// glyph fragments into lines and infers a title and an H1-H3 outline from
// typography.
//
// # Line Detection
//
// The [LineDetector] groups the fragments of one page into lines by baseline
// proximity, splits lines at wide column gutters and merges each line into
// style runs:
//
//	detector := layout.NewLineDetector()
//	lines := detector.Detect(fragments, pageIndex, pageHeight)
//
// # Heading Detection
//
// The [HeadingDetector] runs over all lines of a document in reading order:
//
//	detector := layout.NewHeadingDetector()
//	result := detector.Detect("report", lines)
//	fmt.Println(result.Title)
//	for _, h := range result.Outline {
//	    fmt.Println(h.Level, h.Text, h.Page)
//	}
//
// Detection proceeds in stages, each exported for reuse:
//
//   - [CleanLines] normalizes text and discards boilerplate
//   - [ComputeStats] derives the average size, line height and top sizes
//   - [Score] sums the weights of the applicable [ScoreRules]
//   - [ClassifyLevel] walks the [LevelRules] chain
//   - [RecoverFallback] mines extra headings when few were found
//   - [SelectTitle] and [FilterOutline] produce the final result
//
// # Configuration
//
// Thresholds can be tuned through [HeadingConfig]:
//
//	config := layout.DefaultHeadingConfig()
//	config.MaxItems = 10
//	detector := layout.NewHeadingDetectorWithConfig(config)
package layout
