// Package model defines the data exchanged between the outline pipeline and
// its collaborators.
//
// A layout reader produces [Page] values holding [RawLine] records: the text of
// one visual line together with its dominant font size, font name and flags,
// vertical bounds and the number of style runs it was assembled from. The
// layout package turns those lines into [HeadingEntry] values and an [Outline].
//
// # Results
//
// Every document yields a [Result], never an error:
//
//	res := outliner.Open("report.pdf").Extract(ctx)
//	if res.Degraded() {
//	    log.Println("falling back to file name:", res.Err)
//	}
//	for _, h := range res.Outline {
//	    fmt.Println(h.Level, h.Text, h.Page)
//	}
//
// A degraded result always carries the document name as its title and an empty
// outline.
//
// # Geometry
//
// [BBox] uses PDF user space (origin bottom-left). [RawLine] bounds are already
// converted to top-down page coordinates, so a smaller Top is closer to the
// top edge of the page.
package model
