// Package reader turns PDF pages into the raw text lines used by heading
// detection.
//
// # Opening PDF Files
//
// Use [Open] to open a PDF file for reading:
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
// Or use [NewReader] with an in-memory document.
//
// # Page Access
//
// Pages are addressed by 0-based index:
//
//   - PageCount() - number of pages
//   - PageSize(i) - page width and height in points
//   - Fragments(i) - positioned glyphs with font name, size and bold flag
//   - Lines(i) - text lines with top-down coordinates
//   - Document(ctx, maxPages) - every page, tolerating unreadable ones
//
// # Malformed Pages
//
// Text extraction recovers from panics inside the PDF libraries. [Reader.Lines]
// reports a broken page as an error; [Reader.Document] turns it into a page
// without lines and records a [Warning].
package reader
