// Package pdftest builds small, valid PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Line is one line of text drawn with a standard Helvetica face. Y is the
// baseline measured from the bottom of the page.
type Line struct {
	Text string
	Size float64
	Bold bool
	X, Y float64
}

// Page is a page of text lines. OriginX and OriginY move the lower-left
// corner of the MediaBox; line coordinates stay in user space. A non-empty
// Content is written as the page's content stream instead of Lines.
type Page struct {
	Width, Height    float64
	OriginX, OriginY float64
	Lines            []Line
	Content          string
}

// Malformed returns a Letter page whose content stream sets a font without
// a size, which text extraction rejects
func Malformed() Page {
	return Page{Width: 612, Height: 792, Content: "BT /F1 Tf (lost) Tj ET"}
}

// Letter returns an empty US Letter page
func Letter(lines ...Line) Page {
	return Page{Width: 612, Height: 792, Lines: lines}
}

// Build renders the pages into a PDF file. Regular text uses /F1
// (Helvetica) and bold text /F2 (Helvetica-Bold).
func Build(pages ...Page) []byte {
	var objects []string

	// 1: catalog, 2: page tree, 3-4: fonts, then a page and a content
	// stream per page
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 5+2*i)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /Encoding /WinAnsiEncoding >>",
	)

	for i, p := range pages {
		content := p.Content
		if content == "" {
			content = contentStream(p.Lines)
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [%s %s %s %s] "+
				"/Resources << /Font << /F1 3 0 R /F2 4 0 R >> >> /Contents %d 0 R >>",
				num(p.OriginX), num(p.OriginY), num(p.OriginX+p.Width), num(p.OriginY+p.Height), 6+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func contentStream(lines []Line) string {
	var sb strings.Builder
	for _, l := range lines {
		font := "/F1"
		if l.Bold {
			font = "/F2"
		}
		fmt.Fprintf(&sb, "BT %s %s Tf 1 0 0 1 %s %s Tm (%s) Tj ET\n",
			font, num(l.Size), num(l.X), num(l.Y), escape(l.Text))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Report builds a two-page document: a large bold title, bold section
// headings and regular body text.
func Report(title string) []byte {
	body := func(y float64) Line {
		return Line{Text: "The quick brown fox jumps over the lazy dog again and again", Size: 11, X: 72, Y: y}
	}

	first := Letter(
		Line{Text: title, Size: 24, Bold: true, X: 72, Y: 740},
		Line{Text: "Background", Size: 16, Bold: true, X: 72, Y: 700},
	)
	for y := 680.0; y > 420; y -= 14 {
		first.Lines = append(first.Lines, body(y))
	}

	second := Letter(Line{Text: "Methods", Size: 16, Bold: true, X: 72, Y: 740})
	for y := 720.0; y > 460; y -= 14 {
		second.Lines = append(second.Lines, body(y))
	}
	second.Lines = append(second.Lines, Line{Text: "Page 2", Size: 9, X: 300, Y: 40})

	return Build(first, second)
}
