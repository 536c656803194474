package reader

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tsawler/outliner/layout"
	"github.com/tsawler/outliner/model"
	"github.com/tsawler/outliner/text"
)

const (
	// DefaultPageHeight is used when a page's size cannot be read (US Letter)
	DefaultPageHeight = 792.0
	// DefaultPageWidth is the matching US Letter width
	DefaultPageWidth = 612.0

	// forceBoldFlag is bit 19 of a font descriptor's Flags entry
	forceBoldFlag = 1 << 18
	// boldWeight is the lowest FontWeight treated as bold
	boldWeight = 700
)

func init() {
	// Page geometry lookups must not create pdfcpu's user config directory
	api.DisableConfigDir()
}

// Warning describes a recoverable problem with one page
type Warning struct {
	Page    int // 0-based page index
	Message string
}

// String formats the warning for logs
func (w Warning) String() string {
	return fmt.Sprintf("page %d: %s", w.Page, w.Message)
}

// Reader reads page layout from a PDF document
type Reader struct {
	name  string
	file  *os.File // set when the reader opened the file itself
	pdf   *pdf.Reader
	sizes []pageSize // from pdfcpu; nil when it could not read the file

	lineDetector *layout.LineDetector
	warnings     []Warning
}

type pageSize struct {
	width, height float64
}

// Open opens a PDF file and returns a Reader
func Open(filename string) (*Reader, error) {
	var (
		file *os.File
		pr   *pdf.Reader
	)
	err := safely(func() error {
		var openErr error
		file, pr, openErr = pdf.Open(filename)
		return openErr
	})
	if err != nil {
		if file != nil {
			file.Close()
		}
		return nil, fmt.Errorf("failed to open PDF %s: %w", filename, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	r := newReader(model.DocumentName(filename), pr)
	r.file = file
	r.sizes = readPageSizes(io.NewSectionReader(file, 0, info.Size()))
	return r, nil
}

// NewReader creates a Reader over an in-memory or already opened document.
// The caller keeps ownership of ra.
func NewReader(name string, ra io.ReaderAt, size int64) (*Reader, error) {
	var pr *pdf.Reader
	err := safely(func() error {
		var openErr error
		pr, openErr = pdf.NewReader(ra, size)
		return openErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF %s: %w", name, err)
	}

	r := newReader(name, pr)
	r.sizes = readPageSizes(io.NewSectionReader(ra, 0, size))
	return r, nil
}

func newReader(name string, pr *pdf.Reader) *Reader {
	return &Reader{
		name:         name,
		pdf:          pr,
		lineDetector: layout.NewLineDetector(),
	}
}

// Close closes the PDF file if the Reader opened it
func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// Name returns the document name
func (r *Reader) Name() string {
	return r.name
}

// PageCount returns the number of pages in the document
func (r *Reader) PageCount() int {
	return r.pdf.NumPage()
}

// Warnings returns the page problems recorded so far
func (r *Reader) Warnings() []Warning {
	return append([]Warning(nil), r.warnings...)
}

// PageBox returns the page area (0-based) in PDF user space. The origin is
// the lower-left corner of the page's MediaBox, which need not be (0, 0).
// Sizes come from pdfcpu when it could read the file, otherwise from the
// MediaBox, and default to US Letter.
func (r *Reader) PageBox(pageIndex int) model.BBox {
	var box model.BBox
	var ok bool
	_ = safely(func() error {
		box, ok = mediaBox(r.pdf.Page(pageIndex + 1).V)
		return nil
	})
	if !ok {
		box = model.BBox{}
	}

	if pageIndex >= 0 && pageIndex < len(r.sizes) && r.sizes[pageIndex].height > 0 {
		box.Width, box.Height = r.sizes[pageIndex].width, r.sizes[pageIndex].height
	}
	if box.IsEmpty() {
		box.Width, box.Height = DefaultPageWidth, DefaultPageHeight
	}
	return box
}

// PageSize returns the width and height of a page (0-based)
func (r *Reader) PageSize(pageIndex int) (width, height float64) {
	box := r.PageBox(pageIndex)
	return box.Width, box.Height
}

// Fragments extracts the positioned glyphs of a page (0-based), relative to
// the lower-left corner of the page box. A malformed content stream is
// reported as an error instead of a panic.
func (r *Reader) Fragments(pageIndex int) ([]text.TextFragment, error) {
	if pageIndex < 0 || pageIndex >= r.PageCount() {
		return nil, fmt.Errorf("page %d out of range [0, %d)", pageIndex, r.PageCount())
	}

	box := r.PageBox(pageIndex)
	var fragments []text.TextFragment
	err := safely(func() error {
		page := r.pdf.Page(pageIndex + 1)
		if page.V.IsNull() {
			return fmt.Errorf("page object missing")
		}

		bold := boldFonts(page)
		for _, t := range page.Content().Text {
			flags := 0
			if bold[t.Font] {
				flags |= model.FlagBold
			}
			fragments = append(fragments, text.TextFragment{
				Text:      t.S,
				X:         t.X - box.Left(),
				Y:         t.Y - box.Bottom(),
				Width:     t.W,
				Height:    t.FontSize,
				FontName:  t.Font,
				FontSize:  t.FontSize,
				FontFlags: flags,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", pageIndex, err)
	}
	return fragments, nil
}

// Lines extracts the text lines of a page (0-based), top to bottom
func (r *Reader) Lines(pageIndex int) ([]model.RawLine, error) {
	fragments, err := r.Fragments(pageIndex)
	if err != nil {
		return nil, err
	}
	_, height := r.PageSize(pageIndex)
	return r.lineDetector.Detect(fragments, pageIndex, height), nil
}

// Document reads the layout of the first maxPages pages (all pages when
// maxPages <= 0). A page that cannot be read contributes no lines and a
// warning; only cancellation of ctx is returned as an error.
func (r *Reader) Document(ctx context.Context, maxPages int) ([]model.Page, error) {
	count := r.PageCount()
	if maxPages > 0 && count > maxPages {
		count = maxPages
	}

	pages := make([]model.Page, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		width, height := r.PageSize(i)
		lines, err := r.Lines(i)
		if err != nil {
			r.warnings = append(r.warnings, Warning{Page: i, Message: err.Error()})
			lines = nil
		}

		pages = append(pages, model.Page{
			Index:  i,
			Width:  width,
			Height: height,
			Lines:  lines,
		})
	}
	return pages, nil
}

// safely runs fn and turns a panic inside the PDF libraries into an error
func safely(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed PDF: %v", rec)
		}
	}()
	return fn()
}

// readPageSizes asks pdfcpu for every page's MediaBox. It returns nil when
// pdfcpu cannot process the document.
func readPageSizes(rs io.ReadSeeker) []pageSize {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	var sizes []pageSize
	_ = safely(func() error {
		dims, err := api.PageDims(rs, conf)
		if err != nil {
			return err
		}
		sizes = make([]pageSize, len(dims))
		for i, d := range dims {
			sizes[i] = pageSize{width: d.Width, height: d.Height}
		}
		return nil
	})
	return sizes
}

// mediaBox returns a page's MediaBox, following /Parent for inherited boxes
func mediaBox(page pdf.Value) (model.BBox, bool) {
	for v, depth := page, 0; !v.IsNull() && depth < 32; v, depth = v.Key("Parent"), depth+1 {
		box := v.Key("MediaBox")
		if box.IsNull() {
			continue
		}
		if box.Kind() != pdf.Array || box.Len() != 4 {
			return model.BBox{}, false
		}

		var coords [4]float64
		for i := range coords {
			c := box.Index(i)
			switch c.Kind() {
			case pdf.Integer:
				coords[i] = float64(c.Int64())
			case pdf.Real:
				coords[i] = c.Float64()
			default:
				return model.BBox{}, false
			}
			if math.IsNaN(coords[i]) || math.IsInf(coords[i], 0) {
				return model.BBox{}, false
			}
		}
		return model.NewBBoxFromPoints(
			model.Point{X: coords[0], Y: coords[1]},
			model.Point{X: coords[2], Y: coords[3]},
		), true
	}
	return model.BBox{}, false
}

// boldFonts maps the base font names used on a page to whether their font
// descriptor declares a bold weight
func boldFonts(page pdf.Page) map[string]bool {
	bold := make(map[string]bool)
	for _, name := range page.Fonts() {
		f := page.Font(name)

		desc := f.V.Key("FontDescriptor")
		if desc.IsNull() {
			// Composite fonts keep the descriptor on the descendant font
			if descendants := f.V.Key("DescendantFonts"); descendants.Len() > 0 {
				desc = descendants.Index(0).Key("FontDescriptor")
			}
		}
		if desc.IsNull() {
			continue
		}

		weight := numeric(desc.Key("FontWeight"))
		flags := desc.Key("Flags").Int64()
		if weight >= boldWeight || flags&forceBoldFlag != 0 {
			bold[f.BaseFont()] = true
		}
	}
	return bold
}

func numeric(v pdf.Value) float64 {
	switch v.Kind() {
	case pdf.Integer:
		return float64(v.Int64())
	case pdf.Real:
		return v.Float64()
	}
	return 0
}
