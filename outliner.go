// Package outliner provides a fluent API for inferring the title and the
// H1-H3 heading outline of a PDF from its typography.
//
// Basic usage:
//
//	result := outliner.Open("report.pdf").Extract(ctx)
//	if result.Degraded() {
//	    log.Println("could not read document:", result.Err)
//	}
//	fmt.Println(result.Title)
//
// With options:
//
//	result := outliner.Open("report.pdf").
//	    MaxItems(10).
//	    MaxPages(5).
//	    Extract(ctx)
//
// For advanced use cases, the lower-level reader and layout packages are
// also available.
package outliner

import (
	"github.com/tsawler/outliner/model"
	"github.com/tsawler/outliner/reader"
)

// Warning describes a page that could not be read
type Warning = reader.Warning

// Open returns an Extractor for the PDF at filename. The file is only opened
// by a terminal operation such as Extract, which also closes it.
//
// Example:
//
//	result := outliner.Open("document.pdf").Extract(ctx)
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		name:     model.DocumentName(filename),
		options:  defaultOptions(),
	}
}

// FromBytes returns an Extractor for an in-memory document, such as an
// upload. name is used as the fallback title.
//
// Example:
//
//	result := outliner.FromBytes("report", data).Extract(ctx)
func FromBytes(name string, data []byte) *Extractor {
	return &Extractor{
		name:    name,
		data:    data,
		inMem:   true,
		options: defaultOptions(),
	}
}

// FromReader creates an Extractor from an already-opened reader.Reader.
// The caller is responsible for closing the reader.
func FromReader(r *reader.Reader) *Extractor {
	return &Extractor{
		name:         r.Name(),
		reader:       r,
		readerOpened: true,
		options:      defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := outliner.Must(outliner.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
