package model

import (
	"path/filepath"
	"strings"
)

// Status tells a complete extraction apart from a degraded one.
type Status int

const (
	// StatusSuccess means the document was read and analysed. The outline
	// may still be empty.
	StatusSuccess Status = iota
	// StatusDegraded means the document could not be read; the title is the
	// document name and the outline is empty.
	StatusDegraded
)

// String returns a string representation of the status
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Result is the outcome of extracting one document's outline.
type Result struct {
	Status Status `json:"-"`

	// Name is the document name used as the fallback title
	Name string `json:"-"`

	Title   string  `json:"title"`
	Outline Outline `json:"outline"`

	// Err is the cause of a degraded result
	Err error `json:"-"`
}

// Success builds a successful result. An empty title falls back to name.
func Success(name, title string, outline Outline) Result {
	if title == "" {
		title = name
	}
	if outline == nil {
		outline = Outline{}
	}
	return Result{
		Status:  StatusSuccess,
		Name:    name,
		Title:   title,
		Outline: outline,
	}
}

// Degraded builds the minimal result for a document that could not be read.
func Degraded(name string, err error) Result {
	return Result{
		Status:  StatusDegraded,
		Name:    name,
		Title:   name,
		Outline: Outline{},
		Err:     err,
	}
}

// Degraded reports whether the result is a degraded one.
func (r Result) Degraded() bool {
	return r.Status == StatusDegraded
}

// DocumentName derives a document name from a path: the base name without
// its extension.
func DocumentName(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
