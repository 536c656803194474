// Package format provides document format detection for outliner.
package format

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format represents a document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// ODT indicates an OpenDocument Text (.odt) document.
	ODT
	// XLSX indicates a Microsoft Excel (.xlsx) document.
	XLSX
	// PPTX indicates a Microsoft PowerPoint (.pptx) document.
	PPTX
	// HTML indicates an HTML document.
	HTML
	// TXT indicates a plain text document.
	TXT
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case DOCX:
		return "DOCX"
	case ODT:
		return "ODT"
	case XLSX:
		return "XLSX"
	case PPTX:
		return "PPTX"
	case HTML:
		return "HTML"
	case TXT:
		return "TXT"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case DOCX:
		return ".docx"
	case ODT:
		return ".odt"
	case XLSX:
		return ".xlsx"
	case PPTX:
		return ".pptx"
	case HTML:
		return ".html"
	case TXT:
		return ".txt"
	default:
		return ""
	}
}

// Supported reports whether outlines can be extracted from the format. Only
// PDF carries the page layout the heading heuristics need.
func (f Format) Supported() bool {
	return f == PDF
}

// extensions maps lowercase file extensions to formats
var extensions = map[string]Format{
	".pdf":  PDF,
	".docx": DOCX,
	".doc":  DOCX,
	".odt":  ODT,
	".xlsx": XLSX,
	".xls":  XLSX,
	".pptx": PPTX,
	".ppt":  PPTX,
	".html": HTML,
	".htm":  HTML,
	".txt":  TXT,
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	if f, ok := extensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return f
	}
	return Unknown
}

// DocumentExtensions returns every known document extension without the
// leading dot, sorted longest first so alternations prefer the longer match.
func DocumentExtensions() []string {
	return []string{"docx", "xlsx", "pptx", "html", "pdf", "doc", "odt", "xls", "ppt", "htm", "txt"}
}

// pdfMagic is the header every PDF file starts with
var pdfMagic = []byte("%PDF")

// DetectFromMagic checks file magic bytes to determine format.
// Only PDF has a reliable signature among the supported formats; anything else
// is Unknown.
func DetectFromMagic(data []byte) Format {
	// Some producers emit a few junk bytes before the header
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	if bytes.Contains(head, pdfMagic) {
		return PDF
	}
	return Unknown
}
