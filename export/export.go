// Package export writes extraction results as JSON records, Markdown tables
// of contents, HTML navigation and terminal trees.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tsawler/outliner/model"
)

// Format defines the available export formats
type Format int

const (
	// FormatJSON is the persisted record: {"title": ..., "outline": [...]}
	FormatJSON Format = iota
	// FormatMarkdown is a heading followed by a nested bullet list
	FormatMarkdown
	// FormatHTML is a <nav> element with nested ordered lists
	FormatHTML
	// FormatTree is an indented tree for terminals
	FormatTree
)

// String returns the name used on the command line
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMarkdown:
		return "markdown"
	case FormatHTML:
		return "html"
	case FormatTree:
		return "tree"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (f Format) FileExtension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	default:
		return ".txt"
	}
}

// ContentType returns the MIME type served for this format
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Formats lists every format in declaration order
func Formats() []Format {
	return []Format{FormatJSON, FormatMarkdown, FormatHTML, FormatTree}
}

// FormatNames returns the names of every format, comma separated
func FormatNames() string {
	names := make([]string, 0, 4)
	for _, f := range Formats() {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}

// ParseFormat parses a format name. "md" is accepted for Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "tree":
		return FormatTree, nil
	}
	return FormatJSON, fmt.Errorf("unknown format %q (want one of %s)", s, FormatNames())
}

// Set implements pflag.Value so a Format can be bound to a flag directly
func (f *Format) Set(s string) error {
	parsed, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Type implements pflag.Value
func (f *Format) Type() string {
	return "format"
}

// Write serializes result in the given format. The tree format uses
// DefaultTreeOptions.
func Write(w io.Writer, f Format, result model.Result) error {
	switch f {
	case FormatJSON:
		return JSON(w, result)
	case FormatMarkdown:
		return Markdown(w, result)
	case FormatHTML:
		return HTML(w, result)
	case FormatTree:
		return Tree(w, result, DefaultTreeOptions())
	default:
		return fmt.Errorf("unsupported export format: %s", f)
	}
}

// ToString serializes result into a string
func ToString(f Format, result model.Result) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, f, result); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile serializes result into filename, replacing any existing file
func WriteFile(filename string, f Format, result model.Result) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Write(file, f, result); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
