package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/tsawler/outliner/model"
)

// TreeOptions controls terminal tree rendering
type TreeOptions struct {
	// Width is the display width lines are truncated to; 0 disables
	// truncation
	Width int

	// Color enables ANSI colors per heading level
	Color bool

	// ShowPages appends the 1-based page number to each entry
	ShowPages bool
}

// DefaultTreeOptions returns uncolored output with page numbers and no width
// limit
func DefaultTreeOptions() TreeOptions {
	return TreeOptions{ShowPages: true}
}

const ellipsis = "…"

// treePalette holds the colors used for the title and each level
type treePalette struct {
	title, page, branch *color.Color
	levels              map[model.HeadingLevel]*color.Color
}

func newTreePalette(enabled bool) treePalette {
	p := treePalette{
		title:  color.New(color.Bold),
		page:   color.New(color.Faint),
		branch: color.New(color.FgHiBlack),
		levels: map[model.HeadingLevel]*color.Color{
			model.H1: color.New(color.FgCyan, color.Bold),
			model.H2: color.New(color.FgGreen),
			model.H3: color.New(color.FgYellow),
		},
	}
	all := []*color.Color{p.title, p.page, p.branch}
	for _, c := range p.levels {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p treePalette) level(l model.HeadingLevel) *color.Color {
	if c, ok := p.levels[l]; ok {
		return c
	}
	return p.branch
}

// Tree writes the title followed by the outline as a box-drawn tree
func Tree(w io.Writer, result model.Result, opts TreeOptions) error {
	bw := bufio.NewWriter(w)
	palette := newTreePalette(opts.Color)

	fmt.Fprintln(bw, palette.title.Sprint(truncate(result.Title, opts.Width)))
	if len(result.Outline) == 0 {
		fmt.Fprintln(bw, palette.branch.Sprint("(no headings)"))
		return bw.Flush()
	}

	writeTreeNodes(bw, result.Outline.Tree(), "", opts, palette)
	return bw.Flush()
}

func writeTreeNodes(w *bufio.Writer, nodes []model.OutlineNode, prefix string, opts TreeOptions, palette treePalette) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		branch, childPrefix := "├── ", "│   "
		if last {
			branch, childPrefix = "└── ", "    "
		}

		suffix := ""
		if opts.ShowPages {
			suffix = fmt.Sprintf("  p.%d", n.Entry.Page+1)
		}

		label := n.Entry.Text
		if opts.Width > 0 {
			used := runewidth.StringWidth(prefix+branch) + runewidth.StringWidth(suffix)
			label = truncate(label, max(opts.Width-used, runewidth.StringWidth(ellipsis)))
		}

		fmt.Fprintf(w, "%s%s%s\n",
			palette.branch.Sprint(prefix+branch),
			palette.level(n.Entry.Level).Sprint(label),
			palette.page.Sprint(suffix))

		writeTreeNodes(w, n.Children, prefix+childPrefix, opts, palette)
	}
}

// truncate shortens s to width display cells, ending in an ellipsis when cut
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}
