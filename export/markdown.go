package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tsawler/outliner/model"
)

// markdownEscaper escapes characters that would start inline markup
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
)

// Markdown writes the title as a level-one heading followed by the outline
// as a bullet list nested by level. Page numbers are shown 1-based.
func Markdown(w io.Writer, result model.Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n", markdownEscaper.Replace(result.Title))
	if len(result.Outline) > 0 {
		bw.WriteString("\n")
		writeMarkdownNodes(bw, result.Outline.Tree())
	}
	return bw.Flush()
}

func writeMarkdownNodes(w *bufio.Writer, nodes []model.OutlineNode) {
	for _, n := range nodes {
		fmt.Fprintf(w, "%s- %s (p. %d)\n",
			strings.Repeat("  ", n.Depth),
			markdownEscaper.Replace(n.Entry.Text),
			n.Entry.Page+1)
		writeMarkdownNodes(w, n.Children)
	}
}
