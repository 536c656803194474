package export

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/outliner/model"
)

// HTML writes a <nav> element holding the title as <h1> and the outline as
// ordered lists nested by level. Each item carries its level and 0-based page
// as data attributes.
func HTML(w io.Writer, result model.Result) error {
	nav := element(atom.Nav, html.Attribute{Key: "class", Val: "outline"})

	h1 := element(atom.H1)
	h1.AppendChild(textNode(result.Title))
	nav.AppendChild(h1)

	if len(result.Outline) > 0 {
		nav.AppendChild(htmlList(result.Outline.Tree()))
	}

	if err := html.Render(w, nav); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func htmlList(nodes []model.OutlineNode) *html.Node {
	ol := element(atom.Ol)
	for _, n := range nodes {
		li := element(atom.Li,
			html.Attribute{Key: "data-level", Val: n.Entry.Level.String()},
			html.Attribute{Key: "data-page", Val: strconv.Itoa(n.Entry.Page)},
		)
		li.AppendChild(textNode(n.Entry.Text))
		if len(n.Children) > 0 {
			li.AppendChild(htmlList(n.Children))
		}
		ol.AppendChild(li)
	}
	return ol
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
