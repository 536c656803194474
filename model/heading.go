package model

import (
	"fmt"
	"strings"
)

// HeadingLevel represents the hierarchical level of a heading (H1-H3)
type HeadingLevel int

const (
	HeadingLevelUnknown HeadingLevel = iota
	H1                               // Title or chapter
	H2                               // Major section
	H3                               // Subsection and recovered headings
)

// String returns the label used in persisted outlines ("H1", "H2", "H3")
func (l HeadingLevel) String() string {
	switch l {
	case H1:
		return "H1"
	case H2:
		return "H2"
	case H3:
		return "H3"
	default:
		return "unknown"
	}
}

// Valid reports whether l is one of H1, H2 or H3.
func (l HeadingLevel) Valid() bool {
	return l >= H1 && l <= H3
}

// Rank orders levels for presentation: H1 < H2 < H3 < unknown.
func (l HeadingLevel) Rank() int {
	if l.Valid() {
		return int(l) - 1
	}
	return 99
}

// MarshalText implements encoding.TextMarshaler.
func (l HeadingLevel) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid heading level %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *HeadingLevel) UnmarshalText(b []byte) error {
	level, err := ParseHeadingLevel(string(b))
	if err != nil {
		return err
	}
	*l = level
	return nil
}

// ParseHeadingLevel parses "H1".."H3" (case-insensitive).
func ParseHeadingLevel(s string) (HeadingLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "H1":
		return H1, nil
	case "H2":
		return H2, nil
	case "H3":
		return H3, nil
	}
	return HeadingLevelUnknown, fmt.Errorf("unknown heading level %q", s)
}

// HeadingEntry is a detected heading. Only Level, Text and Page are persisted.
type HeadingEntry struct {
	Level HeadingLevel `json:"level"`
	Text  string       `json:"text"`

	// Page is the 0-based page index
	Page int `json:"page"`

	// Confidence is the additive heading-likelihood score
	Confidence float64 `json:"-"`

	// Top is the distance of the line from the top edge of its page
	Top float64 `json:"-"`
}

// Outline is an ordered, deduplicated list of headings.
type Outline []HeadingEntry

// Len returns the number of entries
func (o Outline) Len() int {
	return len(o)
}

// AtLevel returns all entries at a specific level
func (o Outline) AtLevel(level HeadingLevel) []HeadingEntry {
	var result []HeadingEntry
	for _, h := range o {
		if h.Level == level {
			result = append(result, h)
		}
	}
	return result
}

// OnPage returns all entries on a 0-based page
func (o Outline) OnPage(page int) []HeadingEntry {
	var result []HeadingEntry
	for _, h := range o {
		if h.Page == page {
			result = append(result, h)
		}
	}
	return result
}

// OutlineNode is an entry of the nested outline returned by Tree.
type OutlineNode struct {
	Entry    HeadingEntry
	Children []OutlineNode

	// Depth is the nesting depth (0 = top level)
	Depth int
}

// Tree nests the outline by level: every entry becomes a child of the closest
// preceding entry with a lower level rank.
func (o Outline) Tree() []OutlineNode {
	if len(o) == 0 {
		return nil
	}

	var roots []OutlineNode
	// path holds index paths into the tree, one per open ancestor
	var path [][]int

	nodeAt := func(p []int) *OutlineNode {
		n := &roots[p[0]]
		for _, i := range p[1:] {
			n = &n.Children[i]
		}
		return n
	}

	for _, h := range o {
		for len(path) > 0 && nodeAt(path[len(path)-1]).Entry.Level.Rank() >= h.Level.Rank() {
			path = path[:len(path)-1]
		}

		node := OutlineNode{Entry: h, Depth: len(path)}
		if len(path) == 0 {
			roots = append(roots, node)
			path = append(path, []int{len(roots) - 1})
			continue
		}

		parentPath := path[len(path)-1]
		parent := nodeAt(parentPath)
		parent.Children = append(parent.Children, node)

		childPath := make([]int, len(parentPath)+1)
		copy(childPath, parentPath)
		childPath[len(parentPath)] = len(parent.Children) - 1
		path = append(path, childPath)
	}

	return roots
}
