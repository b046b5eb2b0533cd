// Package layout describes a declarative box tree (a small subset of CSS
// flexbox) and computes absolute positions for it.
package layout

import "image/color"

// Direction is the main axis of a flex container.
type Direction int

const (
	Row Direction = iota
	Column
)

// Justify distributes free space along the main axis.
type Justify int

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifySpaceBetween
)

// Align places children on the cross axis.
type Align int

const (
	AlignStretch Align = iota
	AlignStart
	AlignCenter
)

// Edges holds per-side lengths in pixels.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// Uniform returns Edges with v on every side.
func Uniform(v float64) Edges { return Edges{v, v, v, v} }

// Symmetric returns Edges with vertical v and horizontal h.
func Symmetric(v, h float64) Edges { return Edges{v, h, v, h} }

func (e Edges) horizontal() float64 { return e.Left + e.Right }
func (e Edges) vertical() float64   { return e.Top + e.Bottom }

// Gradient is a left-to-right linear gradient between two colors.
type Gradient struct {
	From, To color.NRGBA
}

// Style is the subset of CSS a Node understands. Zero values mean "auto"
// or "none".
type Style struct {
	Width, Height float64
	MaxWidth      float64
	Padding       Edges

	Direction Direction
	Justify   Justify
	Align     Align
	Gap       float64
	Grow      float64
	Wrap      bool

	// Absolute nodes are taken out of flow and placed at Inset within the
	// parent's border box. Inset.Right is honoured only when Width is 0.
	Absolute bool
	Inset    Edges

	Background   color.NRGBA
	Gradient     *Gradient
	BorderWidth  float64
	BorderColor  color.NRGBA
	BorderRadius float64

	Color         color.NRGBA
	FontSize      float64
	FontWeight    int
	LineHeight    float64 // multiple of FontSize; 0 means 1.2
	LetterSpacing float64 // em
}

// Node is one element of the tree. A node with non-empty Text is a text
// leaf and its Children are ignored.
type Node struct {
	Name     string
	Style    Style
	Text     string
	Children []*Node
}

// Box creates a container node.
func Box(name string, style Style, children ...*Node) *Node {
	return &Node{Name: name, Style: style, Children: children}
}

// Text creates a text leaf.
func Text(name string, style Style, text string) *Node {
	return &Node{Name: name, Style: style, Text: text}
}

// Walk visits n and its descendants depth first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first node named name, or nil.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) {
		if found == nil && c.Name == name {
			found = c
		}
	})
	return found
}

// TextStyle is what a Measurer needs to size a run of text.
type TextStyle struct {
	Size          float64
	Weight        int
	LetterSpacing float64 // em
}

// TextStyle extracts the font parameters of s.
func (s Style) TextStyle() TextStyle {
	return TextStyle{Size: s.FontSize, Weight: s.FontWeight, LetterSpacing: s.LetterSpacing}
}

// LineBoxHeight is the height in pixels of one line of text.
func (s Style) LineBoxHeight() float64 {
	lh := s.LineHeight
	if lh == 0 {
		lh = 1.2
	}
	return s.FontSize * lh
}
