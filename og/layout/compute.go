package layout

import (
	"math"
	"strings"
	"unicode"
)

// Measurer reports the advance width of text rendered with style.
type Measurer interface {
	Measure(text string, style TextStyle) float64
}

// Line is one wrapped line of a text leaf. Y is the top of the line box.
type Line struct {
	Text  string
	X, Y  float64
	Width float64
}

// Frame is a node with its computed border box in absolute coordinates.
type Frame struct {
	Node       *Node
	X, Y, W, H float64
	Lines      []Line
	Children   []*Frame
}

// Compute lays out root. A root without explicit Width/Height gets its
// intrinsic size.
func Compute(root *Node, m Measurer) *Frame {
	e := engine{m: m}
	w := root.Style.Width
	if w == 0 {
		w = math.Inf(1)
	}
	mw, mh := e.measure(root, w)
	if root.Style.Width == 0 {
		w = mw
	}
	h := root.Style.Height
	if h == 0 {
		h = mh
	}
	return e.place(root, 0, 0, w, h)
}

type engine struct {
	m Measurer
}

// measure returns the fit-content border-box size of n when at most
// avail pixels of width are available.
func (e *engine) measure(n *Node, avail float64) (w, h float64) {
	s := n.Style
	boxW := avail
	if s.Width > 0 {
		boxW = s.Width
	} else if s.MaxWidth > 0 && s.MaxWidth < boxW {
		boxW = s.MaxWidth
	}
	contentAvail := math.Max(boxW-s.Padding.horizontal(), 0)

	var cw, ch float64
	switch {
	case n.Text != "":
		for _, l := range e.wrap(n.Text, s.TextStyle(), contentAvail) {
			cw = math.Max(cw, l.width)
			ch += s.LineBoxHeight()
		}
	case s.Direction == Column:
		flow := inFlow(n.Children)
		for i, c := range flow {
			childW, childH := e.childSize(c, s.Align, contentAvail)
			cw = math.Max(cw, childW)
			ch += childH
			if i > 0 {
				ch += s.Gap
			}
		}
	default:
		for i, line := range e.rowLines(n, contentAvail) {
			cw = math.Max(cw, line.width)
			ch += line.height
			if i > 0 {
				ch += s.Gap
			}
		}
	}

	w = cw + s.Padding.horizontal()
	if s.Width > 0 {
		w = s.Width
	} else if w > boxW {
		w = boxW
	}
	h = ch + s.Padding.vertical()
	if s.Height > 0 {
		h = s.Height
	}
	return w, h
}

// childSize sizes a flow child of a column container.
func (e *engine) childSize(c *Node, align Align, avail float64) (w, h float64) {
	if align == AlignStretch && c.Style.Width == 0 {
		w = avail
		if c.Style.MaxWidth > 0 && c.Style.MaxWidth < w {
			w = c.Style.MaxWidth
		}
		_, h = e.measure(c, w)
		return w, h
	}
	w, _ = e.measure(c, avail)
	_, h = e.measure(c, w)
	return w, h
}

type rowItem struct {
	node *Node
	w, h float64
}

type rowLine struct {
	items         []rowItem
	width, height float64
}

// rowLines sizes the flow children of a row and breaks them into lines
// when the container wraps.
func (e *engine) rowLines(n *Node, avail float64) []rowLine {
	s := n.Style
	var lines []rowLine
	var cur rowLine
	for _, c := range inFlow(n.Children) {
		w, _ := e.measure(c, avail)
		_, h := e.measure(c, w)
		extra := w
		if len(cur.items) > 0 {
			extra += s.Gap
		}
		if s.Wrap && len(cur.items) > 0 && cur.width+extra > avail {
			lines = append(lines, cur)
			cur = rowLine{}
			extra = w
		}
		cur.items = append(cur.items, rowItem{node: c, w: w, h: h})
		cur.width += extra
		cur.height = math.Max(cur.height, h)
	}
	if len(cur.items) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

func inFlow(children []*Node) []*Node {
	out := make([]*Node, 0, len(children))
	for _, c := range children {
		if !c.Style.Absolute {
			out = append(out, c)
		}
	}
	return out
}

// place assigns n the border box (x, y, w, h) and lays out its subtree.
func (e *engine) place(n *Node, x, y, w, h float64) *Frame {
	s := n.Style
	f := &Frame{Node: n, X: x, Y: y, W: w, H: h}
	cx, cy := x+s.Padding.Left, y+s.Padding.Top
	cw := math.Max(w-s.Padding.horizontal(), 0)
	ch := math.Max(h-s.Padding.vertical(), 0)

	if n.Text != "" {
		for i, l := range e.wrap(n.Text, s.TextStyle(), cw) {
			f.Lines = append(f.Lines, Line{
				Text:  l.text,
				X:     cx,
				Y:     cy + float64(i)*s.LineBoxHeight(),
				Width: l.width,
			})
		}
		return f
	}

	for _, c := range n.Children {
		if c.Style.Absolute {
			f.Children = append(f.Children, e.placeAbsolute(c, x, y, w))
		}
	}
	if s.Direction == Column {
		f.Children = append(f.Children, e.placeColumn(n, cx, cy, cw, ch)...)
	} else {
		f.Children = append(f.Children, e.placeRow(n, cx, cy, cw, ch)...)
	}
	return f
}

func (e *engine) placeAbsolute(c *Node, px, py, pw float64) *Frame {
	s := c.Style
	w := s.Width
	if w == 0 {
		w = math.Max(pw-s.Inset.Left-s.Inset.Right, 0)
	}
	h := s.Height
	if h == 0 {
		_, h = e.measure(c, w)
	}
	return e.place(c, px+s.Inset.Left, py+s.Inset.Top, w, h)
}

func (e *engine) placeColumn(n *Node, cx, cy, cw, ch float64) []*Frame {
	s := n.Style
	flow := inFlow(n.Children)
	if len(flow) == 0 {
		return nil
	}
	widths := make([]float64, len(flow))
	heights := make([]float64, len(flow))
	used := s.Gap * float64(len(flow)-1)
	grow := 0.0
	for i, c := range flow {
		widths[i], heights[i] = e.childSize(c, s.Align, cw)
		used += heights[i]
		grow += c.Style.Grow
	}
	free := math.Max(ch-used, 0)
	if free > 0 && grow > 0 {
		for i, c := range flow {
			heights[i] += free * c.Style.Grow / grow
		}
		free = 0
	}

	offset, spacing := distribute(s.Justify, free, len(flow))
	pos := cy + offset
	frames := make([]*Frame, 0, len(flow))
	for i, c := range flow {
		x := cx
		if s.Align == AlignCenter {
			x = cx + (cw-widths[i])/2
		}
		frames = append(frames, e.place(c, x, pos, widths[i], heights[i]))
		pos += heights[i] + s.Gap + spacing
	}
	return frames
}

func (e *engine) placeRow(n *Node, cx, cy, cw, ch float64) []*Frame {
	s := n.Style
	var frames []*Frame
	top := cy
	lines := e.rowLines(n, cw)
	// A single-line row spans the container's cross size.
	if !s.Wrap && len(lines) == 1 {
		lines[0].height = math.Max(lines[0].height, ch)
	}
	for _, line := range lines {
		offset, spacing := distribute(s.Justify, math.Max(cw-line.width, 0), len(line.items))
		pos := cx + offset
		for _, it := range line.items {
			y, h := top, it.h
			switch s.Align {
			case AlignStretch:
				if it.node.Style.Height == 0 {
					h = line.height
				}
			case AlignCenter:
				y = top + (line.height-it.h)/2
			}
			frames = append(frames, e.place(it.node, pos, y, it.w, h))
			pos += it.w + s.Gap + spacing
		}
		top += line.height + s.Gap
	}
	return frames
}

// distribute returns the leading offset and the extra spacing between
// items for the given justification.
func distribute(j Justify, free float64, count int) (offset, spacing float64) {
	switch j {
	case JustifyCenter:
		return free / 2, 0
	case JustifySpaceBetween:
		if count > 1 {
			return 0, free / float64(count-1)
		}
	}
	return 0, 0
}

type wrappedLine struct {
	text  string
	width float64
}

// wrap breaks text greedily at spaces and between CJK characters.
// Whitespace collapses to single spaces. A token wider than maxW is
// left on its own line.
func (e *engine) wrap(text string, st TextStyle, maxW float64) []wrappedLine {
	var lines []wrappedLine
	var cur strings.Builder
	curW := 0.0
	pendingSpace := false
	for _, tok := range tokenize(text) {
		if tok == " " {
			pendingSpace = cur.Len() > 0
			continue
		}
		candidate := cur.String()
		if pendingSpace {
			candidate += " "
		}
		candidate += tok
		w := e.m.Measure(candidate, st)
		if cur.Len() == 0 || w <= maxW {
			cur.Reset()
			cur.WriteString(candidate)
			curW = w
			pendingSpace = false
			continue
		}
		lines = append(lines, wrappedLine{cur.String(), curW})
		cur.Reset()
		cur.WriteString(tok)
		curW = e.m.Measure(tok, st)
		pendingSpace = false
	}
	if cur.Len() > 0 {
		lines = append(lines, wrappedLine{cur.String(), curW})
	}
	return lines
}

// tokenize splits text into words, single CJK characters and " ".
func tokenize(text string) []string {
	var toks []string
	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			toks = append(toks, word.String())
			word.Reset()
		}
	}
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush()
			if len(toks) == 0 || toks[len(toks)-1] != " " {
				toks = append(toks, " ")
			}
		case isBreakable(r):
			flush()
			toks = append(toks, string(r))
		default:
			word.WriteRune(r)
		}
	}
	flush()
	return toks
}

func isBreakable(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) ||
		(r >= 0x3000 && r <= 0x303F) || (r >= 0xFF00 && r <= 0xFFEF)
}
