// Package canvas turns a computed layout into vector paths and rasterizes
// them. Text is drawn from glyph outlines, so the output does not depend
// on any system font.
package canvas

import (
	"image/color"

	"github.com/joeycatai/folio/og/layout"
)

// Fill paints a path with a solid color or, when Gradient is set, a
// horizontal gradient spanning X0..X1.
type Fill struct {
	Color    color.NRGBA
	Gradient *layout.Gradient
	X0, X1   float64
}

// Op is one filled path. Ops are painted in order.
type Op struct {
	Name string
	Path *Path
	Fill Fill
}

// Scene is a resolution-independent drawing of a card.
type Scene struct {
	Width, Height float64
	Ops           []Op
}

// Draw converts a computed frame tree into a scene. Boxes paint their
// background, then their border, then their text or children.
func Draw(root *layout.Frame, fs *FontSet) (*Scene, error) {
	s := &Scene{Width: root.W, Height: root.H}
	if err := s.drawFrame(root, fs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scene) drawFrame(f *layout.Frame, fs *FontSet) error {
	st := f.Node.Style
	r := st.BorderRadius

	switch {
	case st.Gradient != nil:
		p := &Path{}
		p.RoundRect(f.X, f.Y, f.W, f.H, r, false)
		s.add(f.Node.Name, p, Fill{Gradient: st.Gradient, X0: f.X, X1: f.X + f.W})
	case st.Background.A > 0:
		p := &Path{}
		p.RoundRect(f.X, f.Y, f.W, f.H, r, false)
		s.add(f.Node.Name, p, Fill{Color: st.Background})
	}

	if bw := st.BorderWidth; bw > 0 && st.BorderColor.A > 0 {
		p := &Path{}
		p.RoundRect(f.X, f.Y, f.W, f.H, r, false)
		p.RoundRect(f.X+bw, f.Y+bw, f.W-2*bw, f.H-2*bw, r-bw, true)
		s.add(f.Node.Name+".border", p, Fill{Color: st.BorderColor})
	}

	if len(f.Lines) > 0 {
		ts := st.TextStyle()
		asc, desc := fs.metrics(ts)
		lh := st.LineBoxHeight()
		p := &Path{}
		for _, l := range f.Lines {
			baseline := l.Y + (lh-(asc+desc))/2 + asc
			if err := fs.appendGlyphs(p, l.Text, ts, l.X, baseline); err != nil {
				return err
			}
		}
		s.add(f.Node.Name+".text", p, Fill{Color: st.Color})
	}

	for _, c := range f.Children {
		if err := s.drawFrame(c, fs); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) add(name string, p *Path, fill Fill) {
	if p.Empty() {
		return
	}
	s.Ops = append(s.Ops, Op{Name: name, Path: p, Fill: fill})
}
