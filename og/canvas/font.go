package canvas

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/joeycatai/folio/og/layout"
)

// ErrNoFonts is returned when a FontSet is built without any font data.
var ErrNoFonts = errors.New("canvas: no fonts")

// Font is raw TrueType/OpenType data for one weight of a family.
type Font struct {
	Name   string
	Weight int
	Data   []byte
}

type face struct {
	name   string
	weight int
	font   *sfnt.Font
}

// FontSet resolves runes to glyphs across a small set of faces and
// implements layout.Measurer. It is not safe for concurrent use.
type FontSet struct {
	faces []*face
	buf   sfnt.Buffer
}

// NewFontSet parses fonts. At least one font is required.
func NewFontSet(fonts ...Font) (*FontSet, error) {
	if len(fonts) == 0 {
		return nil, ErrNoFonts
	}
	fs := &FontSet{}
	for _, f := range fonts {
		parsed, err := sfnt.Parse(f.Data)
		if err != nil {
			return nil, fmt.Errorf("canvas: parse font %s %d: %w", f.Name, f.Weight, err)
		}
		fs.faces = append(fs.faces, &face{name: f.Name, weight: f.Weight, font: parsed})
	}
	return fs, nil
}

// nearest returns faces ordered by distance from weight, closest first.
func (fs *FontSet) nearest(weight int) []*face {
	if weight == 0 {
		weight = 400
	}
	out := make([]*face, len(fs.faces))
	copy(out, fs.faces)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && dist(out[j].weight, weight) < dist(out[j-1].weight, weight); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func dist(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// glyph finds the first face, by weight preference, that maps r.
// Unmapped runes fall back to the preferred face's notdef glyph.
func (fs *FontSet) glyph(faces []*face, r rune) (*face, sfnt.GlyphIndex) {
	for _, f := range faces {
		idx, err := f.font.GlyphIndex(&fs.buf, r)
		if err == nil && idx != 0 {
			return f, idx
		}
	}
	return faces[0], 0
}

func ppem(size float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(size * 64))
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// placed is one positioned glyph of a run.
type placed struct {
	face  *face
	index sfnt.GlyphIndex
	x     float64
}

// shape positions the runes of text left to right starting at 0 and
// returns the glyphs plus the total advance.
func (fs *FontSet) shape(text string, st layout.TextStyle) ([]placed, float64) {
	faces := fs.nearest(st.Weight)
	size := ppem(st.Size)
	spacing := st.LetterSpacing * st.Size

	var out []placed
	x := 0.0
	var prev placed
	for i, r := range []rune(text) {
		f, idx := fs.glyph(faces, r)
		if i > 0 && prev.face == f {
			if k, err := f.font.Kern(&fs.buf, prev.index, idx, size, font.HintingNone); err == nil {
				x += fromFixed(k)
			}
		}
		prev = placed{face: f, index: idx, x: x}
		out = append(out, prev)
		adv, err := f.font.GlyphAdvance(&fs.buf, idx, size, font.HintingNone)
		if err == nil {
			x += fromFixed(adv)
		}
		x += spacing
	}
	return out, x
}

// Measure implements layout.Measurer.
func (fs *FontSet) Measure(text string, st layout.TextStyle) float64 {
	_, w := fs.shape(text, st)
	return w
}

// metrics returns the ascent and descent of the preferred face at size.
func (fs *FontSet) metrics(st layout.TextStyle) (ascent, descent float64) {
	f := fs.nearest(st.Weight)[0]
	m, err := f.font.Metrics(&fs.buf, ppem(st.Size), font.HintingNone)
	if err != nil {
		return st.Size * 0.8, st.Size * 0.2
	}
	return fromFixed(m.Ascent), fromFixed(m.Descent)
}

// appendGlyphs adds the outlines of text to p with the baseline origin
// at (x, baseline).
func (fs *FontSet) appendGlyphs(p *Path, text string, st layout.TextStyle, x, baseline float64) error {
	glyphs, _ := fs.shape(text, st)
	size := ppem(st.Size)
	for _, g := range glyphs {
		segs, err := g.face.font.LoadGlyph(&fs.buf, g.index, size, nil)
		if err != nil {
			return fmt.Errorf("canvas: load glyph %d from %s: %w", g.index, g.face.name, err)
		}
		ox := x + g.x
		pt := func(v fixed.Point26_6) (float64, float64) {
			return ox + fromFixed(v.X), baseline + fromFixed(v.Y)
		}
		open := false
		for _, s := range segs {
			switch s.Op {
			case sfnt.SegmentOpMoveTo:
				if open {
					p.Close()
				}
				p.MoveTo(pt(s.Args[0]))
				open = true
			case sfnt.SegmentOpLineTo:
				p.LineTo(pt(s.Args[0]))
			case sfnt.SegmentOpQuadTo:
				bx, by := pt(s.Args[0])
				cx, cy := pt(s.Args[1])
				p.QuadTo(bx, by, cx, cy)
			case sfnt.SegmentOpCubeTo:
				bx, by := pt(s.Args[0])
				cx, cy := pt(s.Args[1])
				dx, dy := pt(s.Args[2])
				p.CubeTo(bx, by, cx, cy, dx, dy)
			}
		}
		if open {
			p.Close()
		}
	}
	return nil
}
