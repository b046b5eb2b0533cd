package canvas

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"

	"github.com/joeycatai/folio/og/layout"
)

// Rasterize paints the scene into an RGBA image width pixels wide. The
// height follows the scene's aspect ratio. A width of 0 keeps the
// scene's own size.
func (s *Scene) Rasterize(width int) *image.RGBA {
	if width <= 0 {
		width = int(math.Round(s.Width))
	}
	scale := float64(width) / s.Width
	height := int(math.Round(s.Height * scale))
	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	z := vector.NewRasterizer(width, height)
	for _, op := range s.Ops {
		minX, minY, maxX, maxY := op.Path.bounds()
		r := image.Rect(
			int(math.Floor(minX*scale)), int(math.Floor(minY*scale)),
			int(math.Ceil(maxX*scale)), int(math.Ceil(maxY*scale)),
		).Intersect(dst.Bounds())
		if r.Empty() {
			continue
		}
		z.Reset(r.Dx(), r.Dy())
		replay(z, op.Path, scale, float64(r.Min.X), float64(r.Min.Y))
		z.Draw(dst, r, op.Fill.source(scale), r.Min)
	}
	return dst
}

// replay feeds p to z, scaled and shifted into z's local coordinates.
func replay(z *vector.Rasterizer, p *Path, scale, dx, dy float64) {
	tx := func(pt point) (float32, float32) {
		return float32(pt.x*scale - dx), float32(pt.y*scale - dy)
	}
	for _, s := range p.segs {
		switch s.op {
		case opMove:
			z.MoveTo(tx(s.pts[0]))
		case opLine:
			z.LineTo(tx(s.pts[0]))
		case opQuad:
			bx, by := tx(s.pts[0])
			cx, cy := tx(s.pts[1])
			z.QuadTo(bx, by, cx, cy)
		case opCube:
			bx, by := tx(s.pts[0])
			cx, cy := tx(s.pts[1])
			ex, ey := tx(s.pts[2])
			z.CubeTo(bx, by, cx, cy, ex, ey)
		case opClose:
			z.ClosePath()
		}
	}
}

func (f Fill) source(scale float64) image.Image {
	if f.Gradient == nil {
		return image.NewUniform(f.Color)
	}
	return &linearGradient{x0: f.X0 * scale, x1: f.X1 * scale, g: *f.Gradient}
}

// linearGradient is an unbounded image whose color varies along x.
type linearGradient struct {
	x0, x1 float64
	g      layout.Gradient
}

func (l *linearGradient) ColorModel() color.Model { return color.NRGBAModel }

func (l *linearGradient) Bounds() image.Rectangle {
	return image.Rect(-1e9, -1e9, 1e9, 1e9)
}

func (l *linearGradient) At(x, _ int) color.Color {
	t := 0.0
	if l.x1 > l.x0 {
		t = (float64(x) + 0.5 - l.x0) / (l.x1 - l.x0)
	}
	t = math.Max(0, math.Min(1, t))
	lerp := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
	}
	return color.NRGBA{
		R: lerp(l.g.From.R, l.g.To.R),
		G: lerp(l.g.From.G, l.g.To.G),
		B: lerp(l.g.From.B, l.g.To.B),
		A: lerp(l.g.From.A, l.g.To.A),
	}
}

// Render lays out root with fonts and rasterizes it at width pixels.
func Render(root *layout.Node, fonts []Font, width int) (*image.RGBA, error) {
	fs, err := NewFontSet(fonts...)
	if err != nil {
		return nil, err
	}
	scene, err := Draw(layout.Compute(root, fs), fs)
	if err != nil {
		return nil, err
	}
	return scene.Rasterize(width), nil
}
