package canvas

import "math"

type segOp uint8

const (
	opMove segOp = iota
	opLine
	opQuad
	opCube
	opClose
)

type point struct{ x, y float64 }

type segment struct {
	op  segOp
	pts [3]point
}

// Path is a sequence of contours in canvas pixels, y pointing down.
// Overlapping contours combine with the non-zero rule.
type Path struct {
	segs []segment
}

func (p *Path) MoveTo(x, y float64) {
	p.segs = append(p.segs, segment{op: opMove, pts: [3]point{{x, y}}})
}

func (p *Path) LineTo(x, y float64) {
	p.segs = append(p.segs, segment{op: opLine, pts: [3]point{{x, y}}})
}

func (p *Path) QuadTo(bx, by, cx, cy float64) {
	p.segs = append(p.segs, segment{op: opQuad, pts: [3]point{{bx, by}, {cx, cy}}})
}

func (p *Path) CubeTo(bx, by, cx, cy, dx, dy float64) {
	p.segs = append(p.segs, segment{op: opCube, pts: [3]point{{bx, by}, {cx, cy}, {dx, dy}}})
}

func (p *Path) Close() {
	p.segs = append(p.segs, segment{op: opClose})
}

// Empty reports whether the path has no drawing segments.
func (p *Path) Empty() bool {
	return len(p.segs) == 0
}

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

type corner struct {
	in, c, out point
}

// RoundRect adds a rectangle with corner radius r, clamped to half the
// shorter side. Clockwise unless reverse is set; a reversed contour
// inside a clockwise one cuts a hole.
func (p *Path) RoundRect(x, y, w, h, r float64, reverse bool) {
	if w <= 0 || h <= 0 {
		return
	}
	r = math.Max(0, math.Min(r, math.Min(w, h)/2))
	cs := []corner{
		{point{x, y + r}, point{x, y}, point{x + r, y}},
		{point{x + w - r, y}, point{x + w, y}, point{x + w, y + r}},
		{point{x + w, y + h - r}, point{x + w, y + h}, point{x + w - r, y + h}},
		{point{x + r, y + h}, point{x, y + h}, point{x, y + h - r}},
	}
	if reverse {
		for i, j := 0, len(cs)-1; i < j; i, j = i+1, j-1 {
			cs[i], cs[j] = cs[j], cs[i]
		}
		for i := range cs {
			cs[i].in, cs[i].out = cs[i].out, cs[i].in
		}
	}
	p.MoveTo(cs[0].out.x, cs[0].out.y)
	for i := 1; i <= len(cs); i++ {
		k := cs[i%len(cs)]
		p.LineTo(k.in.x, k.in.y)
		if r > 0 {
			p.arc(k)
		}
	}
	p.Close()
}

func (p *Path) arc(k corner) {
	p.CubeTo(
		k.in.x+kappa*(k.c.x-k.in.x), k.in.y+kappa*(k.c.y-k.in.y),
		k.out.x+kappa*(k.c.x-k.out.x), k.out.y+kappa*(k.c.y-k.out.y),
		k.out.x, k.out.y,
	)
}

// bounds returns the control-point bounding box, which contains the
// curve.
func (p *Path) bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, s := range p.segs {
		n := 0
		switch s.op {
		case opMove, opLine:
			n = 1
		case opQuad:
			n = 2
		case opCube:
			n = 3
		}
		for _, pt := range s.pts[:n] {
			minX, maxX = math.Min(minX, pt.x), math.Max(maxX, pt.x)
			minY, maxY = math.Min(minY, pt.y), math.Max(maxY, pt.y)
		}
	}
	return minX, minY, maxX, maxY
}
