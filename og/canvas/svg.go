package canvas

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
)

// WriteSVG writes the scene as a standalone SVG document. Text is
// emitted as outlines so the file renders identically everywhere.
func (s *Scene) WriteSVG(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(s.Width), num(s.Height), num(s.Width), num(s.Height))

	grads := 0
	for _, op := range s.Ops {
		fill := hex(op.Fill.Color)
		opacity := op.Fill.Color.A
		if g := op.Fill.Gradient; g != nil {
			grads++
			id := "g" + strconv.Itoa(grads)
			fmt.Fprintf(bw, `<defs><linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="%s" y1="0" x2="%s" y2="0">`,
				id, num(op.Fill.X0), num(op.Fill.X1))
			fmt.Fprintf(bw, `<stop offset="0" stop-color="%s" stop-opacity="%s"/>`, hex(g.From), alpha(g.From.A))
			fmt.Fprintf(bw, `<stop offset="1" stop-color="%s" stop-opacity="%s"/>`, hex(g.To), alpha(g.To.A))
			bw.WriteString("</linearGradient></defs>\n")
			fill = "url(#" + id + ")"
			opacity = 0xff
		}
		bw.WriteString(`<path d="`)
		writePathData(bw, op.Path)
		fmt.Fprintf(bw, `" fill="%s"`, fill)
		if opacity != 0xff {
			fmt.Fprintf(bw, ` fill-opacity="%s"`, alpha(opacity))
		}
		bw.WriteString("/>\n")
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func writePathData(w *bufio.Writer, p *Path) {
	for i, s := range p.segs {
		if i > 0 {
			w.WriteByte(' ')
		}
		switch s.op {
		case opMove:
			fmt.Fprintf(w, "M%s %s", num(s.pts[0].x), num(s.pts[0].y))
		case opLine:
			fmt.Fprintf(w, "L%s %s", num(s.pts[0].x), num(s.pts[0].y))
		case opQuad:
			fmt.Fprintf(w, "Q%s %s %s %s", num(s.pts[0].x), num(s.pts[0].y), num(s.pts[1].x), num(s.pts[1].y))
		case opCube:
			fmt.Fprintf(w, "C%s %s %s %s %s %s",
				num(s.pts[0].x), num(s.pts[0].y), num(s.pts[1].x), num(s.pts[1].y), num(s.pts[2].x), num(s.pts[2].y))
		case opClose:
			w.WriteByte('Z')
		}
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 32)
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func alpha(a uint8) string {
	return strconv.FormatFloat(float64(a)/255, 'f', 3, 64)
}
