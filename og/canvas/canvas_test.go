package canvas

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/joeycatai/folio/og/layout"
)

func goFonts() []Font {
	return []Font{
		{Name: "Go", Weight: 400, Data: goregular.TTF},
		{Name: "Go", Weight: 700, Data: gobold.TTF},
	}
}

var (
	navy  = color.NRGBA{0x0f, 0x17, 0x2a, 0xff}
	white = color.NRGBA{0xff, 0xff, 0xff, 0xff}
)

func card() *layout.Node {
	return layout.Box("card", layout.Style{Width: 1200, Height: 630, Padding: layout.Uniform(64), Direction: layout.Column, Background: navy},
		layout.Box("bar", layout.Style{Absolute: true, Height: 4, Gradient: &layout.Gradient{
			From: color.NRGBA{0x1d, 0x4e, 0xd8, 0xff},
			To:   color.NRGBA{0x60, 0xa5, 0xfa, 0xff},
		}}),
		layout.Text("title", layout.Style{FontSize: 72, FontWeight: 700, Color: white}, "Hello"),
	)
}

func TestNewFontSetRequiresFonts(t *testing.T) {
	if _, err := NewFontSet(); !errors.Is(err, ErrNoFonts) {
		t.Fatalf("err = %v, want ErrNoFonts", err)
	}
	if _, err := NewFontSet(Font{Name: "bad", Weight: 400, Data: []byte("nope")}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestMeasure(t *testing.T) {
	fs, err := NewFontSet(goFonts()...)
	if err != nil {
		t.Fatal(err)
	}
	st := layout.TextStyle{Size: 20, Weight: 400}
	short, long := fs.Measure("ab", st), fs.Measure("abab", st)
	if short <= 0 || long <= short {
		t.Errorf("Measure not monotonic: %v, %v", short, long)
	}
	spaced := fs.Measure("ab", layout.TextStyle{Size: 20, Weight: 400, LetterSpacing: 0.5})
	if want := short + 2*10; spaced < want-0.01 || spaced > want+0.01 {
		t.Errorf("letter spacing width = %v, want %v", spaced, want)
	}
	if bold := fs.Measure("abab", layout.TextStyle{Size: 20, Weight: 700}); bold == long {
		t.Error("weight 700 should select the bold face")
	}
}

func TestRenderSizeAndBackground(t *testing.T) {
	img, err := Render(card(), goFonts(), 1200)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1200 || b.Dy() != 630 {
		t.Fatalf("size = %v, want 1200x630", b)
	}
	if got := img.RGBAAt(600, 600); got != (color.RGBA{0x0f, 0x17, 0x2a, 0xff}) {
		t.Errorf("background pixel = %v", got)
	}
	// The gradient bar runs along the top edge.
	left, right := img.RGBAAt(1, 1), img.RGBAAt(1198, 1)
	if left.B >= right.B || left == right {
		t.Errorf("bar should brighten left to right: %v -> %v", left, right)
	}
	// Some title pixels are white.
	found := false
	for y := 64; y < 160 && !found; y++ {
		for x := 64; x < 300; x++ {
			if c := img.RGBAAt(x, y); c.R > 0xf0 && c.G > 0xf0 {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no title glyph pixels drawn")
	}
}

func TestRenderScalesToWidth(t *testing.T) {
	img, err := Render(card(), goFonts(), 600)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 600 || b.Dy() != 315 {
		t.Errorf("size = %v, want 600x315", b)
	}
}

func TestRoundRectHole(t *testing.T) {
	s := &Scene{Width: 20, Height: 20}
	p := &Path{}
	p.RoundRect(0, 0, 20, 20, 0, false)
	p.RoundRect(5, 5, 10, 10, 0, true)
	s.Ops = append(s.Ops, Op{Path: p, Fill: Fill{Color: white}})
	img := s.Rasterize(0)
	if c := img.RGBAAt(2, 2); c.A != 0xff {
		t.Errorf("ring pixel alpha = %d, want 255", c.A)
	}
	if c := img.RGBAAt(10, 10); c.A != 0 {
		t.Errorf("hole pixel alpha = %d, want 0", c.A)
	}
}

func TestWriteSVG(t *testing.T) {
	fs, err := NewFontSet(goFonts()...)
	if err != nil {
		t.Fatal(err)
	}
	scene, err := Draw(layout.Compute(card(), fs), fs)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := scene.WriteSVG(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`width="1200"`, `fill="#0f172a"`, `<linearGradient id="g1"`, `stop-color="#60a5fa"`, `fill="#ffffff"`} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}
