package og

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"

	"github.com/joeycatai/folio/og/canvas"
	"github.com/joeycatai/folio/og/layout"
)

// Logger is the logging the generator needs.
type Logger interface {
	Warnf(format string, args ...interface{})
}

// Renderer turns a layout tree into an image width pixels wide.
type Renderer interface {
	Render(root *layout.Node, fonts []canvas.Font, width int) (image.Image, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(root *layout.Node, fonts []canvas.Font, width int) (image.Image, error)

func (f RendererFunc) Render(root *layout.Node, fonts []canvas.Font, width int) (image.Image, error) {
	return f(root, fonts, width)
}

// VectorRenderer draws glyph outlines with golang.org/x/image/vector.
var VectorRenderer Renderer = RendererFunc(func(root *layout.Node, fonts []canvas.Font, width int) (image.Image, error) {
	return canvas.Render(root, fonts, width)
})

// Result is the outcome of Generate. Degraded results carry the
// placeholder image and the reason rendering failed.
type Result struct {
	PNG      []byte
	Degraded bool
	Reason   error
}

// Generator renders cards for one site.
type Generator struct {
	siteName string
	family   string
	fonts    *FontCache
	renderer Renderer
	logger   Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRenderer replaces the default vector renderer.
func WithRenderer(r Renderer) Option {
	return func(g *Generator) { g.renderer = r }
}

// WithLogger sets the logger used for degraded renders.
func WithLogger(l Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithFamily records the font family name passed to the renderer.
func WithFamily(family string) Option {
	return func(g *Generator) { g.family = family }
}

// New creates a Generator that draws siteName on every card and gets
// fonts from src through its own FontCache.
func New(siteName string, src FontSource, opts ...Option) *Generator {
	g := &Generator{
		siteName: siteName,
		family:   DefaultFontFamily,
		fonts:    NewFontCache(src),
		renderer: VectorRenderer,
		logger:   log.New("og"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Fonts exposes the generator's font cache.
func (g *Generator) Fonts() *FontCache { return g.fonts }

// Key identifies the PNG this generator produces for req.
func (g *Generator) Key(req Request) string {
	return Key(req, g.siteName, g.family)
}

// Render produces the card PNG for req or returns the first error.
func (g *Generator) Render(ctx context.Context, req Request) ([]byte, error) {
	fonts, err := g.loadFonts(ctx, req)
	if err != nil {
		return nil, err
	}
	img, err := g.renderer.Render(Compose(req, g.siteName), fonts, Width)
	if err != nil {
		return nil, fmt.Errorf("og: render: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("og: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// SVG writes the card for req as an SVG document.
func (g *Generator) SVG(ctx context.Context, req Request) ([]byte, error) {
	fonts, err := g.loadFonts(ctx, req)
	if err != nil {
		return nil, err
	}
	fs, err := canvas.NewFontSet(fonts...)
	if err != nil {
		return nil, err
	}
	scene, err := canvas.Draw(layout.Compute(Compose(req, g.siteName), fs), fs)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := scene.WriteSVG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Generate renders req and never fails: on any error or panic it logs one
// warning and returns the placeholder.
func (g *Generator) Generate(ctx context.Context, req Request) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("og: render panicked: %v", p)
			g.logger.Warnf("og: using placeholder for %q: %v", req.Title, err)
			res = Result{PNG: Placeholder, Degraded: true, Reason: err}
		}
	}()
	data, err := g.Render(ctx, req)
	if err != nil {
		g.logger.Warnf("og: using placeholder for %q: %v", req.Title, err)
		return Result{PNG: Placeholder, Degraded: true, Reason: err}
	}
	return Result{PNG: data}
}

// loadFonts fetches the regular and bold weights concurrently.
func (g *Generator) loadFonts(ctx context.Context, req Request) ([]canvas.Font, error) {
	text := Charset(req, g.siteName)
	weights := []int{400, 700}
	fonts := make([]canvas.Font, len(weights))
	eg, ctx := errgroup.WithContext(ctx)
	for i, w := range weights {
		eg.Go(func() error {
			data, err := g.fonts.Fetch(ctx, w, text)
			if err != nil {
				return err
			}
			fonts[i] = canvas.Font{Name: g.family, Weight: w, Data: data}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return fonts, nil
}
