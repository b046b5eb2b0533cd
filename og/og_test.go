package og

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/joeycatai/folio/og/canvas"
	"github.com/joeycatai/folio/og/layout"
)

type recordingLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func goSource() FontSource {
	return FontSourceFunc(func(_ context.Context, weight int, _ string) ([]byte, error) {
		if weight >= 600 {
			return gobold.TTF, nil
		}
		return goregular.TTF, nil
	})
}

func TestTitleFontSize(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{10, 72}, {20, 72}, {21, 60}, {25, 60}, {35, 60}, {36, 48}, {40, 48},
	}
	for _, tt := range tests {
		if got := TitleFontSize(strings.Repeat("x", tt.n)); got != tt.want {
			t.Errorf("TitleFontSize(%d chars) = %v, want %v", tt.n, got, tt.want)
		}
	}
	if got := TitleFontSize(strings.Repeat("字", 25)); got != 60 {
		t.Errorf("CJK title of 25 runes = %v, want 60", got)
	}
}

func TestTruncateDescription(t *testing.T) {
	long := strings.Repeat("描", 90)
	got := TruncateDescription(long)
	if n := utf8.RuneCountInString(got); n != 76 {
		t.Errorf("truncated length = %d runes, want 76", n)
	}
	if !strings.HasSuffix(got, "…") || !strings.HasPrefix(long, strings.TrimSuffix(got, "…")) {
		t.Errorf("truncated = %q", got)
	}
	short := strings.Repeat("a", 60)
	if got := TruncateDescription(short); got != short {
		t.Errorf("short description changed: %q", got)
	}
	exact := strings.Repeat("a", 75)
	if got := TruncateDescription(exact); got != exact {
		t.Errorf("75-rune description changed: %q", got)
	}
}

func TestComposeTags(t *testing.T) {
	req := Request{Title: "T", Tags: []string{"a", "b", "c", "d", "e", "f", "g"}}
	root := Compose(req, "site")
	tags := root.Find("tags")
	if tags == nil {
		t.Fatal("no tags row")
	}
	if len(tags.Children) != 5 {
		t.Fatalf("chips = %d, want 5", len(tags.Children))
	}
	for i, c := range tags.Children {
		if want := "#" + req.Tags[i]; c.Text != want {
			t.Errorf("chip %d = %q, want %q", i, c.Text, want)
		}
	}
	if root.Find("description") != nil {
		t.Error("empty description should not be drawn")
	}
	if site := root.Find("site"); site == nil || site.Text != "site" {
		t.Errorf("site label = %+v", site)
	}
}

func TestCharset(t *testing.T) {
	cs := Charset(Request{Title: "zz技", Description: "é", Tags: []string{"ω"}}, "名")
	for _, r := range "z技éω名…#A9 " {
		if !strings.ContainsRune(cs, r) {
			t.Errorf("charset missing %q", r)
		}
	}
	if strings.Count(cs, "z") != 1 {
		t.Error("charset should not repeat runes")
	}
	if Charset(Request{Title: "ab"}, "s") != Charset(Request{Title: "ba"}, "s") {
		t.Error("charset should not depend on rune order")
	}
}

func TestKeyDistinguishesTags(t *testing.T) {
	a := Key(Request{Title: "t", Tags: []string{"ab"}}, "s", "f")
	b := Key(Request{Title: "t", Tags: []string{"a", "b"}}, "s", "f")
	if a == b {
		t.Error("keys should differ")
	}
	if a != Key(Request{Title: "t", Tags: []string{"ab"}}, "s", "f") {
		t.Error("key should be deterministic")
	}
}

func TestGenerateFallsBackToPlaceholder(t *testing.T) {
	boom := errors.New("offline")
	src := FontSourceFunc(func(context.Context, int, string) ([]byte, error) { return nil, boom })
	logger := &recordingLogger{}
	g := New("site", src, WithLogger(logger))

	res := g.Generate(context.Background(), Request{Title: "My Post"})
	if !res.Degraded || !errors.Is(res.Reason, boom) {
		t.Errorf("result = %+v", res)
	}
	if !bytes.Equal(res.PNG, Placeholder) {
		t.Error("degraded result should carry the placeholder")
	}
	if len(logger.warnings) != 1 {
		t.Fatalf("warnings = %d, want 1: %v", len(logger.warnings), logger.warnings)
	}
	if !strings.Contains(logger.warnings[0], "My Post") {
		t.Errorf("warning %q should name the title", logger.warnings[0])
	}

	if _, err := g.Render(context.Background(), Request{Title: "My Post"}); !errors.Is(err, boom) {
		t.Errorf("Render err = %v, want %v", err, boom)
	}
}

func TestGenerateRendererError(t *testing.T) {
	logger := &recordingLogger{}
	g := New("site", goSource(), WithLogger(logger), WithRenderer(RendererFunc(
		func(*layout.Node, []canvas.Font, int) (image.Image, error) { return nil, errors.New("bad layout") },
	)))
	res := g.Generate(context.Background(), Request{Title: "x"})
	if !res.Degraded || len(logger.warnings) != 1 {
		t.Errorf("res = %+v, warnings = %v", res, logger.warnings)
	}
}

func TestGenerateRecoversRendererPanic(t *testing.T) {
	logger := &recordingLogger{}
	g := New("site", goSource(), WithLogger(logger), WithRenderer(RendererFunc(
		func(*layout.Node, []canvas.Font, int) (image.Image, error) { panic("index out of range") },
	)))
	res := g.Generate(context.Background(), Request{Title: "Crash"})
	if !res.Degraded || !bytes.Equal(res.PNG, Placeholder) {
		t.Fatalf("res = %+v", res)
	}
	if res.Reason == nil || !strings.Contains(res.Reason.Error(), "index out of range") {
		t.Errorf("Reason = %v", res.Reason)
	}
	if len(logger.warnings) != 1 || !strings.Contains(logger.warnings[0], "Crash") {
		t.Errorf("warnings = %v", logger.warnings)
	}
}

func TestPlaceholderIsOnePixelPNG(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(Placeholder))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Errorf("placeholder size = %v", b)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("placeholder alpha = %d, want 0", a)
	}
}

func TestGenerateRendersCard(t *testing.T) {
	logger := &recordingLogger{}
	g := New("joeycatai", goSource(), WithLogger(logger))
	res := g.Generate(context.Background(), Request{
		Title:       "Building a static site in Go",
		Description: "Notes on layout, fonts and rasterization.",
		Tags:        []string{"go", "web"},
	})
	if res.Degraded {
		t.Fatalf("unexpected degraded result: %v", res.Reason)
	}
	img, err := png.Decode(bytes.NewReader(res.PNG))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != Width || b.Dy() != Height {
		t.Errorf("size = %v, want %dx%d", b, Width, Height)
	}
	r, gg, b, _ := img.At(Width-10, Height/2).RGBA()
	if r>>8 != 0x0f || gg>>8 != 0x17 || b>>8 != 0x2a {
		t.Errorf("background = %x %x %x", r>>8, gg>>8, b>>8)
	}
	if len(logger.warnings) != 0 {
		t.Errorf("unexpected warnings: %v", logger.warnings)
	}
}

func TestFontCacheSingleFlight(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	src := FontSourceFunc(func(_ context.Context, weight int, text string) ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte(fmt.Sprintf("%d:%s", weight, text)), nil
	})
	c := NewFontCache(src)

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := c.Fetch(context.Background(), 400, "abc")
			if err != nil {
				t.Error(err)
			}
			results[i] = data
		}()
	}
	for calls.Load() == 0 {
		// wait for the first fetch to start
	}
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("source called %d times, want 1", got)
	}
	for _, r := range results {
		if string(r) != "400:abc" {
			t.Errorf("result = %q", r)
		}
	}
	if _, err := c.Fetch(context.Background(), 400, "abc"); err != nil || calls.Load() != 1 {
		t.Error("second fetch should hit the cache")
	}
	if _, err := c.Fetch(context.Background(), 700, "abc"); err != nil || calls.Load() != 2 {
		t.Error("different weight should miss")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestFontCacheCancelledCallerDoesNotFailOthers(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	src := FontSourceFunc(func(ctx context.Context, weight int, text string) ([]byte, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []byte(text), nil
	})
	c := NewFontCache(src)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := c.Fetch(ctx, 400, "abc")
		first <- err
	}()
	<-started

	second := make(chan []byte, 1)
	go func() {
		data, err := c.Fetch(context.Background(), 400, "abc")
		if err != nil {
			t.Error(err)
		}
		second <- data
	}()

	cancel()
	if err := <-first; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller err = %v", err)
	}
	close(release)
	if got := <-second; string(got) != "abc" {
		t.Errorf("second caller got %q", got)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("source called %d times, want 1", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestFontCacheDoesNotCacheErrors(t *testing.T) {
	var calls int
	src := FontSourceFunc(func(context.Context, int, string) ([]byte, error) {
		calls++
		return nil, errors.New("nope")
	})
	c := NewFontCache(src)
	c.Fetch(context.Background(), 400, "a")
	c.Fetch(context.Background(), 400, "a")
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestGeneratorsDoNotShareCaches(t *testing.T) {
	a, b := New("a", goSource()), New("b", goSource())
	if a.Fonts() == b.Fonts() {
		t.Error("each generator should own its cache")
	}
}

func fontServer(t *testing.T, css string, font []byte) (*httptest.Server, *http.Request) {
	t.Helper()
	var cssReq http.Request
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	mux.HandleFunc("/css2", func(w http.ResponseWriter, r *http.Request) {
		cssReq = *r
		fmt.Fprint(w, strings.ReplaceAll(css, "$HOST", srv.URL))
	})
	mux.HandleFunc("/font.ttf", func(w http.ResponseWriter, r *http.Request) {
		w.Write(font)
	})
	t.Cleanup(srv.Close)
	return srv, &cssReq
}

func TestGoogleFonts(t *testing.T) {
	css := "@font-face {\n  font-family: 'Noto Sans TC';\n  src: url($HOST/font.ttf) format('truetype');\n}\n"

	t.Run("fetches truetype", func(t *testing.T) {
		srv, cssReq := fontServer(t, css, goregular.TTF)
		g := NewGoogleFonts("Noto Sans TC", 0)
		g.CSSURL = srv.URL + "/css2"
		data, err := g.Fetch(context.Background(), 700, "標題 a")
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if !bytes.Equal(data, goregular.TTF) {
			t.Error("font bytes mismatch")
		}
		q := cssReq.URL.Query()
		if q.Get("family") != "Noto Sans TC:wght@700" {
			t.Errorf("family = %q", q.Get("family"))
		}
		if q.Get("text") != "標題 a" || q.Get("display") != "swap" {
			t.Errorf("query = %v", q)
		}
		if ua := cssReq.Header.Get("User-Agent"); ua != DefaultUserAgent {
			t.Errorf("User-Agent = %q", ua)
		}
	})

	t.Run("no src url", func(t *testing.T) {
		srv, _ := fontServer(t, "/* nothing */", nil)
		g := NewGoogleFonts("", 0)
		g.CSSURL = srv.URL + "/css2"
		if _, err := g.Fetch(context.Background(), 400, "a"); !errors.Is(err, ErrFontResolution) {
			t.Errorf("err = %v, want ErrFontResolution", err)
		}
	})

	t.Run("woff rejected", func(t *testing.T) {
		srv, _ := fontServer(t, css, []byte("wOFF\x00\x01\x00\x00rest"))
		g := NewGoogleFonts("", 0)
		g.CSSURL = srv.URL + "/css2"
		if _, err := g.Fetch(context.Background(), 400, "a"); !errors.Is(err, ErrUnsupportedFont) {
			t.Errorf("err = %v, want ErrUnsupportedFont", err)
		}
	})
}
