package folio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/joeycatai/folio/content"
	"github.com/joeycatai/folio/og"
)

type testLogger struct {
	mu       sync.Mutex
	warnings []string
	errors   []string
}

func (l *testLogger) Debugf(string, ...interface{}) {}
func (l *testLogger) Infof(string, ...interface{})  {}

func (l *testLogger) Warnf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func (l *testLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func goFonts() og.FontSource {
	return og.FontSourceFunc(func(_ context.Context, weight int, _ string) ([]byte, error) {
		if weight >= 600 {
			return gobold.TTF, nil
		}
		return goregular.TTF, nil
	})
}

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

// writeSite lays out a small site: two posts (one draft), one project,
// an about page and a wide hero image.
func writeSite(t *testing.T, root string) {
	t.Helper()
	writeFile(t, root, "content/blog/hello-world.md", []byte(`---
title: Hello World
description: First post
pubDate: 2026-02-18
heroImage: /images/wide.png
tags: [Go, Astro]
---
Hello there, this is the *body*.
`))
	writeFile(t, root, "content/blog/wip.md", []byte(`---
title: Work in progress
description: Not yet
pubDate: 2026-03-01
draft: true
tags: [secret]
---
Draft.
`))
	writeFile(t, root, "content/projects/folio.md", []byte(`---
title: Folio
description: Static site generator
pubDate: 2025-12-01
github: https://github.com/joeycatai/folio
featured: true
status: active
tags: [go]
---
Project body.
`))
	writeFile(t, root, "content/pages/about.md", []byte(`---
title: About me
---
Hi.
`))

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2000, 100))); err != nil {
		t.Fatal(err)
	}
	writeFile(t, root, "public/images/wide.png", buf.Bytes())
	writeFile(t, root, "public/style.css", []byte("body{}"))
}

func newTestApp(t *testing.T, src og.FontSource, opts ...Option) (*App, *testLogger, string) {
	t.Helper()
	root := t.TempDir()
	writeSite(t, root)

	cfg := DefaultConfig()
	cfg.Site.URL = "https://example.com"
	cfg.Site.GAID = ""
	cfg.Build.ContentDir = filepath.Join(root, "content")
	cfg.Build.PublicDir = filepath.Join(root, "public")
	cfg.Build.OutputDir = filepath.Join(root, "dist")
	cfg.Build.CachePath = filepath.Join(root, "data", "folio.db")

	logger := &testLogger{}
	a := New(cfg, append([]Option{WithFontSource(src), WithLogger(logger)}, opts...)...)
	if err := a.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a, logger, cfg.Build.OutputDir
}

func exists(t *testing.T, p string) bool {
	t.Helper()
	_, err := os.Stat(p)
	return err == nil
}

func TestBuild(t *testing.T) {
	a, _, out := newTestApp(t, goFonts())
	ctx := context.Background()

	report, err := a.Build(ctx, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// home, 5 sections, 1 post, 1 project, tags astro and go, 404
	if report.Pages != 11 {
		t.Errorf("Pages = %d, want 11", report.Pages)
	}
	// default, 5 sections, 2 tags, 1 post, 1 project
	if report.Images != 10 {
		t.Errorf("Images = %d, want 10", report.Images)
	}
	if report.Degraded != 0 || report.Cached != 0 {
		t.Errorf("Degraded = %d, Cached = %d, want 0, 0", report.Degraded, report.Cached)
	}
	if report.Heroes != 1 {
		t.Errorf("Heroes = %d, want 1", report.Heroes)
	}
	if report.ID == "" || report.Bytes == 0 {
		t.Errorf("report = %+v", report)
	}

	for _, rel := range []string{
		"index.html",
		"404.html",
		"blog/index.html",
		"blog/hello-world/index.html",
		"projects/folio/index.html",
		"tags/go/index.html",
		"about/index.html",
		"rss.xml",
		"sitemap.xml",
		"robots.txt",
		"favicon.svg",
		"images/wide.png",
		"hero/wide.jpg",
		"og/default.png",
		"og/blog/hello-world.png",
		"og/tags/astro.png",
	} {
		if !exists(t, filepath.Join(out, rel)) {
			t.Errorf("missing %s", rel)
		}
	}
	for _, rel := range []string{"blog/wip/index.html", "og/blog/wip.png", "tags/secret/index.html"} {
		if exists(t, filepath.Join(out, rel)) {
			t.Errorf("draft output %s was written", rel)
		}
	}

	css, _ := os.ReadFile(filepath.Join(out, "style.css"))
	if string(css) != "body{}" {
		t.Error("public/style.css did not replace the embedded stylesheet")
	}

	post, _ := os.ReadFile(filepath.Join(out, "blog", "hello-world", "index.html"))
	if !bytes.Contains(post, []byte(`src="/hero/wide.jpg"`)) {
		t.Error("post does not reference the scaled hero image")
	}

	hero, err := os.Open(filepath.Join(out, "hero", "wide.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	defer hero.Close()
	cfg, _, err := image.DecodeConfig(hero)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1200 || cfg.Height != 60 {
		t.Errorf("hero is %dx%d, want 1200x60", cfg.Width, cfg.Height)
	}

	data, _ := os.ReadFile(filepath.Join(out, "og", "blog", "hello-world.png"))
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode card: %v", err)
	}
	if b := img.Bounds(); b.Dx() != og.Width || b.Dy() != og.Height {
		t.Errorf("card is %dx%d", b.Dx(), b.Dy())
	}
}

func TestBuildReusesStoredCards(t *testing.T) {
	a, _, _ := newTestApp(t, goFonts())
	ctx := context.Background()

	if _, err := a.Build(ctx, BuildOptions{}); err != nil {
		t.Fatalf("first Build: %v", err)
	}
	report, err := a.Build(ctx, BuildOptions{})
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if report.Cached != report.Images {
		t.Errorf("Cached = %d, want %d", report.Cached, report.Images)
	}

	report, err = a.Build(ctx, BuildOptions{NoCache: true})
	if err != nil {
		t.Fatalf("NoCache Build: %v", err)
	}
	if report.Cached != 0 {
		t.Errorf("NoCache build reused %d cards", report.Cached)
	}

	builds, err := a.Store.ListBuilds(ctx, 0)
	if err != nil {
		t.Fatalf("ListBuilds: %v", err)
	}
	if len(builds) != 3 {
		t.Errorf("recorded %d builds, want 3", len(builds))
	}
}

func TestBuildDegradedCardsAreNotStored(t *testing.T) {
	failing := og.FontSourceFunc(func(context.Context, int, string) ([]byte, error) {
		return nil, og.ErrFontResolution
	})
	a, logger, out := newTestApp(t, failing)
	ctx := context.Background()

	report, err := a.Build(ctx, BuildOptions{})
	if err != nil {
		t.Fatalf("Build must not fail on font errors: %v", err)
	}
	if report.Degraded != report.Images || report.Images == 0 {
		t.Errorf("Degraded = %d, Images = %d", report.Degraded, report.Images)
	}
	if len(logger.warnings) != report.Images {
		t.Errorf("got %d warnings, want one per card", len(logger.warnings))
	}
	data, _ := os.ReadFile(filepath.Join(out, "og", "default.png"))
	if !bytes.Equal(data, og.Placeholder) {
		t.Error("degraded card is not the placeholder")
	}
	n, err := a.Store.CountImages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("store holds %d degraded cards", n)
	}
}

func TestBuildSkipOG(t *testing.T) {
	a, _, out := newTestApp(t, goFonts())
	report, err := a.Build(context.Background(), BuildOptions{SkipOG: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if report.Images != 0 {
		t.Errorf("Images = %d", report.Images)
	}
	if exists(t, filepath.Join(out, "og")) {
		t.Error("og directory written with SkipOG")
	}
}

func TestBuildLocked(t *testing.T) {
	a, _, out := newTestApp(t, goFonts())
	lock := flock.New(lockPath(out))
	ok, err := lock.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock = %v, %v", ok, err)
	}
	defer lock.Unlock()

	_, err = a.Build(context.Background(), BuildOptions{SkipOG: true})
	if !errors.Is(err, ErrBuildLocked) {
		t.Errorf("Build error = %v, want ErrBuildLocked", err)
	}
}

func TestBuildInvalidContent(t *testing.T) {
	a, _, _ := newTestApp(t, goFonts())
	writeFile(t, a.Config.Build.ContentDir, "blog/broken.md", []byte("---\ndescription: no title\n---\n"))

	_, err := a.Build(context.Background(), BuildOptions{SkipOG: true})
	if !errors.Is(err, content.ErrInvalidDocument) {
		t.Errorf("Build error = %v, want ErrInvalidDocument", err)
	}
}

func TestPreviewServer(t *testing.T) {
	a, _, _ := newTestApp(t, goFonts())
	if _, err := a.Build(context.Background(), BuildOptions{SkipOG: true}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	h := a.Handler()

	tests := []struct {
		path         string
		wantCode     int
		wantType     string
		wantCache    string
		wantContains string
	}{
		{"/og/blog/hello-world.png", http.StatusOK, "image/png", ogCacheControl, ""},
		{"/og/tags/go.png", http.StatusOK, "image/png", ogCacheControl, ""},
		{"/og/blog/wip.png", http.StatusNotFound, "", "", ""},
		{"/og/../../etc/passwd", http.StatusNotFound, "", "", ""},
		{"/rss.xml", http.StatusOK, "application/rss+xml", "public, max-age=86400", "<language>zh-TW</language>"},
		{"/blog/hello-world/", http.StatusOK, "text/html", "", "Hello World"},
		{"/missing/", http.StatusNotFound, "text/html", "", "找不到這個頁面"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantType != "" && !strings.HasPrefix(rec.Header().Get("Content-Type"), tt.wantType) {
				t.Errorf("Content-Type = %q, want %q", rec.Header().Get("Content-Type"), tt.wantType)
			}
			if tt.wantCache != "" && rec.Header().Get("Cache-Control") != tt.wantCache {
				t.Errorf("Cache-Control = %q, want %q", rec.Header().Get("Cache-Control"), tt.wantCache)
			}
			if tt.wantContains != "" && !strings.Contains(rec.Body.String(), tt.wantContains) {
				t.Errorf("body does not contain %q", tt.wantContains)
			}
		})
	}
}

func TestPreviewServerPlaceholderIsNotCached(t *testing.T) {
	failing := og.FontSourceFunc(func(context.Context, int, string) ([]byte, error) {
		return nil, errors.New("offline")
	})
	a, _, _ := newTestApp(t, failing)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/og/default.png", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), og.Placeholder) {
		t.Error("body is not the placeholder")
	}
}

func TestPreviewServerRenderLimit(t *testing.T) {
	a, _, _ := newTestApp(t, goFonts())
	a.limiter = NewRenderLimiter(1, time.Minute)
	h := a.Handler()

	get := func(p string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		return rec
	}
	if rec := get("/og/default.png"); rec.Code != http.StatusOK {
		t.Fatalf("first render status = %d", rec.Code)
	}
	if rec := get("/og/blog/hello-world.png"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second render status = %d, want 429", rec.Code)
	}
	// Stored cards are served regardless of the limit.
	if rec := get("/og/default.png"); rec.Code != http.StatusOK {
		t.Errorf("stored card status = %d", rec.Code)
	}
}
