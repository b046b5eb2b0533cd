// Package folio builds a static blog and portfolio from Markdown
// documents: HTML pages, an RSS feed, a sitemap and an Open Graph card
// per page. A preview server serves the output and renders cards on
// demand.
package folio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/joeycatai/folio/og"
)

// App is the central folio application. It wires together the
// configuration, the card store, the OG generator and the content cache.
type App struct {
	Config    Config
	Echo      *echo.Echo
	Store     *Store
	Generator *og.Generator
	Sites     *SiteCache

	logger       Logger
	limiter      *RenderLimiter
	fontSource    og.FontSource
	customRoutes  []func(*App)
	watchDebounce time.Duration
	setupOnce     sync.Once
}

// New creates an App for cfg. Call Open before building or serving.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Sites:  NewSiteCache(cfg),
	}
	a.limiter = NewRenderLimiter(cfg.Server.OGRenderLimit, time.Minute)
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = log.New("folio")
	}
	if a.watchDebounce <= 0 {
		a.watchDebounce = defaultWatchDebounce
	}
	if l, ok := a.logger.(echo.Logger); ok {
		a.Echo.Logger = l
	}
	a.Echo.HideBanner = true
	if a.fontSource == nil {
		gf := og.NewGoogleFonts(cfg.OG.FontFamily, cfg.OG.Timeout.Duration)
		gf.CSSURL = cfg.OG.FontCSSURL
		gf.UserAgent = cfg.OG.UserAgent
		a.fontSource = gf
	}
	a.Generator = og.New(cfg.Site.Name, a.fontSource,
		og.WithFamily(cfg.OG.FontFamily),
		og.WithLogger(a.logger),
	)
	return a
}

// Logger returns the application logger.
func (a *App) Logger() Logger { return a.logger }

// Open opens the card store.
func (a *App) Open() error {
	if a.Store != nil {
		return nil
	}
	store, err := NewStore(a.Config.Build.CachePath)
	if err != nil {
		return fmt.Errorf("folio: init store: %w", err)
	}
	a.Store = store
	return nil
}

// Handler returns the preview server's HTTP handler, registering
// middleware and routes on first use.
func (a *App) Handler() http.Handler {
	a.setupOnce.Do(func() {
		a.setupMiddleware()
		a.setupRoutes()
		for _, fn := range a.customRoutes {
			fn(a)
		}
	})
	return a.Echo
}

// Serve runs the preview server until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	a.Handler()
	go a.limiter.run(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Echo.Start(a.Config.Server.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.Echo.Shutdown(shutdownCtx)
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
