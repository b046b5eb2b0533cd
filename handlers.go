package folio

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/joeycatai/folio/views"
)

// ogCacheControl is sent with every successfully rendered card.
const ogCacheControl = "public, max-age=31536000, immutable"

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/og/*", a.handleOG)
	e.GET("/rss.xml", a.handleRSS)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.Static("/", a.Config.Build.OutputDir)
}

func (a *App) handleOG(c echo.Context) error {
	ctx := c.Request().Context()
	site, err := a.Sites.Get(ctx)
	if err != nil {
		return err
	}
	r, ok := site.Routes.Lookup(c.Param("*"))
	if !ok {
		return echo.ErrNotFound
	}

	key := a.Generator.Key(r.Request)
	if data, ok := a.storedCard(ctx, key, r.Path); ok {
		c.Response().Header().Set("Cache-Control", ogCacheControl)
		return c.Blob(http.StatusOK, "image/png", data)
	}
	if !a.limiter.Allow(c.RealIP()) {
		c.Response().Header().Set("Retry-After", "60")
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many card renders")
	}
	card := a.renderCard(ctx, r, key)
	if card.Degraded {
		// The placeholder must not be pinned by browsers or CDNs.
		c.Response().Header().Set("Cache-Control", "no-store")
	} else {
		c.Response().Header().Set("Cache-Control", ogCacheControl)
	}
	return c.Blob(http.StatusOK, "image/png", card.PNG)
}

func (a *App) handleSitemap(c echo.Context) error {
	site, err := a.Sites.Get(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return site.WriteSitemap(c.Response())
}

func (a *App) notFoundPage(c echo.Context) error {
	site, err := a.Sites.Get(c.Request().Context())
	if err != nil {
		return c.String(http.StatusNotFound, "Not Found")
	}
	return RenderStatus(c, http.StatusNotFound, views.NotFound(site.Info()))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = a.notFoundPage(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
