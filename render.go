package folio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// renderFile writes cmp to name, creating parent directories. It returns
// the number of bytes written.
func renderFile(ctx context.Context, name string, cmp templ.Component) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return 0, fmt.Errorf("folio: render %s: %w", name, err)
	}
	f, err := os.Create(name)
	if err != nil {
		return 0, fmt.Errorf("folio: render %s: %w", name, err)
	}
	cw := &countingWriter{w: f}
	err = cmp.Render(ctx, cw)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return cw.n, fmt.Errorf("folio: render %s: %w", name, err)
	}
	return cw.n, nil
}

// pageFile maps a page path such as "/blog/x/" to its index.html under
// dir. Paths naming a file, such as "/404.html", are kept.
func pageFile(dir, page string) (string, error) {
	if strings.HasSuffix(page, ".html") {
		return outputPath(dir, strings.TrimPrefix(page, "/"))
	}
	return outputPath(dir, strings.TrimPrefix(page, "/")+"index.html")
}

// outputPath joins the slash-separated rel onto dir and fails when the
// result would land outside dir.
func outputPath(dir, rel string) (string, error) {
	name := filepath.Join(dir, filepath.FromSlash(rel))
	r, err := filepath.Rel(dir, name)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) || filepath.IsAbs(r) {
		return "", fmt.Errorf("folio: %q escapes %s", rel, dir)
	}
	return name, nil
}
