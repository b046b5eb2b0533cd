package og

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrFontResolution means the font stylesheet had no usable src url.
	ErrFontResolution = errors.New("og: font resolution failed")
	// ErrUnsupportedFont means the downloaded font is not TrueType or
	// OpenType.
	ErrUnsupportedFont = errors.New("og: unsupported font format")
)

// FontSource returns font data for one weight, subset to text.
type FontSource interface {
	Fetch(ctx context.Context, weight int, text string) ([]byte, error)
}

// FontSourceFunc adapts a function to FontSource.
type FontSourceFunc func(ctx context.Context, weight int, text string) ([]byte, error)

func (f FontSourceFunc) Fetch(ctx context.Context, weight int, text string) ([]byte, error) {
	return f(ctx, weight, text)
}

// Defaults for GoogleFonts.
const (
	DefaultFontFamily = "Noto Sans TC"
	DefaultCSSURL     = "https://fonts.googleapis.com/css2"
	// Google Fonts serves TrueType to clients it does not recognize.
	DefaultUserAgent = "folio-og/1.0"
	DefaultTimeout   = 30 * time.Second
)

var reFontSrc = regexp.MustCompile(`src:\s*url\(([^)]+)\)`)

// GoogleFonts fetches subset fonts from the Google Fonts css2 API.
type GoogleFonts struct {
	Client    *http.Client
	CSSURL    string
	Family    string
	UserAgent string
}

// NewGoogleFonts returns a GoogleFonts for family with default endpoint,
// user agent and a client using timeout.
func NewGoogleFonts(family string, timeout time.Duration) *GoogleFonts {
	if family == "" {
		family = DefaultFontFamily
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GoogleFonts{
		Client:    &http.Client{Timeout: timeout},
		CSSURL:    DefaultCSSURL,
		Family:    family,
		UserAgent: DefaultUserAgent,
	}
}

// Fetch implements FontSource.
func (g *GoogleFonts) Fetch(ctx context.Context, weight int, text string) ([]byte, error) {
	cssURL := fmt.Sprintf("%s?family=%s:wght@%d&display=swap&text=%s",
		g.CSSURL, strings.ReplaceAll(g.Family, " ", "+"), weight, url.QueryEscape(text))
	css, err := g.get(ctx, cssURL)
	if err != nil {
		return nil, fmt.Errorf("og: fetch font css (weight %d): %w", weight, err)
	}
	m := reFontSrc.FindSubmatch(css)
	if m == nil {
		return nil, fmt.Errorf("%w: no src url in stylesheet (weight %d)", ErrFontResolution, weight)
	}
	fontURL := strings.Trim(string(m[1]), `'"`)
	data, err := g.get(ctx, fontURL)
	if err != nil {
		return nil, fmt.Errorf("og: download font (weight %d): %w", weight, err)
	}
	if !isSFNT(data) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFont, fontURL)
	}
	return data, nil
}

func (g *GoogleFonts) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if g.UserAgent != "" {
		req.Header.Set("User-Agent", g.UserAgent)
	}
	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", u, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// isSFNT reports whether data starts with a TrueType or OpenType tag.
func isSFNT(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	switch tag := data[:4]; {
	case bytes.Equal(tag, []byte{0x00, 0x01, 0x00, 0x00}),
		bytes.Equal(tag, []byte("OTTO")),
		bytes.Equal(tag, []byte("true")):
		return true
	}
	return false
}
