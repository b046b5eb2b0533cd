// Package markdown renders document bodies to HTML and derives plain-text
// measurements such as reading time from them.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	// ---\n<yaml>\n--- at the very start of a file; the yaml part may be empty.
	reFrontMatter = regexp.MustCompile(`(?s)\A\x{feff}?---[ \t]*\r?\n(?:(.*?)\r?\n)?---[ \t]*(?:\r?\n|\z)`)
	// MDX module lines have no prose value and must not reach the renderer.
	reImportExport = regexp.MustCompile(`(?m)^(?:import|export)\s.*$\n?`)
)

var renderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Footnote),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
)

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := RenderMarkdown(&buf, content); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderMarkdown writes the HTML representation of md to buf. Front matter
// and MDX import/export lines are dropped first.
func RenderMarkdown(buf *bytes.Buffer, md string) error {
	_, body, _ := SplitFrontMatter(md)
	body = reImportExport.ReplaceAllString(body, "")
	return renderer.Convert([]byte(body), buf)
}

// SplitFrontMatter separates a leading YAML front matter block from the
// document body. ok reports whether a block was present.
func SplitFrontMatter(src string) (front, body string, ok bool) {
	m := reFrontMatter.FindStringSubmatchIndex(src)
	if m == nil {
		return "", src, false
	}
	if m[2] >= 0 {
		front = src[m[2]:m[3]]
	}
	return front, src[m[1]:], true
}

// SafeURL returns raw when it is a site-relative path, a fragment or an
// http(s), mailto or tel URL, and "" otherwise. The result is not
// HTML-escaped; templ escapes attribute values on output.
func SafeURL(raw string) templ.SafeURL {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return templ.SafeURL(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return templ.SafeURL(val)
	default:
		return ""
	}
}
