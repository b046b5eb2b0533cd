package folio

import (
	"io"
	"net/url"
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify converts a title to a URL-safe slug. Letters outside ASCII are
// kept, so Chinese titles produce readable slugs.
func Slugify(s string) string {
	s = strings.ToLower(norm.NFKC.String(strings.TrimSpace(s)))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r > 0x7f && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// countingWriter tracks how many bytes pass through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
