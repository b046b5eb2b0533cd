package folio

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// WriteSitemap writes sitemap.xml listing every page of the site.
// Posts and projects carry their last modification date.
func (s *Site) WriteSitemap(w io.Writer) error {
	lastmod := make(map[string]string)
	for _, p := range s.Posts {
		d := p.PubDate
		if p.UpdatedDate != nil {
			d = *p.UpdatedDate
		}
		lastmod[p.Link()] = d.Format("2006-01-02")
	}
	for _, p := range s.Projects {
		lastmod[p.Link()] = p.PubDate.Format("2006-01-02")
	}

	base := strings.TrimRight(s.Config.Site.URL, "/")
	pages := s.Pages()
	urls := make([]sitemapURL, 0, len(pages))
	for _, page := range pages {
		u := url.URL{Path: page}
		urls = append(urls, sitemapURL{
			Loc:     base + u.EscapedPath(),
			LastMod: lastmod[page],
		})
	}
	set := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("folio: encode sitemap: %w", err)
	}
	return nil
}

// WriteRobots writes a robots.txt that allows everything and points at
// the sitemap.
func (s *Site) WriteRobots(w io.Writer) error {
	_, err := fmt.Fprintf(w, "User-agent: *\nAllow: /\n\nSitemap: %s\n", strings.TrimRight(s.Config.Site.URL, "/")+"/sitemap.xml")
	return err
}
