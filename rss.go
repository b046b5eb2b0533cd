package folio

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language,omitempty"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	PubDate     string  `xml:"pubDate"`
	GUID        rssGUID `xml:"guid"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// feed builds the RSS document for the site's published posts.
func (s *Site) feed() rssXML {
	base := s.Config.Site.URL
	items := make([]rssItem, 0, len(s.Posts))
	for _, p := range s.Posts {
		postURL := BuildURL(base, "blog", p.Slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Description,
			PubDate:     p.PubDate.Format(time.RFC1123Z),
			GUID:        rssGUID{IsPermaLink: true, Value: postURL},
		})
	}
	return rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       s.Config.Site.Name + " · 文章",
			Link:        BuildURL(base),
			Description: s.Config.Site.Description,
			Language:    s.Config.Site.Language,
			Items:       items,
		},
	}
}

// WriteRSS writes the RSS 2.0 feed of published posts to w.
func (s *Site) WriteRSS(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(s.feed()); err != nil {
		return fmt.Errorf("folio: encode rss: %w", err)
	}
	return nil
}

func (a *App) handleRSS(c echo.Context) error {
	site, err := a.Sites.Get(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return site.WriteRSS(c.Response())
}
