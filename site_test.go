package folio

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/joeycatai/folio/content"
)

func testSite(t *testing.T) *Site {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Site.URL = "https://example.com"
	updated := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	coll := &content.Collection{
		Articles: []content.Article{
			{Slug: "older", Title: "Older", Description: "a", PubDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Tags: []string{"Go"}},
			{Slug: "newer", Title: "Newer & better", Description: "b", PubDate: time.Date(2026, 2, 18, 0, 0, 0, 0, time.UTC), UpdatedDate: &updated, Tags: []string{"機器學習"}},
			{Slug: "draft", Title: "Draft", PubDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Draft: true},
		},
		Projects: []content.Project{
			{Slug: "folio", Title: "Folio", PubDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Tags: []string{"go"}},
		},
	}
	return NewSite(cfg, coll)
}

func TestWriteRSS(t *testing.T) {
	s := testSite(t)
	var buf bytes.Buffer
	if err := s.WriteRSS(&buf); err != nil {
		t.Fatalf("WriteRSS: %v", err)
	}
	if !strings.HasPrefix(buf.String(), xml.Header) {
		t.Error("missing XML header")
	}

	var feed rssXML
	if err := xml.Unmarshal(buf.Bytes(), &feed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	ch := feed.Channel
	if ch.Title != "joeycatai · 文章" {
		t.Errorf("title = %q", ch.Title)
	}
	if ch.Language != "zh-TW" {
		t.Errorf("language = %q", ch.Language)
	}
	if ch.Link != "https://example.com" {
		t.Errorf("link = %q", ch.Link)
	}
	var links []string
	for _, it := range ch.Items {
		links = append(links, it.Link)
	}
	want := []string{"https://example.com/blog/newer/", "https://example.com/blog/older/"}
	if diff := cmp.Diff(want, links); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if got := ch.Items[0].PubDate; got != "Wed, 18 Feb 2026 00:00:00 +0000" {
		t.Errorf("pubDate = %q", got)
	}
	if ch.Items[0].Title != "Newer & better" {
		t.Errorf("item title = %q", ch.Items[0].Title)
	}
	if ch.Items[0].GUID.Value != want[0] || !ch.Items[0].GUID.IsPermaLink {
		t.Errorf("guid = %+v", ch.Items[0].GUID)
	}
}

func TestWriteSitemap(t *testing.T) {
	s := testSite(t)
	var buf bytes.Buffer
	if err := s.WriteSitemap(&buf); err != nil {
		t.Fatalf("WriteSitemap: %v", err)
	}
	var set sitemapURLSet
	if err := xml.Unmarshal(buf.Bytes(), &set); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := make(map[string]string)
	for _, u := range set.URLs {
		got[u.Loc] = u.LastMod
	}
	if len(got) != len(s.Pages()) {
		t.Errorf("sitemap has %d urls, site has %d pages", len(got), len(s.Pages()))
	}
	if lm, ok := got["https://example.com/blog/newer/"]; !ok || lm != "2026-02-20" {
		t.Errorf("newer lastmod = %q, %v", lm, ok)
	}
	if _, ok := got["https://example.com/tags/%E6%A9%9F%E5%99%A8%E5%AD%B8%E7%BF%92/"]; !ok {
		t.Error("tag URL is not escaped")
	}
	if _, ok := got["https://example.com/blog/draft/"]; ok {
		t.Error("draft listed in sitemap")
	}
}

func TestWriteRobots(t *testing.T) {
	for _, base := range []string{"https://example.com", "https://example.com/"} {
		s := testSite(t)
		s.Config.Site.URL = base
		var buf bytes.Buffer
		if err := s.WriteRobots(&buf); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "Sitemap: https://example.com/sitemap.xml\n") {
			t.Errorf("robots.txt for %q = %q", base, buf.String())
		}
	}
}

func TestSitePages(t *testing.T) {
	s := testSite(t)
	var paths []string
	for _, p := range s.pages(nil) {
		paths = append(paths, p.Path)
	}
	want := []string{
		"/", "/blog/", "/projects/", "/about/", "/contact/", "/tags/",
		"/blog/newer/", "/blog/older/",
		"/projects/folio/",
		"/tags/go/", "/tags/機器學習/",
		notFoundPath,
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}
}

func TestSiteRoutes(t *testing.T) {
	s := testSite(t)
	r, ok := s.Routes.Lookup("/og/tags/go.png")
	if !ok {
		t.Fatal("tag route not found")
	}
	if r.Request.Title != "#go" {
		t.Errorf("Title = %q", r.Request.Title)
	}
	r, ok = s.Routes.Lookup("about")
	if !ok {
		t.Fatal("about route not found")
	}
	if r.Request.Description != s.Config.Site.Description {
		t.Errorf("about description = %q, want site description", r.Request.Description)
	}
	if _, ok := s.Routes.Lookup("blog/draft"); ok {
		t.Error("draft has a card route")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  Go 1.24: What's new?  ", "go-1-24-what-s-new"},
		{"我的第一篇文章", "我的第一篇文章"},
		{"Ｆｕｌｌ Width", "full-width"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildURL(t *testing.T) {
	if got := BuildURL("https://example.com", "blog", "x"); got != "https://example.com/blog/x/" {
		t.Errorf("BuildURL = %q", got)
	}
	if got := BuildURL("https://example.com"); got != "https://example.com" {
		t.Errorf("BuildURL = %q", got)
	}
}
