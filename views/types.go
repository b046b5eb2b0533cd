package views

//go:generate templ generate

import "time"

// SiteInfo holds site-wide settings. Every page receives it so nothing
// is hardcoded in templates.
type SiteInfo struct {
	Name          string
	URL           string // canonical origin, no trailing slash
	Description   string
	Author        string
	TwitterHandle string
	OGImage       string // fallback share image path
	GAID          string // analytics measurement ID; empty disables the snippet
	Language      string
	Nav           []NavItem
}

// NavItem is one entry of the header navigation.
type NavItem struct {
	Title string
	Href  string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string // empty on the home page
	Description string
	Path        string // site-relative, canonical + og:url
	OGType      string // "website" or "article"
	OGImage     string // site-relative card path
	Published   *time.Time
	Modified    *time.Time
	Tags        []string
	JSONLD      any // encoded into the ld+json script; nil means WebSite
}
