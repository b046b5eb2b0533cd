package views

import (
	"net/url"
	"path"
	"strings"

	"github.com/joeycatai/folio/content"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
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

// absURL resolves a site-relative path (or passes through an absolute URL).
func absURL(base, p string) string {
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	u, err := url.Parse(base)
	if err != nil {
		return p
	}
	ref, err := url.Parse(p)
	if err != nil {
		return p
	}
	return u.ResolveReference(ref).String()
}

// PathEscape wraps url.PathEscape for use in templates.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// TagHref is the listing page of a tag.
func TagHref(tag string) string {
	return "/tags/" + PathEscape(content.NormalizeTag(tag)) + "/"
}

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	if active {
		return "tag tag--active"
	}
	return "tag"
}

// StatusLabel is the badge text of a project status.
func StatusLabel(s content.Status) string {
	switch s {
	case content.StatusActive:
		return "進行中"
	case content.StatusArchived:
		return "已封存"
	default:
		return "已完成"
	}
}

// WebsiteJsonLD produces Schema.org WebSite JSON-LD data.
func WebsiteJsonLD(site SiteInfo) map[string]interface{} {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      buildURL(site.URL),
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	if site.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  site.Author,
		}
	}
	return data
}

// BlogPostingJsonLD produces Schema.org BlogPosting JSON-LD data for a post.
func BlogPostingJsonLD(site SiteInfo, post content.Article) map[string]interface{} {
	postURL := buildURL(site.URL, "blog", post.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Description,
		"datePublished": content.ISODate(post.PubDate),
		"url":           postURL,
		"inLanguage":    string(post.Lang),
		"image":         absURL(site.URL, "/og/blog/"+post.Slug+".png"),
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.UpdatedDate != nil {
		data["dateModified"] = content.ISODate(*post.UpdatedDate)
	}
	if site.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  site.Author,
		}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	return data
}
