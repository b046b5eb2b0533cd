// Package routes enumerates the site's pages and OG card routes.
package routes

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/joeycatai/folio/content"
	"github.com/joeycatai/folio/og"
)

// Kind classifies a route.
type Kind int

const (
	KindStatic Kind = iota
	KindTag
	KindPost
	KindProject
)

func (k Kind) String() string {
	switch k {
	case KindTag:
		return "tag"
	case KindPost:
		return "post"
	case KindProject:
		return "project"
	default:
		return "static"
	}
}

// DefaultRoute is the card used by pages without their own.
const DefaultRoute = "default"

// Section is a top-level listing page with its own card.
type Section struct {
	Route       string
	Title       string
	Description string // empty means the site description
}

// Site is the part of the site configuration routes depend on.
type Site struct {
	Name        string
	Description string
	Sections    []Section
}

// Route is one OG card. Path has no leading slash or extension, e.g.
// "blog/hello-world".
type Route struct {
	Path    string
	Kind    Kind
	Request og.Request
}

// ImagePath returns the URL path of the route's PNG.
func (r Route) ImagePath() string {
	return "/og/" + r.Path + ".png"
}

// OG enumerates every card: the default, one per section, one per tag in
// tags, one per post and one per project. posts are expected to be
// published posts only.
func OG(site Site, posts []content.Article, projects []content.Project, tags content.TagIndex) []Route {
	out := []Route{{
		Path:    DefaultRoute,
		Kind:    KindStatic,
		Request: og.Request{Title: site.Name, Description: site.Description, Tags: []string{}},
	}}
	for _, s := range site.Sections {
		desc := s.Description
		if desc == "" {
			desc = site.Description
		}
		out = append(out, Route{
			Path:    s.Route,
			Kind:    KindStatic,
			Request: og.Request{Title: s.Title, Description: desc, Tags: []string{}},
		})
	}
	for _, tag := range tags.Keys() {
		out = append(out, Route{
			Path:    "tags/" + tag,
			Kind:    KindTag,
			Request: TagRequest(tag),
		})
	}
	for _, p := range posts {
		out = append(out, Route{
			Path:    "blog/" + p.Slug,
			Kind:    KindPost,
			Request: og.Request{Title: p.Title, Description: p.Description, Tags: p.Tags},
		})
	}
	for _, p := range projects {
		out = append(out, Route{
			Path:    "projects/" + p.Slug,
			Kind:    KindProject,
			Request: og.Request{Title: p.Title, Description: p.Description, Tags: p.Tags},
		})
	}
	return out
}

// TagRequest is the card for a tag listing page.
func TagRequest(tag string) og.Request {
	return og.Request{
		Title:       "#" + tag,
		Description: fmt.Sprintf("所有標記為 %s 的文章與專案", tag),
		Tags:        []string{tag},
	}
}

// Table indexes routes by path.
type Table struct {
	routes map[string]Route
	order  []string
}

// NewTable indexes routes. Later duplicates replace earlier ones.
func NewTable(routes []Route) *Table {
	t := &Table{routes: make(map[string]Route, len(routes))}
	for _, r := range routes {
		if _, dup := t.routes[r.Path]; !dup {
			t.order = append(t.order, r.Path)
		}
		t.routes[r.Path] = r
	}
	return t
}

// Lookup resolves a request path such as "/og/blog/x.png", "blog/x.png"
// or "blog/x".
func (t *Table) Lookup(p string) (Route, bool) {
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	p = strings.TrimPrefix(p, "og/")
	p = strings.TrimSuffix(p, ".png")
	r, ok := t.routes[p]
	return r, ok
}

// Routes returns the routes in insertion order.
func (t *Table) Routes() []Route {
	out := make([]Route, 0, len(t.order))
	for _, p := range t.order {
		out = append(out, t.routes[p])
	}
	return out
}

// Len returns the number of routes.
func (t *Table) Len() int { return len(t.routes) }

// Pages lists the HTML page paths of the site, each ending in "/", in
// sorted order.
func Pages(site Site, posts []content.Article, projects []content.Project, tags content.TagIndex) []string {
	set := map[string]bool{"/": true}
	for _, s := range site.Sections {
		set["/"+s.Route+"/"] = true
	}
	for _, tag := range tags.Keys() {
		set["/tags/"+tag+"/"] = true
	}
	for _, p := range posts {
		set[p.Link()] = true
	}
	for _, p := range projects {
		set[p.Link()] = true
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
