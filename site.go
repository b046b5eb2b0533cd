package folio

import (
	"github.com/joeycatai/folio/content"
	"github.com/joeycatai/folio/routes"
	"github.com/joeycatai/folio/views"
)

// Site is an immutable snapshot of loaded content plus everything derived
// from it. Builds and the preview server read from a Site; reloading
// content produces a new one.
type Site struct {
	Config   Config
	Content  *content.Collection
	Posts    []content.Article // published, newest first
	Projects []content.Project // featured first
	Tags     content.TagIndex
	Routes   *routes.Table
}

// NewSite derives listings, tags and OG routes from c.
func NewSite(cfg Config, c *content.Collection) *Site {
	s := &Site{
		Config:   cfg,
		Content:  c,
		Posts:    c.Posts(),
		Projects: c.SortedProjects(),
		Tags:     c.Tags(),
	}
	s.Routes = routes.NewTable(routes.OG(cfg.RouteSite(), s.Posts, s.Projects, s.Tags))
	return s
}

// Pages lists every HTML page path.
func (s *Site) Pages() []string {
	return routes.Pages(s.Config.RouteSite(), s.Posts, s.Projects, s.Tags)
}

// Info is the site identity handed to templates.
func (s *Site) Info() views.SiteInfo {
	cfg := s.Config
	info := views.SiteInfo{
		Name:          cfg.Site.Name,
		URL:           cfg.Site.URL,
		Description:   cfg.Site.Description,
		Author:        cfg.Site.Author,
		TwitterHandle: cfg.Site.TwitterHandle,
		OGImage:       cfg.Site.OGImage,
		GAID:          cfg.Site.GAID,
		Language:      cfg.Site.Language,
	}
	for _, sec := range cfg.Sections {
		info.Nav = append(info.Nav, views.NavItem{Title: sec.Title, Href: "/" + sec.Route + "/"})
	}
	return info
}

// Section returns the configured section for route.
func (s *Site) Section(route string) (SectionConfig, bool) {
	for _, sec := range s.Config.Sections {
		if sec.Route == route {
			if sec.Description == "" {
				sec.Description = s.Config.Site.Description
			}
			return sec, true
		}
	}
	return SectionConfig{}, false
}
