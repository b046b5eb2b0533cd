package folio

import (
	"github.com/a-h/templ"

	"github.com/joeycatai/folio/content"
	"github.com/joeycatai/folio/views"
)

// notFoundPath is where the 404 page is written.
const notFoundPath = "/404.html"

// page is one HTML document of the site.
type page struct {
	Path      string // "/blog/x/" or notFoundPath
	Component templ.Component
}

// withHeroes returns copies of the site's posts and projects whose hero
// images point at the processed files in heroes.
func (s *Site) withHeroes(heroes map[string]string) ([]content.Article, []content.Project) {
	posts := make([]content.Article, len(s.Posts))
	for i, p := range s.Posts {
		if u, ok := heroes[p.HeroImage]; ok {
			p.HeroImage = u
		}
		posts[i] = p
	}
	projects := make([]content.Project, len(s.Projects))
	for i, p := range s.Projects {
		if u, ok := heroes[p.HeroImage]; ok {
			p.HeroImage = u
		}
		projects[i] = p
	}
	return posts, projects
}

// heroRefs lists every hero image referenced by a published document.
func (s *Site) heroRefs() []string {
	var refs []string
	for _, p := range s.Posts {
		if p.HeroImage != "" {
			refs = append(refs, p.HeroImage)
		}
	}
	for _, p := range s.Projects {
		if p.HeroImage != "" {
			refs = append(refs, p.HeroImage)
		}
	}
	return refs
}

// pages assembles every HTML document: the home page, one per section,
// one per post, project and tag, and the 404 page.
func (s *Site) pages(heroes map[string]string) []page {
	info := s.Info()
	posts, projects := s.withHeroes(heroes)

	out := []page{{Path: "/", Component: views.Home(info, posts, projects)}}
	for _, sec := range s.Config.Sections {
		sec, _ = s.Section(sec.Route)
		p := page{Path: "/" + sec.Route + "/"}
		switch sec.Route {
		case "blog":
			p.Component = views.BlogIndex(info, sec.Title, sec.Description, posts)
		case "projects":
			p.Component = views.ProjectsIndex(info, sec.Title, sec.Description, projects)
		case "tags":
			p.Component = views.TagsIndex(info, sec.Title, sec.Description, s.Tags)
		default:
			p.Component = views.Page(info, sec.Route, sec.Title, sec.Description, s.Content.Pages[sec.Route])
		}
		out = append(out, p)
	}
	for _, p := range posts {
		out = append(out, page{Path: p.Link(), Component: views.Post(info, p, content.RelatedPosts(p, posts))})
	}
	for _, p := range projects {
		out = append(out, page{Path: p.Link(), Component: views.ProjectPage(info, p)})
	}
	for _, tag := range s.Tags.Keys() {
		out = append(out, page{
			Path:      "/tags/" + tag + "/",
			Component: views.TagPage(info, tag, content.PostsWithTag(posts, tag), content.ProjectsWithTag(projects, tag)),
		})
	}
	out = append(out, page{Path: notFoundPath, Component: views.NotFound(info)})
	return out
}
