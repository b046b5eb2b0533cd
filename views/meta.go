package views

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/joeycatai/folio/content"
)

const recentPosts = 5

func siteLang(site SiteInfo) string {
	if site.Language == "" {
		return string(content.LangZhTW)
	}
	return site.Language
}

func ogLocale(site SiteInfo) string {
	return strings.ReplaceAll(siteLang(site), "-", "_")
}

func pageTitle(site SiteInfo, meta PageMeta) string {
	if meta.Title == "" || meta.Title == site.Name {
		return site.Name
	}
	return meta.Title + " | " + site.Name
}

func (m PageMeta) titleOrSite(site SiteInfo) string {
	if m.Title == "" {
		return site.Name
	}
	return m.Title
}

func (m PageMeta) description(site SiteInfo) string {
	if m.Description == "" {
		return site.Description
	}
	return m.Description
}

func (m PageMeta) ogType() string {
	if m.OGType == "" {
		return "website"
	}
	return m.OGType
}

func (m PageMeta) imageURL(site SiteInfo) string {
	image := m.OGImage
	if image == "" {
		image = site.OGImage
	}
	return absURL(site.URL, image)
}

func (m PageMeta) jsonLD(site SiteInfo) any {
	if m.JSONLD != nil {
		return m.JSONLD
	}
	return WebsiteJsonLD(site)
}

func gtagURL(id string) string {
	return "https://www.googletagmanager.com/gtag/js?id=" + id
}

// gtagConfig is the inline gtag bootstrap. The ID is embedded as a JSON
// string literal.
func gtagConfig(id string) string {
	lit, err := templ.JSONString(id)
	if err != nil {
		return ""
	}
	return "<script>window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag('js',new Date());gtag('config'," +
		lit + ");</script>"
}

func navActive(current, href string) bool {
	return current != "/" && strings.HasPrefix(current, href)
}

func recent(posts []content.Article) []content.Article {
	if len(posts) > recentPosts {
		return posts[:recentPosts]
	}
	return posts
}

func featuredProjects(projects []content.Project) []content.Project {
	var out []content.Project
	for _, p := range projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

func postMeta(site SiteInfo, post content.Article) PageMeta {
	return PageMeta{
		Title:       post.Title,
		Description: post.Description,
		Path:        post.Link(),
		OGType:      "article",
		OGImage:     "/og/blog/" + post.Slug + ".png",
		Published:   &post.PubDate,
		Modified:    post.UpdatedDate,
		Tags:        post.Tags,
		JSONLD:      BlogPostingJsonLD(site, post),
	}
}

func projectMeta(p content.Project) PageMeta {
	return PageMeta{
		Title:       p.Title,
		Description: p.Description,
		Path:        p.Link(),
		OGType:      "article",
		OGImage:     "/og/projects/" + p.Slug + ".png",
		Published:   &p.PubDate,
		Tags:        p.Tags,
	}
}

func tagDescription(tag string) string {
	return fmt.Sprintf("所有標記為 %s 的文章與專案", tag)
}

func tagMeta(tag string) PageMeta {
	return PageMeta{
		Title:       "#" + tag,
		Description: tagDescription(tag),
		Path:        TagHref(tag),
		OGImage:     "/og/tags/" + PathEscape(content.NormalizeTag(tag)) + ".png",
	}
}

// pageHeading prefers the document's own title over the section title.
func pageHeading(title string, page content.Page) string {
	if page.Title != "" {
		return page.Title
	}
	return title
}

func hasBody(page content.Page) bool {
	return strings.TrimSpace(page.Body) != ""
}

func readingTimeLabel(minutes int) string {
	return fmt.Sprintf("%d 分鐘閱讀", minutes)
}

func tagCountLabel(tag string, n int) string {
	return fmt.Sprintf("#%s (%d)", tag, n)
}
