// Package content defines the site's document collections (articles and
// projects), loads them from Markdown files with YAML front matter,
// validates them, and answers the queries the pages and routes need.
package content

import "time"

// Language is the locale an article is written in.
type Language string

const (
	LangZhTW Language = "zh-TW"
	LangEn   Language = "en"
)

// Status is a project's lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// Article is a blog post.
type Article struct {
	Slug        string
	Title       string
	Description string
	PubDate     time.Time
	UpdatedDate *time.Time
	HeroImage   string
	Tags        []string
	Draft       bool
	Lang        Language
	Body        string
	ReadingTime int
	Source      string // path of the source file, relative to the content dir
}

// Link returns the article's site-relative permalink.
func (a Article) Link() string {
	return "/blog/" + a.Slug + "/"
}

// Project is a portfolio entry.
type Project struct {
	Slug        string
	Title       string
	Description string
	PubDate     time.Time
	HeroImage   string
	Tags        []string
	GitHub      string
	Demo        string
	Featured    bool
	Status      Status
	Body        string
	ReadingTime int
	Source      string
}

// Link returns the project's site-relative permalink.
func (p Project) Link() string {
	return "/projects/" + p.Slug + "/"
}

// Page is a free-form Markdown page such as about or contact.
type Page struct {
	Name  string
	Title string
	Body  string
}

// Collection holds every document loaded for one build.
type Collection struct {
	Articles []Article
	Projects []Project
	Pages    map[string]Page
}

// Posts returns published articles, newest first.
func (c *Collection) Posts() []Article {
	return SortedPosts(c.Articles)
}

// SortedProjects returns projects with featured ones first, newest first within each group.
func (c *Collection) SortedProjects() []Project {
	return SortedProjects(c.Projects)
}

// Tags returns the tag index over published articles and all projects.
func (c *Collection) Tags() TagIndex {
	return AllTags(c.Articles, c.Projects)
}
