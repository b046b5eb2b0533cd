package routes

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joeycatai/folio/content"
)

var testSite = Site{
	Name:        "joeycatai",
	Description: "site description",
	Sections: []Section{
		{Route: "blog", Title: "文章", Description: "技術筆記、開發心得與隨筆紀錄"},
		{Route: "about", Title: "關於我"},
	},
}

func fixtures() ([]content.Article, []content.Project, content.TagIndex) {
	articles := []content.Article{
		{Slug: "hello", Title: "Hello", Description: "d", Tags: []string{"TypeScript", "Go"}},
		{Slug: "draft", Title: "Draft", Tags: []string{"Hidden"}, Draft: true},
	}
	projects := []content.Project{
		{Slug: "tool", Title: "Tool", Description: "p", Tags: []string{"typescript"}},
	}
	posts := content.SortedPosts(articles)
	return posts, projects, content.AllTags(articles, projects)
}

func TestOGRoutes(t *testing.T) {
	posts, projects, tags := fixtures()
	rs := OG(testSite, posts, projects, tags)

	var paths []string
	for _, r := range rs {
		paths = append(paths, r.Path)
	}
	want := []string{"default", "blog", "about", "tags/go", "tags/typescript", "blog/hello", "projects/tool"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}

	table := NewTable(rs)
	about, _ := table.Lookup("about")
	if about.Request.Description != "site description" {
		t.Errorf("section without description should use the site's, got %q", about.Request.Description)
	}
	tag, _ := table.Lookup("tags/typescript")
	if tag.Kind != KindTag || tag.Request.Title != "#typescript" ||
		tag.Request.Description != "所有標記為 typescript 的文章與專案" {
		t.Errorf("tag route = %+v", tag)
	}
	if diff := cmp.Diff([]string{"typescript"}, tag.Request.Tags); diff != "" {
		t.Errorf("tag route tags (-want +got):\n%s", diff)
	}
	def, _ := table.Lookup("default")
	if def.Request.Tags == nil || len(def.Request.Tags) != 0 {
		t.Errorf("static routes carry an empty tag list, got %#v", def.Request.Tags)
	}
}

func TestOneTagRoutePerKey(t *testing.T) {
	articles := []content.Article{
		{Slug: "a", Tags: []string{"Go", "GO", " go "}},
		{Slug: "b", Tags: []string{"Rust"}},
	}
	tags := content.AllTags(articles, nil)

	var tagPaths []string
	for _, r := range OG(testSite, content.SortedPosts(articles), nil, tags) {
		if r.Kind == KindTag {
			tagPaths = append(tagPaths, r.Path)
		}
	}
	if diff := cmp.Diff([]string{"tags/go", "tags/rust"}, tagPaths); diff != "" {
		t.Errorf("tag routes (-want +got):\n%s", diff)
	}
}

func TestLookup(t *testing.T) {
	posts, projects, tags := fixtures()
	table := NewTable(OG(testSite, posts, projects, tags))
	tests := []struct {
		path string
		kind Kind
		ok   bool
	}{
		{"/og/blog/hello.png", KindPost, true},
		{"blog/hello.png", KindPost, true},
		{"blog/hello", KindPost, true},
		{"projects/tool", KindProject, true},
		{"/og/default.png", KindStatic, true},
		{"tags/go.png", KindTag, true},
		{"blog/draft", 0, false},
		{"blog/../../etc/passwd", 0, false},
		{"nope", 0, false},
	}
	for _, tt := range tests {
		r, ok := table.Lookup(tt.path)
		if ok != tt.ok {
			t.Errorf("Lookup(%q) ok = %v, want %v", tt.path, ok, tt.ok)
			continue
		}
		if ok && r.Kind != tt.kind {
			t.Errorf("Lookup(%q) kind = %v, want %v", tt.path, r.Kind, tt.kind)
		}
	}
	if got := table.Len(); got != 7 {
		t.Errorf("Len = %d, want 7", got)
	}
}

func TestPages(t *testing.T) {
	posts, projects, tags := fixtures()
	got := Pages(testSite, posts, projects, tags)
	want := []string{"/", "/about/", "/blog/", "/blog/hello/", "/projects/tool/", "/tags/go/", "/tags/typescript/"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Pages mismatch (-want +got):\n%s", diff)
	}
}

func TestImagePath(t *testing.T) {
	if got := (Route{Path: "blog/2024/x"}).ImagePath(); got != "/og/blog/2024/x.png" {
		t.Errorf("ImagePath = %q", got)
	}
}
