package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/joeycatai/folio/markdown"
)

// Collection directories under the content root.
const (
	BlogDir     = "blog"
	ProjectsDir = "projects"
	PagesDir    = "pages"
)

// Load reads every collection under dir. Articles, projects and pages are
// loaded concurrently; any invalid document fails the whole load.
func Load(ctx context.Context, dir string) (*Collection, error) {
	c := &Collection{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		articles, err := LoadArticles(ctx, filepath.Join(dir, BlogDir))
		c.Articles = articles
		return err
	})
	g.Go(func() error {
		projects, err := LoadProjects(ctx, filepath.Join(dir, ProjectsDir))
		c.Projects = projects
		return err
	})
	g.Go(func() error {
		pages, err := LoadPages(ctx, filepath.Join(dir, PagesDir))
		c.Pages = pages
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadArticles parses every article under dir in path order.
func LoadArticles(ctx context.Context, dir string) ([]Article, error) {
	var articles []Article
	err := walkDocuments(ctx, dir, BlogDir, func(src source) []Issue {
		var fm articleFrontMatter
		if err := decodeFrontMatter(src.front, &fm); err != nil {
			return []Issue{{"", err.Error()}}
		}
		if issues := fm.validate(); len(issues) > 0 {
			return issues
		}
		slug := src.slug(fm.Slug)
		if issues := checkSlug(slug); len(issues) > 0 {
			return issues
		}
		a := fm.article(slug, src.body)
		a.ReadingTime = markdown.ReadingTime(src.body)
		a.Source = src.rel
		articles = append(articles, a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := checkUniqueSlugs(BlogDir, len(articles), func(i int) (string, string) {
		return articles[i].Slug, articles[i].Source
	}); err != nil {
		return nil, err
	}
	return articles, nil
}

// LoadProjects parses every project under dir in path order.
func LoadProjects(ctx context.Context, dir string) ([]Project, error) {
	var projects []Project
	err := walkDocuments(ctx, dir, ProjectsDir, func(src source) []Issue {
		var fm projectFrontMatter
		if err := decodeFrontMatter(src.front, &fm); err != nil {
			return []Issue{{"", err.Error()}}
		}
		if issues := fm.validate(); len(issues) > 0 {
			return issues
		}
		slug := src.slug(fm.Slug)
		if issues := checkSlug(slug); len(issues) > 0 {
			return issues
		}
		p := fm.project(slug, src.body)
		p.ReadingTime = markdown.ReadingTime(src.body)
		p.Source = src.rel
		projects = append(projects, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := checkUniqueSlugs(ProjectsDir, len(projects), func(i int) (string, string) {
		return projects[i].Slug, projects[i].Source
	}); err != nil {
		return nil, err
	}
	return projects, nil
}

// LoadPages reads the free-form pages keyed by file name.
func LoadPages(ctx context.Context, dir string) (map[string]Page, error) {
	pages := make(map[string]Page)
	err := walkDocuments(ctx, dir, PagesDir, func(src source) []Issue {
		var fm pageFrontMatter
		if err := decodeFrontMatter(src.front, &fm); err != nil {
			return []Issue{{"", err.Error()}}
		}
		name := src.slug("")
		pages[name] = Page{Name: name, Title: fm.Title, Body: src.body}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

type source struct {
	rel   string // slash-separated path relative to the collection dir
	front string
	body  string
}

// slug derives the document slug from its path unless override is set.
func (s source) slug(override string) string {
	if o := strings.TrimSpace(override); o != "" {
		return strings.Trim(o, "/")
	}
	p := strings.TrimSuffix(s.rel, path.Ext(s.rel))
	segs := strings.Split(p, "/")
	for i, seg := range segs {
		segs[i] = strings.Join(strings.Fields(strings.ToLower(seg)), "-")
	}
	return strings.Join(segs, "/")
}

func isDocument(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".mdx":
		return true
	}
	return false
}

// walkDocuments calls parse for every Markdown file under dir. Schema
// issues from all files are collected and returned together.
func walkDocuments(ctx context.Context, dir, collection string, parse func(source) []Issue) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	var errs []error
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !isDocument(d.Name()) || strings.HasPrefix(d.Name(), "_") {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		src := source{rel: filepath.ToSlash(rel)}
		front, body, ok := markdown.SplitFrontMatter(string(raw))
		if !ok {
			errs = append(errs, &ValidationError{Collection: collection, Source: src.rel, Issues: []Issue{{"", "missing front matter"}}})
			return nil
		}
		src.front, src.body = front, body
		if issues := parse(src); len(issues) > 0 {
			errs = append(errs, &ValidationError{Collection: collection, Source: src.rel, Issues: issues})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("load %s: %w", collection, err)
	}
	return errors.Join(errs...)
}

func checkUniqueSlugs(collection string, n int, at func(int) (slug, source string)) error {
	seen := make(map[string]string, n)
	var errs []error
	for i := 0; i < n; i++ {
		slug, src := at(i)
		if prev, ok := seen[slug]; ok {
			errs = append(errs, &ValidationError{
				Collection: collection,
				Source:     src,
				Issues:     []Issue{{"slug", fmt.Sprintf("%q already used by %s", slug, prev)}},
			})
			continue
		}
		seen[slug] = src
	}
	return errors.Join(errs...)
}
