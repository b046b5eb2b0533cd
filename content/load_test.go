package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadCollection(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "blog/hello-world.md", `---
title: Hello World
description: First post
pubDate: 2024-03-01
tags: [Go, Web]
---
Hello there, this is the body.
`)
	writeFile(t, root, "blog/2024/Second Post.mdx", `---
title: Second
description: Nested post
pubDate: 2024-04-01T10:00:00Z
updatedDate: 2024-04-02
lang: en
draft: true
---
import X from './x'

Body.
`)
	writeFile(t, root, "blog/_partial.md", "not a document")
	writeFile(t, root, "projects/tool.md", `---
title: Tool
description: A tool
pubDate: 2023-01-01
github: https://github.com/joeycatai/tool
featured: true
---
`)
	writeFile(t, root, "pages/about.md", "---\ntitle: About me\n---\nHi.\n")

	c, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Articles) != 2 {
		t.Fatalf("articles = %d, want 2", len(c.Articles))
	}

	nested := c.Articles[0]
	if nested.Slug != "2024/second-post" {
		t.Errorf("nested slug = %q, want %q", nested.Slug, "2024/second-post")
	}
	if nested.Lang != LangEn || !nested.Draft || nested.UpdatedDate == nil {
		t.Errorf("nested article fields not decoded: %+v", nested)
	}

	hello := c.Articles[1]
	if hello.Slug != "hello-world" || hello.Lang != LangZhTW {
		t.Errorf("hello = %+v", hello)
	}
	if hello.ReadingTime != 1 {
		t.Errorf("ReadingTime = %d, want 1", hello.ReadingTime)
	}
	if hello.Link() != "/blog/hello-world/" {
		t.Errorf("Link = %q", hello.Link())
	}

	if len(c.Projects) != 1 {
		t.Fatalf("projects = %d, want 1", len(c.Projects))
	}
	p := c.Projects[0]
	if p.Status != StatusCompleted || !p.Featured || len(p.Tags) != 0 {
		t.Errorf("project defaults not applied: %+v", p)
	}
	if page, ok := c.Pages["about"]; !ok || page.Title != "About me" {
		t.Errorf("about page = %+v, %v", page, ok)
	}
	if got := len(c.Posts()); got != 1 {
		t.Errorf("Posts() = %d, want 1 (draft excluded)", got)
	}
}

func TestLoadMissingDirsIsEmpty(t *testing.T) {
	c, err := Load(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Articles) != 0 || len(c.Projects) != 0 || len(c.Pages) != 0 {
		t.Errorf("expected empty collection, got %+v", c)
	}
}

func TestLoadValidationIsFatal(t *testing.T) {
	tests := []struct {
		name    string
		rel     string
		doc     string
		wantMsg string
	}{
		{"missing title", "blog/a.md", "---\ndescription: d\npubDate: 2024-01-01\n---\n", "title: required"},
		{"title too long", "blog/a.md", "---\ntitle: " + strings.Repeat("x", 101) + "\ndescription: d\npubDate: 2024-01-01\n---\n", "at most 100"},
		{"description too long", "blog/a.md", "---\ntitle: t\ndescription: " + strings.Repeat("字", 301) + "\npubDate: 2024-01-01\n---\n", "at most 300"},
		{"missing date", "blog/a.md", "---\ntitle: t\ndescription: d\n---\n", "pubDate: required"},
		{"bad date", "blog/a.md", "---\ntitle: t\ndescription: d\npubDate: yesterday\n---\n", "invalid date"},
		{"empty tag", "blog/a.md", "---\ntitle: t\ndescription: d\npubDate: 2024-01-01\ntags: [go, \"\"]\n---\n", "tags[1]"},
		{"bad lang", "blog/a.md", "---\ntitle: t\ndescription: d\npubDate: 2024-01-01\nlang: fr\n---\n", "lang"},
		{"unknown key", "blog/a.md", "---\ntitle: t\ndescription: d\npubDate: 2024-01-01\nauthor: me\n---\n", "author"},
		{"no front matter", "blog/a.md", "just text", "missing front matter"},
		{"bad status", "projects/p.md", "---\ntitle: t\ndescription: d\npubDate: 2024-01-01\nstatus: paused\n---\n", "status"},
		{"bad github", "projects/p.md", "---\ntitle: t\ndescription: d\npubDate: 2024-01-01\ngithub: not-a-url\n---\n", "github"},
		{"tag with parent dir", "blog/a.md", "---\ntitle: t\ndescription: d\npubDate: 2024-01-01\ntags: [go, ../../escaped]\n---\n", "tags[1]"},
		{"tag with slash", "blog/a.md", "---\ntitle: t\ndescription: d\npubDate: 2024-01-01\ntags: [a/b]\n---\n", "tags[0]"},
		{"slug with parent dir", "blog/a.md", "---\ntitle: t\ndescription: d\npubDate: 2024-01-01\nslug: ../x\n---\n", "slug"},
		{"slug with empty segment", "projects/p.md", "---\ntitle: t\ndescription: d\npubDate: 2024-01-01\nslug: a//b\n---\n", "slug"},
		{"backslash slug", "projects/p.md", "---\ntitle: t\ndescription: d\npubDate: 2024-01-01\nslug: 'a\\b'\n---\n", "slug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, root, tt.rel, tt.doc)
			_, err := Load(context.Background(), root)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("error should wrap ErrInvalidDocument: %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error should be a *ValidationError: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadDuplicateSlug(t *testing.T) {
	root := t.TempDir()
	doc := "---\ntitle: t\ndescription: d\npubDate: 2024-01-01\nslug: same\n---\n"
	writeFile(t, root, "blog/a.md", doc)
	writeFile(t, root, "blog/b.md", doc)
	_, err := Load(context.Background(), root)
	if err == nil || !strings.Contains(err.Error(), `"same" already used`) {
		t.Fatalf("expected duplicate slug error, got %v", err)
	}
}
