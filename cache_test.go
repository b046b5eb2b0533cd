package folio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/joeycatai/folio/content"
)

func TestSiteCache(t *testing.T) {
	root := t.TempDir()
	writeSite(t, root)
	cfg := DefaultConfig()
	cfg.Build.ContentDir = filepath.Join(root, "content")
	c := NewSiteCache(cfg)
	ctx := context.Background()

	if !c.LoadedAt().IsZero() {
		t.Fatal("LoadedAt set before first read")
	}
	s1, err := c.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(s1.Posts) != 1 {
		t.Errorf("posts = %d, want 1", len(s1.Posts))
	}
	s2, _ := c.Get(ctx)
	if s1 != s2 {
		t.Error("second Get reloaded content")
	}

	writeFile(t, root, "content/blog/second.md", []byte(`---
title: Second
description: Another post
pubDate: 2026-04-01
---
More.
`))
	c.Invalidate()
	s3, err := c.Get(ctx)
	if err != nil {
		t.Fatalf("Get after Invalidate: %v", err)
	}
	if len(s3.Posts) != 2 {
		t.Errorf("posts after reload = %d, want 2", len(s3.Posts))
	}

	replacement := NewSite(cfg, &content.Collection{})
	c.Set(replacement)
	if got, _ := c.Get(ctx); got != replacement {
		t.Error("Get did not return the site passed to Set")
	}
}

func TestSiteCacheLoadError(t *testing.T) {
	root := t.TempDir()
	writeSite(t, root)
	writeFile(t, root, "content/blog/broken.md", []byte("---\ntitle: [\n---\n"))
	cfg := DefaultConfig()
	cfg.Build.ContentDir = filepath.Join(root, "content")
	c := NewSiteCache(cfg)

	if _, err := c.Get(context.Background()); err == nil {
		t.Fatal("Get succeeded on invalid content")
	}

	if err := os.Remove(filepath.Join(root, "content", "blog", "broken.md")); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(context.Background()); err != nil {
		t.Errorf("Get after fixing content: %v", err)
	}
}
