package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/gommon/log"

	"github.com/joeycatai/folio"
	"github.com/joeycatai/folio/content"
)

func TestToTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"my-blog", "My Blog"},
		{"myblog", "Myblog"},
		{"a--b", "A  B"},
	}
	for _, tt := range tests {
		if got := toTitle(tt.in); got != tt.want {
			t.Errorf("toTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Lvl{
		"debug": log.DEBUG,
		"WARN":  log.WARN,
		"error": log.ERROR,
		"":      log.INFO,
		"bogus": log.INFO,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRunNewCreatesLoadableSite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-site")
	var out bytes.Buffer
	if err := runNew(dir, &out); err != nil {
		t.Fatalf("runNew: %v", err)
	}
	for _, rel := range []string{"folio.toml", ".gitignore", "public/.gitkeep", "content/blog/hello-world.md", "content/pages/about.md"} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}

	cfg, err := folio.LoadConfig(filepath.Join(dir, "folio.toml"))
	if err != nil {
		t.Fatalf("scaffolded config does not load: %v", err)
	}
	if cfg.Site.Name != "My Site" {
		t.Errorf("Site.Name = %q", cfg.Site.Name)
	}

	coll, err := content.Load(context.Background(), filepath.Join(dir, "content"))
	if err != nil {
		t.Fatalf("scaffolded content does not load: %v", err)
	}
	if len(coll.Articles) != 1 || len(coll.Projects) != 1 || len(coll.Pages) != 2 {
		t.Errorf("loaded %d articles, %d projects, %d pages", len(coll.Articles), len(coll.Projects), len(coll.Pages))
	}

	if err := runNew(dir, &out); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second runNew error = %v", err)
	}
}

func TestRootCommandVersion(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "folio dev\n" {
		t.Errorf("version output = %q", got)
	}
}

func TestRenderReport(t *testing.T) {
	s := renderReport(folio.BuildReport{ID: "abc", Pages: 11, Images: 10, Cached: 4, Bytes: 2048}, "dist")
	for _, want := range []string{"Build abc", "Pages", "11", "2.0 kB", "dist"} {
		if !strings.Contains(s, want) {
			t.Errorf("report missing %q:\n%s", want, s)
		}
	}
}
