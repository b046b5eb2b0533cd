package folio

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchRebuildsOnChange(t *testing.T) {
	a, _, out := newTestApp(t, goFonts(), WithWatchDebounce(20*time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, BuildOptions{SkipOG: true}) }()

	post := filepath.Join(a.Config.Build.ContentDir, "blog")
	want := filepath.Join(out, "blog", "watched", "index.html")
	// The watcher registers its directories asynchronously, so keep
	// touching the file until a rebuild picks it up.
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for !exists(t, want) {
		writeFile(t, post, "watched.md", []byte("---\ntitle: Watched\ndescription: Added while watching\npubDate: 2026-05-01\n---\nBody.\n"))
		select {
		case <-ctx.Done():
			t.Fatal("no rebuild before timeout")
		case err := <-done:
			t.Fatalf("Watch returned early: %v", err)
		case <-tick.C:
		}
	}

	s, err := a.Sites.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Posts) != 2 {
		t.Errorf("posts after rebuild = %d, want 2", len(s.Posts))
	}
	if a.Sites.LoadedAt().IsZero() {
		t.Error("LoadedAt not set after rebuild")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch: %v", err)
	}
}

func TestWatchMissingDirs(t *testing.T) {
	a, _, _ := newTestApp(t, goFonts())
	a.Config.Build.PublicDir = filepath.Join(t.TempDir(), "absent")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Watch(ctx, BuildOptions{}); err != nil {
		t.Errorf("Watch with missing public dir: %v", err)
	}
}
