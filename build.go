package folio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joeycatai/folio/content"
	"github.com/joeycatai/folio/routes"
)

// ErrBuildLocked is returned when another build holds the output lock.
var ErrBuildLocked = errors.New("folio: build already running")

// lockPath is the lock file guarding outDir. It sits beside the output
// directory so cleaning the output does not remove it.
func lockPath(outDir string) string {
	return filepath.Clean(outDir) + ".lock"
}

// Build renders the whole site into the output directory: pages, feed,
// sitemap, robots.txt, hero images and OG cards. It records the build in
// the store when one is open.
func (a *App) Build(ctx context.Context, opts BuildOptions) (BuildReport, error) {
	report := BuildReport{ID: uuid.NewString(), StartedAt: time.Now()}
	cfg := a.Config
	if err := cfg.Validate(); err != nil {
		return report, err
	}
	out := cfg.Build.OutputDir

	if err := os.MkdirAll(filepath.Dir(filepath.Clean(out)), 0o755); err != nil {
		return report, fmt.Errorf("folio: create output parent: %w", err)
	}
	lock := flock.New(lockPath(out))
	locked, err := lock.TryLock()
	if err != nil {
		return report, fmt.Errorf("folio: lock output: %w", err)
	}
	if !locked {
		return report, ErrBuildLocked
	}
	defer lock.Unlock()

	coll, err := content.Load(ctx, cfg.Build.ContentDir)
	if err != nil {
		return report, fmt.Errorf("folio: load content: %w", err)
	}
	site := NewSite(cfg, coll)
	a.logger.Infof("loaded %d posts, %d projects, %d tags", len(site.Posts), len(site.Projects), len(site.Tags))

	if err := os.RemoveAll(out); err != nil {
		return report, fmt.Errorf("folio: clean output: %w", err)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return report, fmt.Errorf("folio: create output: %w", err)
	}

	assets, err := fs.Sub(EmbeddedAssets, "embedded")
	if err != nil {
		return report, err
	}
	n, err := copyTree(assets, out)
	if err != nil {
		return report, fmt.Errorf("folio: copy embedded assets: %w", err)
	}
	report.Bytes += n
	if info, err := os.Stat(cfg.Build.PublicDir); err == nil && info.IsDir() {
		n, err := copyTree(os.DirFS(cfg.Build.PublicDir), out)
		if err != nil {
			return report, fmt.Errorf("folio: copy public: %w", err)
		}
		report.Bytes += n
	}

	heroes, n, err := a.processHeroes(site.heroRefs(), cfg.Build.PublicDir, out)
	if err != nil {
		return report, err
	}
	report.Heroes = len(heroes)
	report.Bytes += n

	for _, p := range site.pages(heroes) {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		name, err := pageFile(out, p.Path)
		if err != nil {
			return report, err
		}
		n, err := renderFile(ctx, name, p.Component)
		if err != nil {
			return report, err
		}
		report.Pages++
		report.Bytes += n
	}

	for name, write := range map[string]func(io.Writer) error{
		"rss.xml":     site.WriteRSS,
		"sitemap.xml": site.WriteSitemap,
		"robots.txt":  site.WriteRobots,
	} {
		var buf bytes.Buffer
		if err := write(&buf); err != nil {
			return report, err
		}
		if err := os.WriteFile(filepath.Join(out, name), buf.Bytes(), 0o644); err != nil {
			return report, fmt.Errorf("folio: write %s: %w", name, err)
		}
		report.Bytes += int64(buf.Len())
	}

	if !opts.SkipOG {
		if err := a.buildCards(ctx, site.Routes.Routes(), out, !opts.NoCache, &report); err != nil {
			return report, err
		}
	}

	a.Sites.Set(site)
	report.Duration = time.Since(report.StartedAt)
	if a.Store != nil {
		if err := a.Store.RecordBuild(ctx, report); err != nil {
			a.logger.Warnf("record build: %v", err)
		}
	}
	a.logger.Infof("build %s: %d pages, %d cards (%d cached, %d degraded) in %s",
		report.ID, report.Pages, report.Images, report.Cached, report.Degraded, report.Duration.Round(time.Millisecond))
	return report, nil
}

// buildCards renders every OG route into outDir/og with at most
// OGWorkers renders in flight.
func (a *App) buildCards(ctx context.Context, rs []routes.Route, outDir string, useCache bool, report *BuildReport) error {
	var mu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(a.Config.Build.OGWorkers)
	for _, r := range rs {
		eg.Go(func() error {
			card := a.Card(ctx, r, useCache)
			name, err := outputPath(filepath.Join(outDir, "og"), r.Path+".png")
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
				return fmt.Errorf("folio: create card dir: %w", err)
			}
			if err := os.WriteFile(name, card.PNG, 0o644); err != nil {
				return fmt.Errorf("folio: write card %s: %w", r.Path, err)
			}
			mu.Lock()
			defer mu.Unlock()
			report.Images++
			report.Bytes += int64(len(card.PNG))
			if card.Cached {
				report.Cached++
			}
			if card.Degraded {
				report.Degraded++
			}
			return nil
		})
	}
	return eg.Wait()
}

// copyTree copies every regular file of src into dir, overwriting
// existing files, and returns the bytes written.
func copyTree(src fs.FS, dir string) (int64, error) {
	var total int64
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		in, err := src.Open(p)
		if err != nil {
			return err
		}
		defer in.Close()
		f, err := os.Create(target)
		if err != nil {
			return err
		}
		n, err := io.Copy(f, in)
		total += n
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	})
	return total, err
}
