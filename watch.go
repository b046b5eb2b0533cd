package folio

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultWatchDebounce batches the burst of events an editor save produces.
const defaultWatchDebounce = 500 * time.Millisecond

// Watch rebuilds the site whenever a file under the content or public
// directory changes, until ctx is cancelled. Failed rebuilds are logged
// and watching continues.
func (a *App) Watch(ctx context.Context, opts BuildOptions) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, dir := range []string{a.Config.Build.ContentDir, a.Config.Build.PublicDir} {
		if err := watchTree(w, dir); err != nil {
			return err
		}
	}
	a.logger.Infof("watching %s and %s", a.Config.Build.ContentDir, a.Config.Build.PublicDir)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watchTree(w, ev.Name); err != nil {
						a.logger.Warnf("watch %s: %v", ev.Name, err)
					}
				}
			}
			a.logger.Debugf("change: %s", ev)
			debounce = time.After(a.watchDebounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.logger.Warnf("watcher: %v", err)

		case <-debounce:
			debounce = nil
			prev := a.Sites.LoadedAt()
			a.Sites.Invalidate()
			if _, err := a.Build(ctx, opts); err != nil {
				a.logger.Errorf("rebuild failed: %v", err)
				continue
			}
			if !prev.IsZero() {
				a.logger.Infof("content reloaded, previous load %s ago", time.Since(prev).Round(time.Second))
			}
		}
	}
}

// watchTree adds dir and every directory below it. fsnotify does not
// watch recursively. A missing dir is not an error.
func watchTree(w *fsnotify.Watcher, dir string) error {
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
