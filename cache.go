package folio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/joeycatai/folio/content"
)

// SiteCache holds the most recently loaded Site. The first read loads
// content from disk; Invalidate forces the next read to reload.
type SiteCache struct {
	mu     sync.RWMutex
	site   *Site
	loaded time.Time
	cfg    Config
}

// NewSiteCache creates a SiteCache reading content per cfg.
func NewSiteCache(cfg Config) *SiteCache {
	return &SiteCache{cfg: cfg}
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *SiteCache) Invalidate() {
	c.mu.Lock()
	c.site = nil
	c.mu.Unlock()
}

// Set replaces the cached site, e.g. with the one a build just loaded.
func (c *SiteCache) Set(s *Site) {
	c.mu.Lock()
	c.site = s
	c.loaded = time.Now()
	c.mu.Unlock()
}

// LoadedAt reports when the cached site was loaded.
func (c *SiteCache) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *SiteCache) load(ctx context.Context) error {
	if c.site != nil {
		return nil
	}
	coll, err := content.Load(ctx, c.cfg.Build.ContentDir)
	if err != nil {
		return fmt.Errorf("folio: load content: %w", err)
	}
	c.site = NewSite(c.cfg, coll)
	c.loaded = time.Now()
	return nil
}

// Get returns the cached site, loading it if needed.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *SiteCache) Get(ctx context.Context) (*Site, error) {
	c.mu.RLock()
	if c.site != nil {
		s := c.site
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c.site, nil
}
