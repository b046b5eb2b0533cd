package og

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FontCache memoizes font data by weight and exact character subset.
// Concurrent misses for the same key share one fetch. Entries are never
// evicted; failed fetches are not cached.
type FontCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
	group   singleflight.Group
	source  FontSource
}

// NewFontCache creates a FontCache in front of src.
func NewFontCache(src FontSource) *FontCache {
	return &FontCache{source: src, entries: make(map[string][]byte)}
}

func cacheKey(weight int, text string) string {
	return strconv.Itoa(weight) + ":" + text
}

// Fetch implements FontSource.
func (c *FontCache) Fetch(ctx context.Context, weight int, text string) ([]byte, error) {
	key := cacheKey(weight, text)
	c.mu.RLock()
	data, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return data, nil
	}

	// A shared fetch ignores caller cancellation. Callers stop waiting on
	// their own ctx.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		c.mu.RLock()
		data, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return data, nil
		}
		data, err := c.source.Fetch(fetchCtx, weight, text)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = data
		c.mu.Unlock()
		return data, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]byte), nil
	}
}

// Len returns the number of cached entries.
func (c *FontCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
