package folio

import (
	"context"
	"sync"
	"time"
)

// RenderLimiter caps how many cards each client may have rendered on
// demand per window. Cards served from the store are not counted.
type RenderLimiter struct {
	mu      sync.Mutex
	renders map[string][]time.Time
	max     int
	window  time.Duration
}

// NewRenderLimiter creates a RenderLimiter that allows max renders per
// window. A max of zero or less disables limiting.
func NewRenderLimiter(max int, window time.Duration) *RenderLimiter {
	return &RenderLimiter{
		renders: make(map[string][]time.Time),
		max:     max,
		window:  window,
	}
}

// run drops expired entries every window until ctx is done.
func (l *RenderLimiter) run(ctx context.Context) {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.prune()
		}
	}
}

func (l *RenderLimiter) prune() {
	cutoff := time.Now().Add(-l.window)
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, hits := range l.renders {
		kept := hits[:0]
		for _, t := range hits {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			delete(l.renders, ip)
		} else {
			l.renders[ip] = kept
		}
	}
}

// Allow checks the limit and records a render when allowed.
func (l *RenderLimiter) Allow(ip string) bool {
	if !l.Check(ip) {
		return false
	}
	l.Record(ip)
	return true
}

// Check returns true if the client has not exceeded the limit.
// It does not record a render; call Record once one happens.
func (l *RenderLimiter) Check(ip string) bool {
	if l == nil || l.max <= 0 {
		return true
	}
	cutoff := time.Now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	hits := l.renders[ip]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.renders[ip] = kept
	return len(kept) < l.max
}

// Record registers a render for the given client.
func (l *RenderLimiter) Record(ip string) {
	if l == nil || l.max <= 0 {
		return
	}
	l.mu.Lock()
	l.renders[ip] = append(l.renders[ip], time.Now())
	l.mu.Unlock()
}
