package folio

import (
	"context"
	"testing"
	"time"
)

func TestRenderLimiterBlocksAfterMax(t *testing.T) {
	limiter := NewRenderLimiter(2, 200*time.Millisecond)
	ip := "203.0.113.10"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first render to be allowed")
	}
	if !limiter.Allow(ip) {
		t.Fatalf("expected second render to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected third render to be blocked")
	}
}

func TestRenderLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewRenderLimiter(1, 150*time.Millisecond)
	ip := "203.0.113.20"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first render to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected second render to be blocked")
	}

	time.Sleep(200 * time.Millisecond)
	if !limiter.Allow(ip) {
		t.Fatalf("expected render after window to be allowed")
	}
}

func TestRenderLimiterIsPerIP(t *testing.T) {
	limiter := NewRenderLimiter(1, 200*time.Millisecond)

	if !limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be allowed")
	}
	if !limiter.Allow("203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}

func TestRenderLimiterCheckDoesNotRecord(t *testing.T) {
	limiter := NewRenderLimiter(1, time.Minute)
	for i := 0; i < 3; i++ {
		if !limiter.Check("203.0.113.40") {
			t.Fatalf("Check %d blocked without any recorded render", i)
		}
	}
}

func TestRenderLimiterDisabled(t *testing.T) {
	limiter := NewRenderLimiter(0, time.Minute)
	for i := 0; i < 10; i++ {
		if !limiter.Allow("203.0.113.50") {
			t.Fatalf("disabled limiter blocked render %d", i)
		}
	}
	var nilLimiter *RenderLimiter
	if !nilLimiter.Allow("203.0.113.50") {
		t.Fatal("nil limiter blocked a render")
	}
}

func TestRenderLimiterPrune(t *testing.T) {
	limiter := NewRenderLimiter(5, 50*time.Millisecond)
	limiter.Record("203.0.113.60")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		limiter.run(ctx)
		close(done)
	}()
	time.Sleep(150 * time.Millisecond)
	cancel()
	<-done

	limiter.mu.Lock()
	n := len(limiter.renders)
	limiter.mu.Unlock()
	if n != 0 {
		t.Errorf("%d clients left after prune", n)
	}
}
