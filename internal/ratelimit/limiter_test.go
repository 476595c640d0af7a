package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(max int, window time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)}
	l := New(max, window)
	l.now = clock.Now
	return l, clock
}

func TestAllow_RejectsOverBudget(t *testing.T) {
	l, _ := newTestLimiter(10, time.Minute)

	for i := 0; i < 10; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d rejected, want accepted", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("request 11 accepted, want rejected")
	}
}

func TestAllow_WindowResets(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)

	l.Allow("a")
	l.Allow("a")
	if l.Allow("a") {
		t.Fatal("third request accepted inside window")
	}

	clock.Advance(time.Minute)
	if !l.Allow("a") {
		t.Error("request after window rejected, want accepted")
	}
}

func TestAllow_SlidingPrune(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)

	l.Allow("a")
	clock.Advance(40 * time.Second)
	l.Allow("a")
	clock.Advance(30 * time.Second)

	// First hit is 70s old and pruned; second is 30s old.
	if !l.Allow("a") {
		t.Fatal("expected accept after oldest hit expired")
	}
	if l.Allow("a") {
		t.Error("expected reject with two hits in window")
	}
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	if !l.Allow("a") || !l.Allow("b") {
		t.Fatal("first request per client should be accepted")
	}
	if l.Allow("a") {
		t.Error("second request for a accepted")
	}
	if got := l.Clients(); got != 2 {
		t.Errorf("Clients: got %d, want 2", got)
	}
}

func TestAllow_RejectedRequestsDoNotExtendWindow(t *testing.T) {
	l, clock := newTestLimiter(1, time.Minute)

	l.Allow("a")
	clock.Advance(50 * time.Second)
	if l.Allow("a") {
		t.Fatal("expected reject")
	}
	clock.Advance(10 * time.Second)
	if !l.Allow("a") {
		t.Error("expected accept once the only recorded hit expired")
	}
}

func TestAllow_ConcurrentSameClient(t *testing.T) {
	l, _ := newTestLimiter(50, time.Minute)

	var accepted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("shared") {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := accepted.Load(); got != 50 {
		t.Errorf("accepted: got %d, want 50", got)
	}
}
