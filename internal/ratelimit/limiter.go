package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a fixed-window request throttle keyed by client identifier.
//
// Each client keeps an ordered list of request timestamps. A request prunes
// timestamps older than the window and is accepted only while fewer than max
// remain. State is process-local and grows with the number of distinct
// clients; nothing evicts idle clients.
type Limiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time
}

// New returns a Limiter accepting max requests per client per window.
func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:    max,
		window: window,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
	}
}

// Allow records a request from client and reports whether it is within budget.
// Rejected requests are not recorded.
func (l *Limiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	times := l.hits[client]

	kept := times[:0]
	for _, t := range times {
		if now.Sub(t) < l.window {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.max {
		l.hits[client] = kept
		return false
	}

	l.hits[client] = append(kept, now)
	return true
}

// Clients returns the number of client identifiers currently tracked.
func (l *Limiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}
