// Package ratelimit provides an in-memory fixed-window rate limit store.
//
// The store keys counters by client identifier (the middleware passes the
// client IP) and resets each counter when its window elapses. It is safe for
// concurrent use and suitable for a single-instance deployment; a multi-node
// deployment would swap in a shared store behind the same interface.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"stresscast/internal/core"
	"stresscast/internal/types"
)

// sweepInterval bounds how often expired windows are evicted. Sweeping is
// piggybacked on IncrementAndCheck calls rather than a background goroutine.
const sweepInterval = 5 * time.Minute

type window struct {
	count   int
	resetAt time.Time
}

// MemoryStore is a fixed-window counter store held entirely in process memory.
type MemoryStore struct {
	clock types.Clock

	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
}

// NewMemoryStore creates a MemoryStore. A nil clock defaults to the real clock.
func NewMemoryStore(clock types.Clock) *MemoryStore {
	if clock == nil {
		clock = types.RealClock{}
	}
	return &MemoryStore{
		clock:     clock,
		windows:   make(map[string]*window),
		lastSweep: clock.Now(),
	}
}

// IncrementAndCheck increments the counter for key and reports whether the
// request falls within the limit for the current window. The first request
// after a window elapses starts a fresh window.
func (s *MemoryStore) IncrementAndCheck(_ context.Context, key string, limit int, windowDur time.Duration) (core.RateLimitResult, error) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(now)

	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(windowDur)}
		s.windows[key] = w
	}

	w.count++

	remaining := limit - w.count
	if remaining < 0 {
		remaining = 0
	}

	return core.RateLimitResult{
		Allowed:   w.count <= limit,
		Remaining: remaining,
		ResetAt:   w.resetAt,
	}, nil
}

// sweepLocked drops windows that elapsed before the current time. Callers
// must hold s.mu.
func (s *MemoryStore) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now

	for key, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, key)
		}
	}
}

var _ core.RateLimitStore = (*MemoryStore)(nil)
