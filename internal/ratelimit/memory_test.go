package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestMemoryStore_AllowsUpToLimit(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(clock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := store.IncrementAndCheck(ctx, "203.0.113.9", 3, time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if want := 3 - (i + 1); result.Remaining != want {
			t.Errorf("request %d: remaining = %d, want %d", i+1, result.Remaining, want)
		}
	}

	result, err := store.IncrementAndCheck(ctx, "203.0.113.9", 3, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Allowed {
		t.Error("fourth request should be denied")
	}
	if result.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", result.Remaining)
	}
}

func TestMemoryStore_WindowReset(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(clock)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := store.IncrementAndCheck(ctx, "k", 2, time.Minute); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	result, _ := store.IncrementAndCheck(ctx, "k", 2, time.Minute)
	if result.Allowed {
		t.Fatal("third request in window should be denied")
	}

	clock.advance(time.Minute)

	result, err := store.IncrementAndCheck(ctx, "k", 2, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Allowed {
		t.Error("first request of new window should be allowed")
	}
	if result.Remaining != 1 {
		t.Errorf("remaining = %d, want 1", result.Remaining)
	}
	if want := clock.Now().Add(time.Minute); !result.ResetAt.Equal(want) {
		t.Errorf("resetAt = %v, want %v", result.ResetAt, want)
	}
}

func TestMemoryStore_KeysAreIndependent(t *testing.T) {
	store := NewMemoryStore(newFakeClock())
	ctx := context.Background()

	if _, err := store.IncrementAndCheck(ctx, "a", 1, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, _ := store.IncrementAndCheck(ctx, "a", 1, time.Minute)
	if result.Allowed {
		t.Error("key a should be exhausted")
	}

	result, _ = store.IncrementAndCheck(ctx, "b", 1, time.Minute)
	if !result.Allowed {
		t.Error("key b should have its own counter")
	}
}

func TestMemoryStore_SweepEvictsExpiredWindows(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(clock)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if _, err := store.IncrementAndCheck(ctx, key, 10, time.Minute); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	clock.advance(sweepInterval + time.Second)
	if _, err := store.IncrementAndCheck(ctx, "d", 10, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.windows) != 1 {
		t.Errorf("windows after sweep = %d, want 1", len(store.windows))
	}
	if _, ok := store.windows["d"]; !ok {
		t.Error("live window d should survive the sweep")
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore(newFakeClock())
	ctx := context.Background()

	const goroutines = 20
	const perGoroutine = 10

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				if _, err := store.IncrementAndCheck(ctx, "shared", goroutines*perGoroutine, time.Minute); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	result, err := store.IncrementAndCheck(ctx, "shared", goroutines*perGoroutine, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Allowed {
		t.Error("counter should be exhausted after concurrent increments")
	}
}
