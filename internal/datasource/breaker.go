package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"stresscast/internal/types"
)

// BreakerStore decorates a Store with a circuit breaker so that a failing
// data store sheds load quickly instead of queueing every simulation request
// behind slow timeouts. All five read paths share one breaker: the store is
// a single upstream and fails as a unit.
type BreakerStore struct {
	inner   Store
	breaker *gobreaker.CircuitBreaker[any]
}

// NewBreakerStore wraps the given store with a circuit breaker. The breaker
// trips after five consecutive failures and probes again after 30 seconds.
func NewBreakerStore(inner Store) *BreakerStore {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "history-store",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
	return &BreakerStore{inner: inner, breaker: cb}
}

// execute routes a typed call through the shared breaker, translating
// open-circuit rejections into the upstream error taxonomy.
func execute[T any](cb *gobreaker.CircuitBreaker[any], fn func() (T, error)) (T, error) {
	v, err := cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, types.NewAppError(
				types.ErrCodeUpstreamHistory,
				"historical data store is unavailable (circuit open)",
				err,
			)
		}
		return zero, err
	}
	return v.(T), nil
}

// ListRegions implements RegionDirectory.
func (s *BreakerStore) ListRegions(ctx context.Context) ([]types.Region, error) {
	return execute(s.breaker, func() ([]types.Region, error) {
		return s.inner.ListRegions(ctx)
	})
}

// EnergyRecords implements HistoryStore.
func (s *BreakerStore) EnergyRecords(ctx context.Context, start, end time.Time) ([]types.EnergyRecord, error) {
	return execute(s.breaker, func() ([]types.EnergyRecord, error) {
		return s.inner.EnergyRecords(ctx, start, end)
	})
}

// WaterRecords implements HistoryStore.
func (s *BreakerStore) WaterRecords(ctx context.Context, start, end time.Time) ([]types.WaterRecord, error) {
	return execute(s.breaker, func() ([]types.WaterRecord, error) {
		return s.inner.WaterRecords(ctx, start, end)
	})
}

// AgricultureRecords implements HistoryStore.
func (s *BreakerStore) AgricultureRecords(ctx context.Context, start, end time.Time) ([]types.AgricultureRecord, error) {
	return execute(s.breaker, func() ([]types.AgricultureRecord, error) {
		return s.inner.AgricultureRecords(ctx, start, end)
	})
}
