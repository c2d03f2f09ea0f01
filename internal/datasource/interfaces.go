// Package datasource defines the engine's view of the historical data store:
// a read-only, potentially-empty, potentially-failing upstream collaborator.
// The engine never substitutes default data on failure; errors propagate to
// the caller untouched.
package datasource

import (
	"context"
	"time"

	"stresscast/internal/types"
)

// RegionDirectory resolves region reference data.
type RegionDirectory interface {
	// ListRegions returns every known region. The directory is immutable
	// reference data owned by the store.
	ListRegions(ctx context.Context) ([]types.Region, error)
}

// HistoryStore provides per-domain daily measurement arrays, filtered
// server-side by date range (inclusive) and ordered by date ascending with
// regions interleaved as stored.
type HistoryStore interface {
	EnergyRecords(ctx context.Context, start, end time.Time) ([]types.EnergyRecord, error)
	WaterRecords(ctx context.Context, start, end time.Time) ([]types.WaterRecord, error)
	AgricultureRecords(ctx context.Context, start, end time.Time) ([]types.AgricultureRecord, error)
}

// Store bundles the directory and history interfaces the simulation service
// depends on.
type Store interface {
	RegionDirectory
	HistoryStore
}
