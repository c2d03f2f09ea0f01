package db

import (
	"context"

	"stresscast/internal/types"
)

// RegionRepository provides read access to the regions reference table.
// It implements datasource.RegionDirectory.
type RegionRepository struct {
	db DBTX
}

// NewRegionRepository creates a RegionRepository backed by the given
// database connection (pool or transaction).
func NewRegionRepository(db DBTX) *RegionRepository {
	return &RegionRepository{db: db}
}

// ListRegions returns every region ordered by ID for stable output.
func (r *RegionRepository) ListRegions(ctx context.Context) ([]types.Region, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM regions ORDER BY id`)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list regions", err)
	}
	defer rows.Close()

	var regions []types.Region
	for rows.Next() {
		var reg types.Region
		if err := rows.Scan(&reg.ID, &reg.Name); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan region row", err)
		}
		regions = append(regions, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "region row iteration failed", err)
	}

	return regions, nil
}
