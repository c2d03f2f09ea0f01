package db

import (
	"context"
	"time"

	"stresscast/internal/types"
)

// HistoryRepository provides read access to the per-domain daily measurement
// tables. It implements datasource.HistoryStore. Rows are filtered by date
// range server-side and returned ordered by date ascending with regions
// interleaved as stored, which is the ordering contract the simulator
// preserves.
type HistoryRepository struct {
	db DBTX
}

// NewHistoryRepository creates a HistoryRepository backed by the given
// database connection (pool or transaction).
func NewHistoryRepository(db DBTX) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// EnergyRecords returns energy measurements within [start, end].
func (r *HistoryRepository) EnergyRecords(ctx context.Context, start, end time.Time) ([]types.EnergyRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT region_id, date, demand_mwh, supply_mwh
		FROM energy_daily
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, region_id`, start, end)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query energy records", err)
	}
	defer rows.Close()

	var records []types.EnergyRecord
	for rows.Next() {
		var rec types.EnergyRecord
		if err := rows.Scan(&rec.RegionID, &rec.Date, &rec.DemandMWh, &rec.SupplyMWh); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan energy row", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "energy row iteration failed", err)
	}

	return records, nil
}

// WaterRecords returns water measurements within [start, end].
func (r *HistoryRepository) WaterRecords(ctx context.Context, start, end time.Time) ([]types.WaterRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT region_id, date, demand_ml, supply_ml, reservoir_pct
		FROM water_daily
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, region_id`, start, end)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query water records", err)
	}
	defer rows.Close()

	var records []types.WaterRecord
	for rows.Next() {
		var rec types.WaterRecord
		if err := rows.Scan(&rec.RegionID, &rec.Date, &rec.DemandML, &rec.SupplyML, &rec.ReservoirPct); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan water row", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "water row iteration failed", err)
	}

	return records, nil
}

// AgricultureRecords returns agriculture measurements within [start, end].
func (r *HistoryRepository) AgricultureRecords(ctx context.Context, start, end time.Time) ([]types.AgricultureRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT region_id, date, rainfall_mm, temperature_c, irrigation_demand_ml, irrigation_supply_ml
		FROM agriculture_daily
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, region_id`, start, end)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query agriculture records", err)
	}
	defer rows.Close()

	var records []types.AgricultureRecord
	for rows.Next() {
		var rec types.AgricultureRecord
		if err := rows.Scan(&rec.RegionID, &rec.Date, &rec.RainfallMM, &rec.TemperatureC, &rec.IrrigationDemandML, &rec.IrrigationSupplyML); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan agriculture row", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "agriculture row iteration failed", err)
	}

	return records, nil
}
