package engine

import (
	"math"
	"time"

	"stresscast/internal/types"
)

// Observation is the domain-neutral shape of one historical (region, date)
// row after adaptation. BufferPct is zero for sectors without storage.
type Observation struct {
	RegionID  string
	Date      time.Time
	Demand    float64
	Supply    float64
	BufferPct float64
}

// Simulate runs the scenario over the supplied observations and emits one
// SimulationResult per observation, preserving input order.
//
// For each observation:
//  1. The region display name is resolved from the directory (falling back
//     to the region ID when the directory has no entry).
//  2. Supply is decomposed into baseline/scalable/rainfall shares, the
//     scenario adjustments are applied per share, and the shares are
//     recombined.
//  3. Demand is adjusted by the demand-growth and conservation parameters.
//  4. Stress comes from the stress primitive, with the storage buffer passed
//     through when the profile uses one.
//
// Empty input yields an empty (non-nil) result slice, never an error: the
// caller's aggregator degrades to all-zero statistics.
func Simulate(profile DomainProfile, sc types.Scenario, observations []Observation, regions map[string]string) []types.SimulationResult {
	results := make([]types.SimulationResult, 0, len(observations))

	supplyFactor := profile.BaselineShare +
		profile.ScalableShare*(1+sc.SupplyGrowthPct/100) +
		profile.RainfallShare*(1+sc.RainfallChangePct/100*profile.RainfallCorrelation)

	demandFactor := (1 + sc.DemandGrowthPct/100) * (1 - sc.ConservationPct/100)

	for _, obs := range observations {
		name := regions[obs.RegionID]
		if name == "" {
			name = obs.RegionID
		}

		adjDemand := obs.Demand * demandFactor
		adjSupply := obs.Supply * supplyFactor

		var stress float64
		if profile.UsesBuffer {
			stress = StressWithBuffer(adjDemand, adjSupply, obs.BufferPct)
		} else {
			stress = Stress(adjDemand, adjSupply)
		}

		var unmet float64
		if profile.TracksUnmetDemand {
			unmet = math.Max(0, adjDemand-adjSupply)
		}

		results = append(results, types.SimulationResult{
			RegionID:       obs.RegionID,
			RegionName:     name,
			Date:           obs.Date,
			AdjustedDemand: adjDemand,
			AdjustedSupply: adjSupply,
			Stress:         stress,
			UnmetDemand:    unmet,
		})
	}

	return results
}

// EnergyObservations adapts energy records to the simulator's input shape.
func EnergyObservations(records []types.EnergyRecord) []Observation {
	out := make([]Observation, 0, len(records))
	for _, r := range records {
		out = append(out, Observation{
			RegionID: r.RegionID,
			Date:     r.Date,
			Demand:   r.DemandMWh,
			Supply:   r.SupplyMWh,
		})
	}
	return out
}

// WaterObservations adapts water records, carrying the reservoir level as
// the stress buffer.
func WaterObservations(records []types.WaterRecord) []Observation {
	out := make([]Observation, 0, len(records))
	for _, r := range records {
		out = append(out, Observation{
			RegionID:  r.RegionID,
			Date:      r.Date,
			Demand:    r.DemandML,
			Supply:    r.SupplyML,
			BufferPct: r.ReservoirPct,
		})
	}
	return out
}

// AgricultureObservations adapts agriculture records. Irrigation demand and
// supply drive the stress model; rainfall and temperature are already folded
// into the measured irrigation supply by the ingestion pipeline.
func AgricultureObservations(records []types.AgricultureRecord) []Observation {
	out := make([]Observation, 0, len(records))
	for _, r := range records {
		out = append(out, Observation{
			RegionID: r.RegionID,
			Date:     r.Date,
			Demand:   r.IrrigationDemandML,
			Supply:   r.IrrigationSupplyML,
		})
	}
	return out
}
