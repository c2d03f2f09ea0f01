package engine

import "stresscast/internal/types"

// DomainProfile parameterizes the generic simulator for one infrastructure
// sector. The three sectors share one algorithm; only these constants differ.
type DomainProfile struct {
	Domain types.Domain

	// Supply decomposition. The three shares must sum to 1 so a
	// zero-adjustment scenario reproduces the historical supply exactly.
	BaselineShare float64 // fixed share, unaffected by scenario parameters
	ScalableShare float64 // share scaled by the supply-growth parameter
	RainfallShare float64 // rainfall-sensitive share (hydro, reservoirs, irrigation)

	// RainfallCorrelation is the pass-through factor from rainfall change to
	// the rainfall-sensitive supply share. Rainfall only partially drives
	// supply, so this is well below 1.
	RainfallCorrelation float64

	// CriticalStressThreshold marks a day as a critical shortage.
	// Deliberately asymmetric between sectors: 0.6 for energy high-stress
	// days, 0.7 for water/agriculture critical-shortage days.
	CriticalStressThreshold float64

	UsesBuffer        bool // pass the record's storage buffer into the stress primitive
	TracksUnmetDemand bool // emit and aggregate unmet demand
}

// rainfallPassThrough is the shared partial-correlation factor.
const rainfallPassThrough = 0.66

// EnergyProfile configures the energy sector: grid baseline, a solar/wind
// scalable share, and a hydro share sensitive to rainfall.
var EnergyProfile = DomainProfile{
	Domain:                  types.DomainEnergy,
	BaselineShare:           0.55,
	ScalableShare:           0.30,
	RainfallShare:           0.15,
	RainfallCorrelation:     rainfallPassThrough,
	CriticalStressThreshold: 0.6,
	UsesBuffer:              false,
	TracksUnmetDemand:       false,
}

// WaterProfile configures the water sector. Reservoir levels act as a stress
// buffer and unmet demand is tracked for the economic analysis.
var WaterProfile = DomainProfile{
	Domain:                  types.DomainWater,
	BaselineShare:           0.50,
	ScalableShare:           0.20,
	RainfallShare:           0.30,
	RainfallCorrelation:     rainfallPassThrough,
	CriticalStressThreshold: 0.7,
	UsesBuffer:              true,
	TracksUnmetDemand:       true,
}

// AgricultureProfile configures the agriculture sector: irrigation baseline,
// an efficiency-scalable share, and the largest rainfall-sensitive share.
var AgricultureProfile = DomainProfile{
	Domain:                  types.DomainAgriculture,
	BaselineShare:           0.40,
	ScalableShare:           0.25,
	RainfallShare:           0.35,
	RainfallCorrelation:     rainfallPassThrough,
	CriticalStressThreshold: 0.7,
	UsesBuffer:              false,
	TracksUnmetDemand:       true,
}

// ProfileFor returns the profile for a domain. Unknown domains fall back to
// the water profile; callers are expected to validate the domain first.
func ProfileFor(d types.Domain) DomainProfile {
	switch d {
	case types.DomainEnergy:
		return EnergyProfile
	case types.DomainWater:
		return WaterProfile
	case types.DomainAgriculture:
		return AgricultureProfile
	default:
		return WaterProfile
	}
}
