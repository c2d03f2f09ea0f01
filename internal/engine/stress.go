// Package engine implements the deterministic scenario-simulation and
// economic-analysis core: the stress primitive, scenario parameter
// validation, the generic domain simulator, the summary aggregator, and the
// economic analyzer. Everything in this package is pure -- no I/O, no
// clocks, no logging -- and deterministic given the same inputs.
package engine

import "math"

// maxBufferRelief is the largest fraction of stress a full storage buffer
// can absorb.
const maxBufferRelief = 0.3

// Stress computes the stress ratio for a demand/supply pair without a
// storage buffer. The result is always in [0,1].
func Stress(demand, supply float64) float64 {
	return StressWithBuffer(demand, supply, 0)
}

// StressWithBuffer computes the stress ratio for a demand/supply pair,
// dampened by an optional storage buffer (0-100, e.g. a reservoir level).
//
//   - demand <= 0 means no stress regardless of supply.
//   - supply <= 0 with positive demand is a total shortage.
//   - A positive buffer reduces stress by up to 30%, scaled linearly by
//     buffer/100.
//
// The result is clamped to [0,1] regardless of intermediate arithmetic, so
// negative or otherwise malformed inputs never escape the range.
func StressWithBuffer(demand, supply, bufferPct float64) float64 {
	if demand <= 0 {
		return 0
	}
	if supply <= 0 {
		return 1
	}

	shortage := math.Max(0, demand-supply)
	raw := shortage / math.Max(demand, 1)

	if bufferPct > 0 {
		raw *= 1 - maxBufferRelief*math.Min(bufferPct/100, 1)
	}

	return clamp01(raw)
}

// clamp01 restricts v to the [0,1] interval. NaN collapses to 0 so callers
// never observe an undefined stress value.
func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
