package engine

import (
	"math"
	"sort"

	"stresscast/internal/types"
)

// topRegionLimit caps the ranked most-stressed region list.
const topRegionLimit = 5

// Summarize reduces a simulation's results into summary statistics.
//
// Empty input produces all-zero statistics with an empty (non-nil) top list,
// never NaN. Average and maximum stress are rounded to 3 decimal places, as
// is each region's average in the ranked list. The top list holds at most
// five regions, sorted descending by average stress; ties keep the order in
// which regions first appear in the results (stable sort).
func Summarize(profile DomainProfile, results []types.SimulationResult) types.SummaryStatistics {
	summary := types.SummaryStatistics{
		TopStressedRegions: []types.RegionStress{},
	}
	if len(results) == 0 {
		return summary
	}

	type regionAgg struct {
		id    string
		name  string
		sum   float64
		count int
	}

	var (
		stressSum float64
		maxStress float64
		byRegion  = make(map[string]*regionAgg)
		order     []*regionAgg
	)

	for _, r := range results {
		stressSum += r.Stress
		if r.Stress > maxStress {
			maxStress = r.Stress
		}
		if profile.TracksUnmetDemand {
			summary.TotalUnmetDemand += r.UnmetDemand
		}
		if r.Stress > profile.CriticalStressThreshold {
			summary.CriticalShortageDays++
		}

		agg, ok := byRegion[r.RegionID]
		if !ok {
			agg = &regionAgg{id: r.RegionID, name: r.RegionName}
			byRegion[r.RegionID] = agg
			order = append(order, agg)
		}
		agg.sum += r.Stress
		agg.count++
	}

	summary.ResultCount = len(results)
	summary.AvgStress = round3(stressSum / float64(len(results)))
	summary.MaxStress = round3(maxStress)

	// Stable sort keeps first-appearance order for equal averages.
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].sum/float64(order[i].count) > order[j].sum/float64(order[j].count)
	})

	for i, agg := range order {
		if i == topRegionLimit {
			break
		}
		summary.TopStressedRegions = append(summary.TopStressedRegions, types.RegionStress{
			RegionID:   agg.id,
			RegionName: agg.name,
			AvgStress:  round3(agg.sum / float64(agg.count)),
		})
	}

	return summary
}

// round3 rounds to 3 decimal places for stress reporting.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
