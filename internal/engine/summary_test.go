package engine

import (
	"fmt"
	"testing"

	"stresscast/internal/types"
)

func resultWithStress(regionID string, stress float64) types.SimulationResult {
	return types.SimulationResult{
		RegionID:   regionID,
		RegionName: regionID,
		Date:       day(1),
		Stress:     stress,
	}
}

func TestSummarize_EmptyInput(t *testing.T) {
	summary := Summarize(WaterProfile, nil)
	if summary.AvgStress != 0 || summary.MaxStress != 0 {
		t.Errorf("empty summary stress = %g/%g, want 0/0", summary.AvgStress, summary.MaxStress)
	}
	if summary.TotalUnmetDemand != 0 || summary.CriticalShortageDays != 0 || summary.ResultCount != 0 {
		t.Errorf("empty summary extras not zero: %+v", summary)
	}
	if summary.TopStressedRegions == nil || len(summary.TopStressedRegions) != 0 {
		t.Errorf("top regions = %v, want empty non-nil slice", summary.TopStressedRegions)
	}
}

func TestSummarize_SingleRegionMean(t *testing.T) {
	results := []types.SimulationResult{
		resultWithStress("nrt", 0.2),
		resultWithStress("nrt", 0.4),
		resultWithStress("nrt", 0.6),
	}
	summary := Summarize(WaterProfile, results)

	if summary.AvgStress != 0.4 {
		t.Errorf("avg stress = %g, want 0.4", summary.AvgStress)
	}
	if summary.MaxStress != 0.6 {
		t.Errorf("max stress = %g, want 0.6", summary.MaxStress)
	}
	if len(summary.TopStressedRegions) != 1 {
		t.Fatalf("top regions length %d, want 1", len(summary.TopStressedRegions))
	}
	if summary.TopStressedRegions[0].AvgStress != 0.4 {
		t.Errorf("region avg = %g, want mean of the region's values", summary.TopStressedRegions[0].AvgStress)
	}
}

func TestSummarize_SevenRegionsKeepsTopFiveDescending(t *testing.T) {
	var results []types.SimulationResult
	for i := 0; i < 7; i++ {
		results = append(results, resultWithStress(fmt.Sprintf("r%d", i), float64(i+1)*0.1))
	}
	summary := Summarize(WaterProfile, results)

	top := summary.TopStressedRegions
	if len(top) != 5 {
		t.Fatalf("top regions length %d, want 5", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i-1].AvgStress <= top[i].AvgStress {
			t.Errorf("top list not strictly descending at %d: %g <= %g", i, top[i-1].AvgStress, top[i].AvgStress)
		}
	}
	if top[0].RegionID != "r6" || top[4].RegionID != "r2" {
		t.Errorf("unexpected ranking: %+v", top)
	}
}

func TestSummarize_TiesKeepFirstAppearanceOrder(t *testing.T) {
	results := []types.SimulationResult{
		resultWithStress("bbb", 0.5),
		resultWithStress("aaa", 0.5),
		resultWithStress("ccc", 0.9),
	}
	summary := Summarize(WaterProfile, results)
	top := summary.TopStressedRegions
	if top[0].RegionID != "ccc" || top[1].RegionID != "bbb" || top[2].RegionID != "aaa" {
		t.Errorf("tie order broken: %+v", top)
	}
}

func TestSummarize_Rounding(t *testing.T) {
	results := []types.SimulationResult{
		resultWithStress("nrt", 0.1),
		resultWithStress("nrt", 0.2),
		resultWithStress("nrt", 0.2),
	}
	summary := Summarize(WaterProfile, results)
	// 0.5/3 = 0.16666... rounds to 3 decimals.
	if summary.AvgStress != 0.167 {
		t.Errorf("avg stress = %g, want 0.167", summary.AvgStress)
	}
	if summary.TopStressedRegions[0].AvgStress != 0.167 {
		t.Errorf("region avg = %g, want independently rounded 0.167", summary.TopStressedRegions[0].AvgStress)
	}
}

func TestSummarize_CriticalThresholdPerDomain(t *testing.T) {
	results := []types.SimulationResult{
		resultWithStress("nrt", 0.65), // critical for energy (>0.6) only
		resultWithStress("nrt", 0.75), // critical for both
		resultWithStress("nrt", 0.55), // critical for neither
		resultWithStress("nrt", 0.7),  // threshold is strict: not critical for water
	}

	energy := Summarize(EnergyProfile, results)
	if energy.CriticalShortageDays != 3 {
		t.Errorf("energy critical days = %d, want 3 (threshold 0.6)", energy.CriticalShortageDays)
	}

	water := Summarize(WaterProfile, results)
	if water.CriticalShortageDays != 1 {
		t.Errorf("water critical days = %d, want 1 (threshold 0.7, strict)", water.CriticalShortageDays)
	}
}

func TestSummarize_UnmetDemandAggregation(t *testing.T) {
	results := []types.SimulationResult{
		{RegionID: "nrt", Stress: 0.3, UnmetDemand: 120},
		{RegionID: "cst", Stress: 0.2, UnmetDemand: 80},
	}

	water := Summarize(WaterProfile, results)
	if water.TotalUnmetDemand != 200 {
		t.Errorf("water unmet total = %g, want 200", water.TotalUnmetDemand)
	}

	// Energy does not track unmet demand even if rows carry a value.
	energy := Summarize(EnergyProfile, results)
	if energy.TotalUnmetDemand != 0 {
		t.Errorf("energy unmet total = %g, want 0", energy.TotalUnmetDemand)
	}
}
