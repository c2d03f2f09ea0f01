package engine

import (
	"math"

	"stresscast/internal/types"
)

const (
	// analysisHorizonYears is the projection horizon for ROI, NPV, exposure
	// and cost-of-inaction figures.
	analysisHorizonYears = 5

	// paybackCapMonths caps the payback period. Also the sentinel when
	// annual savings are zero and payback is effectively unbounded.
	paybackCapMonths = 60

	// delayPenaltyPerMonth is the fixed penalty rate for deferring the
	// investment. Applied linearly, not geometrically.
	delayPenaltyPerMonth = 0.02

	// delayMonths is the modeled deferral period.
	delayMonths = 6
)

// Analyze converts summary statistics and externally supplied cost constants
// into the economic cost/benefit picture. Pure arithmetic: constants with
// value zero yield zero-valued outputs, never a division error, and no field
// is ever NaN or infinite.
func Analyze(summary types.SummaryStatistics, constants types.CostConstants) types.EconomicAnalysis {
	var stressFraction float64
	if summary.ResultCount > 0 {
		stressFraction = float64(summary.CriticalShortageDays) / float64(summary.ResultCount)
	}

	investment := stressFraction * constants.InfrastructureUnitCostUSD
	costsPrevented := float64(summary.CriticalShortageDays) * constants.StressDayCostUSD
	savings := summary.TotalUnmetDemand*constants.UnitShortageCostUSD + costsPrevented

	discounted := discountedTotal(savings, constants.DiscountRate)

	var roi float64
	if investment > 0 {
		roi = (discounted - investment) / investment
	}

	npv := discounted - investment

	var payback int
	switch {
	case investment <= 0:
		payback = 0
	case savings <= 0:
		payback = paybackCapMonths
	default:
		payback = int(math.Round(investment / savings * 12))
		if payback < 0 {
			payback = 0
		}
		if payback > paybackCapMonths {
			payback = paybackCapMonths
		}
	}

	opportunityCost := savings * delayMonths / 12 * delayPenaltyPerMonth
	exposure := costsPrevented * analysisHorizonYears

	var inaction float64
	for year := 1; year <= analysisHorizonYears; year++ {
		inaction += costsPrevented * math.Pow(1+constants.EscalationRate, float64(year))
	}

	return types.EconomicAnalysis{
		InfrastructureInvestmentUSD: round2(investment),
		AnnualSavingsUSD:            round2(savings),
		AnnualCostsPreventedUSD:     round2(costsPrevented),
		ROI5Year:                    round2(roi),
		PaybackPeriodMonths:         payback,
		NetPresentValueUSD:          round2(npv),
		OpportunityCost6MoDelayUSD:  round2(opportunityCost),
		TotalEconomicExposureUSD:    round2(exposure),
		CostOfInaction5YearUSD:      round2(inaction),
	}
}

// discountedTotal sums the annual benefit discounted to present value over
// the analysis horizon. A discount rate at or below -100% would divide by
// zero or flip signs, so discounting is skipped in that degenerate case.
func discountedTotal(annualBenefit, rate float64) float64 {
	if 1+rate <= 0 {
		return annualBenefit * analysisHorizonYears
	}
	var total float64
	for year := 1; year <= analysisHorizonYears; year++ {
		total += annualBenefit / math.Pow(1+rate, float64(year))
	}
	return total
}

// round2 rounds to 2 decimal places for USD reporting. Non-finite values
// collapse to 0 so malformed constants can never leak NaN into a response.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}
