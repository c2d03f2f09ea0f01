package engine

import (
	"fmt"
	"time"

	"stresscast/internal/types"
)

// ValidateScenario checks that scenario parameters fall within their
// documented bounds and that the date range is well-formed. It fails fast:
// the first violation found is reported and later fields are not examined.
// It never panics and never returns an error value; invalid input is a
// ValidationResult, not an error.
func ValidateScenario(sc types.Scenario) types.ValidationResult {
	if !sc.Domain.Valid() {
		return invalid(fmt.Sprintf("domain must be one of energy, water, agriculture; got %q", sc.Domain))
	}

	values := map[string]float64{
		"supply_growth_pct":   sc.SupplyGrowthPct,
		"demand_growth_pct":   sc.DemandGrowthPct,
		"rainfall_change_pct": sc.RainfallChangePct,
		"conservation_pct":    sc.ConservationPct,
	}
	for _, b := range types.ScenarioParamBounds {
		v := values[b.Field]
		if v < b.Min || v > b.Max {
			return invalid(fmt.Sprintf("%s must be between %g and %g; got %g", b.Field, b.Min, b.Max, v))
		}
	}

	start, err := time.ParseInLocation(types.DateLayout, sc.StartDate, time.UTC)
	if err != nil {
		return invalid(fmt.Sprintf("start_date must be a valid %s date; got %q", types.DateLayout, sc.StartDate))
	}
	end, err := time.ParseInLocation(types.DateLayout, sc.EndDate, time.UTC)
	if err != nil {
		return invalid(fmt.Sprintf("end_date must be a valid %s date; got %q", types.DateLayout, sc.EndDate))
	}
	if !end.After(start) {
		return invalid("end_date must be strictly after start_date")
	}
	if end.Sub(start) > types.MaxScenarioSpanDays*24*time.Hour {
		return invalid(fmt.Sprintf("date range must not exceed %d days", types.MaxScenarioSpanDays))
	}

	return types.ValidationResult{IsValid: true}
}

func invalid(msg string) types.ValidationResult {
	return types.ValidationResult{IsValid: false, Error: msg}
}
