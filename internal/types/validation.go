package types

// DateLayout is the wire format for scenario date parameters.
const DateLayout = "2006-01-02"

// Validation constraint constants.
const (
	MinGrowthPct       = -100.0
	MaxGrowthPct       = 200.0
	MinRainfallPct     = -100.0
	MaxRainfallPct     = 100.0
	MinConservationPct = 0.0
	MaxConservationPct = 100.0

	// MaxScenarioSpanDays caps a simulation period at five years.
	MaxScenarioSpanDays = 1825
)

// ParamBounds describes the allowed range of a scenario percentage parameter.
type ParamBounds struct {
	Field string
	Min   float64
	Max   float64
}

// ScenarioParamBounds defines the authoritative constraints for scenario
// parameters. All components MUST validate against these ranges.
var ScenarioParamBounds = []ParamBounds{
	{Field: "supply_growth_pct", Min: MinGrowthPct, Max: MaxGrowthPct},
	{Field: "demand_growth_pct", Min: MinGrowthPct, Max: MaxGrowthPct},
	{Field: "rainfall_change_pct", Min: MinRainfallPct, Max: MaxRainfallPct},
	{Field: "conservation_pct", Min: MinConservationPct, Max: MaxConservationPct},
}
