package types

import (
	"encoding/json"
	"time"
)

// Region is immutable reference data owned by the historical data store.
// The engine only ever reads it.
type Region struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// EnergyRecord is one measured row per (region, date) for the energy sector.
type EnergyRecord struct {
	RegionID  string    `json:"region_id" db:"region_id"`
	Date      time.Time `json:"date" db:"date"`
	DemandMWh float64   `json:"demand_mwh" db:"demand_mwh"`
	SupplyMWh float64   `json:"supply_mwh" db:"supply_mwh"`
}

// WaterRecord is one measured row per (region, date) for the water sector.
// ReservoirPct is the storage reserve level in percent (0-100).
type WaterRecord struct {
	RegionID     string    `json:"region_id" db:"region_id"`
	Date         time.Time `json:"date" db:"date"`
	DemandML     float64   `json:"demand_ml" db:"demand_ml"`
	SupplyML     float64   `json:"supply_ml" db:"supply_ml"`
	ReservoirPct float64   `json:"reservoir_pct" db:"reservoir_pct"`
}

// AgricultureRecord is one measured row per (region, date) for the
// agriculture sector. Irrigation demand/supply drive the stress model;
// rainfall and temperature are the raw crop-relevant measurements.
type AgricultureRecord struct {
	RegionID           string    `json:"region_id" db:"region_id"`
	Date               time.Time `json:"date" db:"date"`
	RainfallMM         float64   `json:"rainfall_mm" db:"rainfall_mm"`
	TemperatureC       float64   `json:"temperature_c" db:"temperature_c"`
	IrrigationDemandML float64   `json:"irrigation_demand_ml" db:"irrigation_demand_ml"`
	IrrigationSupplyML float64   `json:"irrigation_supply_ml" db:"irrigation_supply_ml"`
}

// Scenario carries the what-if parameters for one simulation request.
// Created per request, validated before use, never mutated afterwards.
// Dates use the YYYY-MM-DD wire format and are interpreted as UTC.
type Scenario struct {
	Domain    Domain `json:"domain" validate:"required,sim_domain"`
	StartDate string `json:"start_date" validate:"required,sim_date"`
	EndDate   string `json:"end_date" validate:"required,sim_date"`

	// Percentage adjustments. Supply-side growth applies to the scalable
	// (renewable/efficiency) share of supply; rainfall change passes through
	// to the rainfall-sensitive share at partial correlation.
	SupplyGrowthPct   float64 `json:"supply_growth_pct"`
	DemandGrowthPct   float64 `json:"demand_growth_pct"`
	RainfallChangePct float64 `json:"rainfall_change_pct"`
	ConservationPct   float64 `json:"conservation_pct"`
}

// DateRange returns the parsed start/end dates. Callers must have run the
// scenario through engine.ValidateScenario first; parse errors are returned
// as-is for defensive use.
func (s Scenario) DateRange() (start, end time.Time, err error) {
	start, err = time.ParseInLocation(DateLayout, s.StartDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = time.ParseInLocation(DateLayout, s.EndDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// ValidationResult is the structured outcome of scenario validation.
// Invalid parameters are a value, not an error: callers are expected to
// check validity before simulating.
type ValidationResult struct {
	IsValid bool   `json:"is_valid"`
	Error   string `json:"error,omitempty"`
}

// SimulationResult is one engine output row per (region, date).
// Transient; held only for the duration of one simulation call.
type SimulationResult struct {
	RegionID       string    `json:"region_id"`
	RegionName     string    `json:"region_name"`
	Date           time.Time `json:"date"`
	AdjustedDemand float64   `json:"adjusted_demand"`
	AdjustedSupply float64   `json:"adjusted_supply"`
	Stress         float64   `json:"stress"`
	UnmetDemand    float64   `json:"unmet_demand"`
}

// RegionStress is one entry of the ranked top-stressed list.
type RegionStress struct {
	RegionID   string  `json:"region_id"`
	RegionName string  `json:"region_name"`
	AvgStress  float64 `json:"avg_stress"`
}

// SummaryStatistics is the aggregate over one simulation's results.
// Every field is zero-valued (never NaN) when the result set is empty.
type SummaryStatistics struct {
	AvgStress            float64        `json:"avg_stress"`
	MaxStress            float64        `json:"max_stress"`
	TotalUnmetDemand     float64        `json:"total_unmet_demand"`
	CriticalShortageDays int            `json:"critical_shortage_days"`
	ResultCount          int            `json:"result_count"`
	TopStressedRegions   []RegionStress `json:"top_stressed_regions"`
}

// CostConstants are externally supplied economic configuration, not engine
// state. One set exists per domain.
type CostConstants struct {
	InfrastructureUnitCostUSD float64 `json:"infrastructure_unit_cost_usd"`
	UnitShortageCostUSD       float64 `json:"unit_shortage_cost_usd"`
	StressDayCostUSD          float64 `json:"stress_day_cost_usd"`
	DiscountRate              float64 `json:"discount_rate"`
	EscalationRate            float64 `json:"escalation_rate"`
}

// EconomicAnalysis is the financial picture derived from a summary plus cost
// constants. All values are plain USD numbers; no currency conversion.
type EconomicAnalysis struct {
	InfrastructureInvestmentUSD float64 `json:"infrastructure_investment_usd"`
	AnnualSavingsUSD            float64 `json:"annual_savings_usd"`
	AnnualCostsPreventedUSD     float64 `json:"annual_costs_prevented_usd"`
	ROI5Year                    float64 `json:"roi_5_year"`
	PaybackPeriodMonths         int     `json:"payback_period_months"`
	NetPresentValueUSD          float64 `json:"net_present_value_usd"`
	OpportunityCost6MoDelayUSD  float64 `json:"opportunity_cost_6mo_delay_usd"`
	TotalEconomicExposureUSD    float64 `json:"total_economic_exposure_usd"`
	CostOfInaction5YearUSD      float64 `json:"cost_of_inaction_5_year_usd"`
}

// EventEnvelope is the standard wrapper for all published events.
type EventEnvelope struct {
	EventID   string          `json:"event_id"`   // "evt_..." unique ID for deduplication
	EventType string          `json:"event_type"` // Dot-namespaced (e.g., "analysis.ready")
	Timestamp time.Time       `json:"timestamp"`  // ISO 8601 UTC
	Source    string          `json:"source"`     // Component name
	Version   string          `json:"version"`    // Schema version
	Payload   json.RawMessage `json:"payload"`
	Metadata  *EventMetadata  `json:"metadata,omitempty"`
}

// EventMetadata carries optional correlation and tracing data.
type EventMetadata struct {
	CorrelationID string `json:"correlation_id,omitempty"`
	TraceID       string `json:"trace_id,omitempty"`
}

// AnalysisReadyPayload is the payload schema of analysis.ready events.
// CONTRACT: consumed by the external narrative-generation service; changes
// require a Version bump on the envelope.
type AnalysisReadyPayload struct {
	RunID     string            `json:"run_id"`
	Domain    Domain            `json:"domain"`
	Scenario  Scenario          `json:"scenario"`
	Summary   SummaryStatistics `json:"summary"`
	Economics EconomicAnalysis  `json:"economics"`
}
