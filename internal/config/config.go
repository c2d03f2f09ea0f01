// Package config defines the global configuration structure for the
// stresscast platform. Configuration is loaded once at process
// initialization and is immutable thereafter. It follows 12-Factor App
// principles by strictly separating code from configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File -> Struct Defaults (Lowest)
//
// Any missing required value or invalid format causes the application to
// fail immediately on startup.
package config

import (
	"time"

	"stresscast/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type
// used throughout configuration to prevent accidental logging of sensitive
// values.
type SecretString = types.SecretString

// Config is the top-level configuration struct for the stresscast platform.
// It is populated once during process initialization and never modified.
// Sub-components receive only the specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"stresscast-api"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain Configurations
	Server        ServerConfig
	Database      DatabaseConfig
	AWS           AWSConfig
	RateLimit     RateLimitConfig
	Costs         CostsConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	// RequestTimeout is the soft deadline applied to request contexts.
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"29s"`
}

// DatabaseConfig holds database connection and pool tuning parameters.
type DatabaseConfig struct {
	URL SecretString `envconfig:"DATABASE_URL" validate:"required"`

	// Tuning Parameters
	MaxConns          int           `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns          int           `envconfig:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime   time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	AcquireTimeout    time.Duration `envconfig:"DB_ACQUIRE_TIMEOUT" default:"2s"`
	HealthCheckPeriod time.Duration `envconfig:"DB_HEALTH_CHECK_PERIOD" default:"1m"`
}

// AWSConfig holds AWS resource identifiers and regional configuration.
// AnalysisQueueURL may be empty in local development, in which case event
// publishing is disabled.
type AWSConfig struct {
	Region           string `envconfig:"AWS_REGION" default:"us-east-1"`
	AnalysisQueueURL string `envconfig:"SQS_ANALYSIS_QUEUE" validate:"omitempty,url"`

	// LocalStack Support (Empty in Prod)
	EndpointURL string `envconfig:"AWS_ENDPOINT_URL"`
}

// RateLimitConfig holds the per-client-IP rate limit settings.
type RateLimitConfig struct {
	Max    int           `envconfig:"RATE_LIMIT_MAX" default:"120"`
	Window time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// ObservabilityConfig holds telemetry and monitoring settings.
type ObservabilityConfig struct {
	MetricNamespace string `envconfig:"METRIC_NAMESPACE" default:"StressCast"`
	EnableMetrics   bool   `envconfig:"ENABLE_METRICS" default:"true"`
}

// CostsConfig holds the per-domain economic constants. Defaults reflect the
// reference deployment's planning assumptions and are expected to be
// overridden per environment.
type CostsConfig struct {
	Energy      EnergyCosts
	Water       WaterCosts
	Agriculture AgricultureCosts
}

// EnergyCosts are the energy sector's economic constants.
type EnergyCosts struct {
	InfrastructureUnitCostUSD float64 `envconfig:"ENERGY_INFRA_UNIT_COST_USD" default:"2500000"`
	UnitShortageCostUSD       float64 `envconfig:"ENERGY_UNIT_SHORTAGE_COST_USD" default:"250"`
	StressDayCostUSD          float64 `envconfig:"ENERGY_STRESS_DAY_COST_USD" default:"180000"`
	DiscountRate              float64 `envconfig:"ENERGY_DISCOUNT_RATE" default:"0.05"`
	EscalationRate            float64 `envconfig:"ENERGY_ESCALATION_RATE" default:"0.05"`
}

// WaterCosts are the water sector's economic constants.
type WaterCosts struct {
	InfrastructureUnitCostUSD float64 `envconfig:"WATER_INFRA_UNIT_COST_USD" default:"1800000"`
	UnitShortageCostUSD       float64 `envconfig:"WATER_UNIT_SHORTAGE_COST_USD" default:"85"`
	StressDayCostUSD          float64 `envconfig:"WATER_STRESS_DAY_COST_USD" default:"120000"`
	DiscountRate              float64 `envconfig:"WATER_DISCOUNT_RATE" default:"0.05"`
	EscalationRate            float64 `envconfig:"WATER_ESCALATION_RATE" default:"0.05"`
}

// AgricultureCosts are the agriculture sector's economic constants.
type AgricultureCosts struct {
	InfrastructureUnitCostUSD float64 `envconfig:"AGRI_INFRA_UNIT_COST_USD" default:"1200000"`
	UnitShortageCostUSD       float64 `envconfig:"AGRI_UNIT_SHORTAGE_COST_USD" default:"60"`
	StressDayCostUSD          float64 `envconfig:"AGRI_STRESS_DAY_COST_USD" default:"95000"`
	DiscountRate              float64 `envconfig:"AGRI_DISCOUNT_RATE" default:"0.05"`
	EscalationRate            float64 `envconfig:"AGRI_ESCALATION_RATE" default:"0.05"`
}

// CostConstants maps the loaded configuration to the engine's per-domain
// cost constant sets.
func (c CostsConfig) CostConstants() map[types.Domain]types.CostConstants {
	return map[types.Domain]types.CostConstants{
		types.DomainEnergy: {
			InfrastructureUnitCostUSD: c.Energy.InfrastructureUnitCostUSD,
			UnitShortageCostUSD:       c.Energy.UnitShortageCostUSD,
			StressDayCostUSD:          c.Energy.StressDayCostUSD,
			DiscountRate:              c.Energy.DiscountRate,
			EscalationRate:            c.Energy.EscalationRate,
		},
		types.DomainWater: {
			InfrastructureUnitCostUSD: c.Water.InfrastructureUnitCostUSD,
			UnitShortageCostUSD:       c.Water.UnitShortageCostUSD,
			StressDayCostUSD:          c.Water.StressDayCostUSD,
			DiscountRate:              c.Water.DiscountRate,
			EscalationRate:            c.Water.EscalationRate,
		},
		types.DomainAgriculture: {
			InfrastructureUnitCostUSD: c.Agriculture.InfrastructureUnitCostUSD,
			UnitShortageCostUSD:       c.Agriculture.UnitShortageCostUSD,
			StressDayCostUSD:          c.Agriculture.StressDayCostUSD,
			DiscountRate:              c.Agriculture.DiscountRate,
			EscalationRate:            c.Agriculture.EscalationRate,
		},
	}
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrMissingEnv indicates a required environment variable was not found.
	ErrMissingEnv ConfigErrorType = "MISSING_ENV"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
