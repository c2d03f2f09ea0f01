package types

// Telemetry metric names for CloudWatch.
// All components MUST use these constants.
const (
	// Metric Names
	MetricAPILatency          = "APILatency"
	MetricAPIRequestCount     = "APIRequestCount"
	MetricSimulationDuration  = "SimulationDuration"
	MetricSimulationResults   = "SimulationResultCount"
	MetricUpstreamFetchFailed = "UpstreamFetchFailure"

	// Dimension Keys
	DimDomain   = "Domain"
	DimEndpoint = "Endpoint"
	DimMethod   = "Method"
	DimStatus   = "Status"

	// Metric Namespace
	MetricNamespace = "StressCast"
)
