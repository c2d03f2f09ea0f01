// Package telemetry emits operational metrics to AWS CloudWatch.
//
// The collector implements both the HTTP middleware metrics interface and the
// simulation service metrics interface, so a single CloudWatch client serves
// the whole process. Publishing is best effort: a failed PutMetricData call
// is logged and never propagated to the request path.
package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"stresscast/internal/core"
	"stresscast/internal/types"
)

// Compile-time assertion that the collector satisfies the middleware interface.
var _ core.MetricsCollector = (*CloudWatchCollector)(nil)

// CloudWatchClient abstracts the CloudWatch PutMetricData operation for testability.
type CloudWatchClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// publishTimeout bounds metric publishing for request-path callers whose
// context may already be cancelled by the time metrics are recorded.
const publishTimeout = 2 * time.Second

// CloudWatchCollector publishes request and simulation metrics to a single
// CloudWatch namespace.
type CloudWatchCollector struct {
	client    CloudWatchClient
	namespace string
	logger    *slog.Logger
}

// NewCloudWatchCollector creates a collector publishing to the given
// namespace. An empty namespace defaults to types.MetricNamespace, a nil
// logger to slog.Default().
func NewCloudWatchCollector(client CloudWatchClient, namespace string, logger *slog.Logger) *CloudWatchCollector {
	if namespace == "" {
		namespace = types.MetricNamespace
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CloudWatchCollector{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// RecordRequest emits APIRequestCount and APILatency for one HTTP request,
// dimensioned by method, endpoint, and status.
func (c *CloudWatchCollector) RecordRequest(method, endpoint, status string, duration time.Duration) {
	dims := []cwtypes.Dimension{
		{Name: aws.String(types.DimMethod), Value: aws.String(method)},
		{Name: aws.String(types.DimEndpoint), Value: aws.String(endpoint)},
		{Name: aws.String(types.DimStatus), Value: aws.String(status)},
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(c.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String(types.MetricAPIRequestCount),
				Value:      aws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: dims,
			},
			{
				MetricName: aws.String(types.MetricAPILatency),
				Value:      aws.Float64(float64(duration.Milliseconds())),
				Unit:       cwtypes.StandardUnitMilliseconds,
				Dimensions: dims,
			},
		},
	}

	// Publish off the request goroutine so a slow CloudWatch call never
	// holds up the connection.
	go c.publish(input, "request",
		"method", method,
		"endpoint", endpoint,
		"status", status,
	)
}

// RecordSimulation emits SimulationDuration and SimulationResultCount for a
// completed simulation run, dimensioned by domain.
func (c *CloudWatchCollector) RecordSimulation(ctx context.Context, domain types.Domain, duration time.Duration, resultCount int) {
	dims := []cwtypes.Dimension{
		{Name: aws.String(types.DimDomain), Value: aws.String(string(domain))},
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(c.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String(types.MetricSimulationDuration),
				Value:      aws.Float64(float64(duration.Milliseconds())),
				Unit:       cwtypes.StandardUnitMilliseconds,
				Dimensions: dims,
			},
			{
				MetricName: aws.String(types.MetricSimulationResults),
				Value:      aws.Float64(float64(resultCount)),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: dims,
			},
		},
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if _, err := c.client.PutMetricData(ctx, input); err != nil {
		c.logger.Error("failed to publish simulation metrics",
			"error", err.Error(),
			"domain", string(domain),
		)
	}
}

// RecordUpstreamFailure emits UpstreamFetchFailure dimensioned by domain.
// Called by the simulation service when a history fetch fails.
func (c *CloudWatchCollector) RecordUpstreamFailure(ctx context.Context, domain types.Domain) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(c.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String(types.MetricUpstreamFetchFailed),
				Value:      aws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{
					{Name: aws.String(types.DimDomain), Value: aws.String(string(domain))},
				},
			},
		},
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if _, err := c.client.PutMetricData(ctx, input); err != nil {
		c.logger.Error("failed to publish upstream failure metric",
			"error", err.Error(),
			"domain", string(domain),
		)
	}
}

// publish sends metric data with a fresh bounded context. Used by callers
// that have no context of their own (the HTTP middleware path).
func (c *CloudWatchCollector) publish(input *cloudwatch.PutMetricDataInput, kind string, logAttrs ...any) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if _, err := c.client.PutMetricData(ctx, input); err != nil {
		attrs := append([]any{"error", err.Error(), "kind", kind}, logAttrs...)
		c.logger.Error("failed to publish metrics", attrs...)
	}
}
