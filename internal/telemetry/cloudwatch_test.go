package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stresscast/internal/types"
)

type fakeCloudWatch struct {
	mu     sync.Mutex
	inputs []*cloudwatch.PutMetricDataInput
	err    error
	done   chan struct{}
}

func newFakeCloudWatch() *fakeCloudWatch {
	return &fakeCloudWatch{done: make(chan struct{}, 16)}
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, params *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, params)
	f.mu.Unlock()
	f.done <- struct{}{}
	if f.err != nil {
		return nil, f.err
	}
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func (f *fakeCloudWatch) wait(t *testing.T) {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for PutMetricData")
	}
}

func (f *fakeCloudWatch) lastInput() *cloudwatch.PutMetricDataInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.inputs) == 0 {
		return nil
	}
	return f.inputs[len(f.inputs)-1]
}

func dimValue(dims []cwtypes.Dimension, name string) string {
	for _, d := range dims {
		if aws.ToString(d.Name) == name {
			return aws.ToString(d.Value)
		}
	}
	return ""
}

func TestRecordRequest_PublishesCountAndLatency(t *testing.T) {
	fake := newFakeCloudWatch()
	collector := NewCloudWatchCollector(fake, "", nil)

	collector.RecordRequest("GET", "/v1/outlook", "200", 45*time.Millisecond)
	fake.wait(t)

	input := fake.lastInput()
	require.NotNil(t, input)
	assert.Equal(t, types.MetricNamespace, aws.ToString(input.Namespace))
	require.Len(t, input.MetricData, 2)

	count := input.MetricData[0]
	assert.Equal(t, types.MetricAPIRequestCount, aws.ToString(count.MetricName))
	assert.Equal(t, float64(1), aws.ToFloat64(count.Value))
	assert.Equal(t, "GET", dimValue(count.Dimensions, types.DimMethod))
	assert.Equal(t, "/v1/outlook", dimValue(count.Dimensions, types.DimEndpoint))
	assert.Equal(t, "200", dimValue(count.Dimensions, types.DimStatus))

	latency := input.MetricData[1]
	assert.Equal(t, types.MetricAPILatency, aws.ToString(latency.MetricName))
	assert.Equal(t, float64(45), aws.ToFloat64(latency.Value))
	assert.Equal(t, cwtypes.StandardUnitMilliseconds, latency.Unit)
}

func TestRecordSimulation_PublishesDurationAndResults(t *testing.T) {
	fake := newFakeCloudWatch()
	collector := NewCloudWatchCollector(fake, "TestNamespace", nil)

	collector.RecordSimulation(context.Background(), types.DomainWater, 120*time.Millisecond, 180)
	fake.wait(t)

	input := fake.lastInput()
	require.NotNil(t, input)
	assert.Equal(t, "TestNamespace", aws.ToString(input.Namespace))
	require.Len(t, input.MetricData, 2)

	duration := input.MetricData[0]
	assert.Equal(t, types.MetricSimulationDuration, aws.ToString(duration.MetricName))
	assert.Equal(t, float64(120), aws.ToFloat64(duration.Value))
	assert.Equal(t, "water", dimValue(duration.Dimensions, types.DimDomain))

	results := input.MetricData[1]
	assert.Equal(t, types.MetricSimulationResults, aws.ToString(results.MetricName))
	assert.Equal(t, float64(180), aws.ToFloat64(results.Value))
}

func TestRecordSimulation_SurvivesCancelledContext(t *testing.T) {
	fake := newFakeCloudWatch()
	collector := NewCloudWatchCollector(fake, "", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	collector.RecordSimulation(ctx, types.DomainEnergy, time.Millisecond, 1)
	fake.wait(t)

	assert.NotNil(t, fake.lastInput())
}

func TestRecordUpstreamFailure(t *testing.T) {
	fake := newFakeCloudWatch()
	collector := NewCloudWatchCollector(fake, "", nil)

	collector.RecordUpstreamFailure(context.Background(), types.DomainAgriculture)
	fake.wait(t)

	input := fake.lastInput()
	require.NotNil(t, input)
	require.Len(t, input.MetricData, 1)
	assert.Equal(t, types.MetricUpstreamFetchFailed, aws.ToString(input.MetricData[0].MetricName))
	assert.Equal(t, "agriculture", dimValue(input.MetricData[0].Dimensions, types.DimDomain))
}

func TestPublishError_DoesNotPanic(t *testing.T) {
	fake := newFakeCloudWatch()
	fake.err = errors.New("throttled")
	collector := NewCloudWatchCollector(fake, "", nil)

	collector.RecordSimulation(context.Background(), types.DomainWater, time.Millisecond, 1)
	fake.wait(t)
}
