// Package queue provides the SQS producer that announces completed analysis
// runs to downstream consumers.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqsTypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"

	"stresscast/internal/types"
)

// eventSource identifies this service in published envelopes.
const eventSource = "stresscast-api"

// envelopeVersion is the schema version of the analysis.ready payload.
// Bump when AnalysisReadyPayload changes shape.
const envelopeVersion = "1"

// SQSSender abstracts the SQS SendMessage operation for testability.
// Production code uses the *sqs.Client from aws-sdk-go-v2.
type SQSSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// AnalysisPublisher wraps completed analyses in an EventEnvelope and sends
// them to the analysis queue.
type AnalysisPublisher struct {
	client   SQSSender
	queueURL string
	logger   *slog.Logger
	clock    types.Clock
}

// NewAnalysisPublisher creates a publisher for the given queue URL. A nil
// logger defaults to slog.Default(), a nil clock to the real clock.
func NewAnalysisPublisher(client SQSSender, queueURL string, logger *slog.Logger, clock types.Clock) *AnalysisPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = types.RealClock{}
	}
	return &AnalysisPublisher{
		client:   client,
		queueURL: queueURL,
		logger:   logger,
		clock:    clock,
	}
}

// PublishAnalysisReady wraps the payload in an analysis.ready envelope and
// sends it to the queue. The request ID, when present on the context, is
// propagated as the envelope correlation ID.
func (p *AnalysisPublisher) PublishAnalysisReady(ctx context.Context, payload types.AnalysisReadyPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return types.NewAppError(types.ErrCodeUpstreamQueue, "failed to marshal analysis payload", err)
	}

	envelope := types.EventEnvelope{
		EventID:   fmt.Sprintf("evt_%s", uuid.New().String()),
		EventType: types.EventAnalysisReady,
		Timestamp: p.clock.Now(),
		Source:    eventSource,
		Version:   envelopeVersion,
		Payload:   body,
	}
	if requestID := types.GetRequestID(ctx); requestID != "" {
		envelope.Metadata = &types.EventMetadata{CorrelationID: requestID}
	}

	msg, err := json.Marshal(envelope)
	if err != nil {
		return types.NewAppError(types.ErrCodeUpstreamQueue, "failed to marshal event envelope", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(msg)),
		MessageAttributes: map[string]sqsTypes.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(types.EventAnalysisReady),
			},
		},
	}

	if _, err := p.client.SendMessage(ctx, input); err != nil {
		return types.NewAppError(types.ErrCodeUpstreamQueue,
			fmt.Sprintf("failed to send analysis event to %s", p.queueURL), err)
	}

	p.logger.InfoContext(ctx, "analysis event published",
		"queue_url", p.queueURL,
		"event_id", envelope.EventID,
		"run_id", payload.RunID,
		"domain", string(payload.Domain),
	)

	return nil
}
