// Package worker replays queued notification envelopes through the same
// dispatch path the synchronous API uses, with the queue leg disabled.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/example/notification-gateway/internal/common"
	"github.com/example/notification-gateway/internal/dispatch"
	"github.com/example/notification-gateway/internal/notification"
)

var messagesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "queue_messages_total",
	Help: "Queued envelopes processed, by outcome",
}, []string{"status"})

// Queue is the receive/delete side of the SQS gateway.
type Queue interface {
	Receive(ctx context.Context, max int32) ([]types.Message, error)
	Delete(ctx context.Context, receiptHandle string) error
}

type Worker struct {
	Queue  Queue
	Router *dispatch.Router
	Logger zerolog.Logger
}

// Run long-polls the queue until the context is cancelled. Successfully
// delivered envelopes are deleted; delivery failures stay on the queue for
// redelivery; unparsable envelopes are deleted so they cannot loop forever.
func (w *Worker) Run(ctx context.Context) error {
	if w.Queue == nil || w.Router == nil {
		return errors.New("worker requires a queue and a router")
	}
	tracer := otel.Tracer("queue-worker")

	for {
		msgs, err := w.Queue.Receive(ctx, 10)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("receive messages: %w", err)
		}
		for _, m := range msgs {
			w.handle(ctx, tracer, m)
		}
	}
}

func (w *Worker) handle(ctx context.Context, tracer trace.Tracer, m types.Message) {
	ctx, span := tracer.Start(ctx, "replay_queued")
	defer span.End()

	receipt := aws.ToString(m.ReceiptHandle)
	logger := common.WithContext(ctx, w.Logger)

	var qm notification.QueueMessage
	if err := json.Unmarshal([]byte(aws.ToString(m.Body)), &qm); err != nil {
		logger.Error().Err(err).Msg("dropping undecodable queue message")
		w.drop(ctx, receipt, "poison")
		return
	}
	span.SetAttributes(
		attribute.String("channel", string(qm.ServiceType)),
		attribute.String("provider", string(qm.ProviderType)),
	)

	if err := w.Router.Validate(qm.ServiceType, qm.ProviderType); err != nil {
		logger.Error().Err(err).Msg("dropping queue message with unknown provider")
		w.drop(ctx, receipt, "poison")
		return
	}

	item, errs := notification.ParseItem(qm.ServiceType, qm.ServiceData)
	if item == nil {
		logger.Error().Str("errors", errs.Summary()).Msg("dropping queue message with invalid service_data")
		w.drop(ctx, receipt, "poison")
		return
	}

	outcome := w.Router.Dispatch(ctx, qm.ServiceType, qm.ProviderType, item)
	if !outcome.Success {
		// Leave the message for SQS redelivery.
		logger.Warn().Str("detail", outcome.Detail).Msg("queued delivery failed, message kept for redelivery")
		messagesProcessed.WithLabelValues("failed").Inc()
		return
	}

	if err := w.Queue.Delete(ctx, receipt); err != nil {
		logger.Error().Err(err).Msg("failed to delete delivered message")
	}
	messagesProcessed.WithLabelValues("sent").Inc()
}

func (w *Worker) drop(ctx context.Context, receipt, status string) {
	if err := w.Queue.Delete(ctx, receipt); err != nil {
		logger := common.WithContext(ctx, w.Logger)
		logger.Error().Err(err).Msg("failed to delete poison message")
	}
	messagesProcessed.WithLabelValues(status).Inc()
}
