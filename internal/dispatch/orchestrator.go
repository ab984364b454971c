package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/example/notification-gateway/internal/common"
	"github.com/example/notification-gateway/internal/notification"
)

var itemsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "dispatch_items_total",
	Help: "Batch items processed, by channel and final status",
}, []string{"channel", "status"})

// Request is one inbound batch. Payload entries stay raw until per-item
// validation so a malformed entry cannot poison its siblings.
type Request struct {
	UseSQS  bool              `json:"use_sqs"`
	Payload []json.RawMessage `json:"payload"`
}

type BatchResult struct {
	Channel   notification.Channel
	Provider  notification.ProviderType
	Attempted int
	Delivered int
	Queued    int
	Failed    []notification.FailedEntry
}

// QueueGateway defers an item to asynchronous delivery. Enqueue failure is a
// delivery failure for that item, never silently swallowed.
type QueueGateway interface {
	Enqueue(ctx context.Context, msg notification.QueueMessage) error
}

// Attempt describes one item's outcome for the delivery log and the event
// stream.
type Attempt struct {
	MessageID string
	Channel   notification.Channel
	Provider  notification.ProviderType
	Status    string
	Detail    string
	Payload   json.RawMessage
	CreatedAt time.Time
}

const (
	StatusQueued  = "queued"
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusInvalid = "invalid"
)

// AttemptSink observes per-item outcomes. Sink failures are logged and never
// change the item's result.
type AttemptSink interface {
	RecordAttempt(ctx context.Context, a Attempt) error
}

type Orchestrator struct {
	Router *Router
	Queue  QueueGateway
	Sinks  []AttemptSink
	Logger zerolog.Logger
}

// Process runs one batch to completion. The provider identifier is gated once
// for the whole batch; after that every item is validated and dispatched (or
// enqueued) independently, in input order, and failures accumulate without
// aborting the siblings.
func (o *Orchestrator) Process(ctx context.Context, ch notification.Channel, provider notification.ProviderType, req Request) (BatchResult, error) {
	ctx, span := otel.Tracer("dispatch").Start(ctx, "process_batch")
	defer span.End()
	span.SetAttributes(
		attribute.String("channel", string(ch)),
		attribute.String("provider", string(provider)),
		attribute.Int("batch.size", len(req.Payload)),
	)

	if err := o.Router.Validate(ch, provider); err != nil {
		span.RecordError(err)
		return BatchResult{}, err
	}

	res := BatchResult{Channel: ch, Provider: provider, Attempted: len(req.Payload)}

	for i, raw := range req.Payload {
		item, errs := notification.ParseItem(ch, raw)
		if item == nil {
			res.Failed = append(res.Failed, notification.Invalid(i, raw, errs))
			o.record(ctx, ch, provider, StatusInvalid, errs.Summary(), raw)
			continue
		}

		validated, err := json.Marshal(item)
		if err != nil {
			res.Failed = append(res.Failed, notification.DeliveryFailure(i, raw, "encode item: "+err.Error()))
			o.record(ctx, ch, provider, StatusFailed, err.Error(), raw)
			continue
		}

		if req.UseSQS {
			msg := notification.QueueMessage{
				ProviderType: provider,
				ServiceType:  ch,
				ServiceData:  validated,
			}
			if o.Queue == nil {
				res.Failed = append(res.Failed, notification.DeliveryFailure(i, raw, "queue is not configured"))
				o.record(ctx, ch, provider, StatusFailed, "queue is not configured", validated)
				continue
			}
			if err := o.Queue.Enqueue(ctx, msg); err != nil {
				res.Failed = append(res.Failed, notification.DeliveryFailure(i, raw, "enqueue failed: "+err.Error()))
				o.record(ctx, ch, provider, StatusFailed, err.Error(), validated)
				continue
			}
			res.Queued++
			o.record(ctx, ch, provider, StatusQueued, "", validated)
			continue
		}

		outcome := o.Router.Dispatch(ctx, ch, provider, item)
		if !outcome.Success {
			res.Failed = append(res.Failed, notification.DeliveryFailure(i, raw, outcome.Detail))
			o.record(ctx, ch, provider, StatusFailed, outcome.Detail, validated)
			continue
		}
		res.Delivered++
		o.record(ctx, ch, provider, StatusSent, outcome.Detail, validated)
	}

	span.SetAttributes(attribute.Int("batch.failed", len(res.Failed)))
	return res, nil
}

func (o *Orchestrator) record(ctx context.Context, ch notification.Channel, provider notification.ProviderType, status, detail string, payload json.RawMessage) {
	itemsProcessed.WithLabelValues(string(ch), status).Inc()

	if len(o.Sinks) == 0 {
		return
	}
	attempt := Attempt{
		MessageID: uuid.NewString(),
		Channel:   ch,
		Provider:  provider,
		Status:    status,
		Detail:    detail,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	for _, sink := range o.Sinks {
		if err := sink.RecordAttempt(ctx, attempt); err != nil {
			logger := common.WithContext(ctx, o.Logger)
			logger.Warn().Err(err).Str("status", status).Msg("attempt sink failed")
		}
	}
}
