// Package events streams per-item delivery outcomes to Kafka for downstream
// consumers (analytics, alerting). Publishing is best-effort: the dispatch
// layer logs publisher errors without changing item outcomes.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/example/notification-gateway/internal/dispatch"
)

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Publisher struct {
	Writer MessageWriter
}

func (p *Publisher) RecordAttempt(ctx context.Context, a dispatch.Attempt) error {
	event := map[string]any{
		"message_id":  a.MessageID,
		"channel":     a.Channel,
		"provider":    a.Provider,
		"status":      a.Status,
		"detail":      a.Detail,
		"occurred_at": a.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal delivery event: %w", err)
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(a.MessageID),
		Value: payload,
	})
}
