// Package queue wraps the outbound SQS boundary: fire-and-forget enqueue for
// deferred delivery, plus receive/delete for the consumer. At-least-once
// delivery is assumed; consumer-side dedup is the consumer's responsibility.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/example/notification-gateway/internal/notification"
)

// SQSAPI is the subset of the SQS client the gateway needs.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type Gateway struct {
	Client       SQSAPI
	QueueURL     string
	DelaySeconds int32
}

func (g *Gateway) Enqueue(ctx context.Context, msg notification.QueueMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal queue message: %w", err)
	}
	_, err = g.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:     aws.String(g.QueueURL),
		MessageBody:  aws.String(string(body)),
		DelaySeconds: g.DelaySeconds,
	})
	if err != nil {
		return fmt.Errorf("send sqs message: %w", err)
	}
	return nil
}

func (g *Gateway) Receive(ctx context.Context, max int32) ([]types.Message, error) {
	out, err := g.Client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(g.QueueURL),
		MaxNumberOfMessages: max,
		WaitTimeSeconds:     20,
	})
	if err != nil {
		return nil, fmt.Errorf("receive sqs messages: %w", err)
	}
	return out.Messages, nil
}

func (g *Gateway) Delete(ctx context.Context, receiptHandle string) error {
	_, err := g.Client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(g.QueueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		return fmt.Errorf("delete sqs message: %w", err)
	}
	return nil
}
