package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/example/notification-gateway/internal/common"
	"github.com/example/notification-gateway/internal/notification"
)

type SendGridProvider struct {
	Config common.SendGridConfig
	Client *http.Client
}

func (p *SendGridProvider) Name() string { return "sendgrid" }

func (p *SendGridProvider) Send(ctx context.Context, item notification.Item) notification.Outcome {
	em, ok := item.(*notification.EmailItem)
	if !ok {
		return notification.Failed("sendgrid adapter received a non-email item")
	}

	// The API takes attachments base64-encoded as-is, but an undecodable
	// attachment still fails the item before the provider call.
	if _, err := decodeAttachments(em.Attachments); err != nil {
		return notification.Failed(err.Error())
	}

	body, err := json.Marshal(p.buildPayload(em))
	if err != nil {
		return notification.Failed("encode sendgrid payload: " + err.Error())
	}

	var messageID string
	err = notification.SendWithRetry(ctx, func(attemptCtx context.Context) error {
		id, err := p.post(attemptCtx, body)
		if err != nil {
			return err
		}
		messageID = id
		return nil
	})
	if err != nil {
		return notification.Failed("sendgrid send failed: " + err.Error())
	}

	return notification.Sent("Email sent successfully via SendGrid", map[string]string{"message_id": messageID})
}

func (p *SendGridProvider) post(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Config.Endpoint+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.Config.APIKey)

	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return "", fmt.Errorf("sendgrid temporary error: %s", resp.Status)
	}
	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", backoff.Permanent(fmt.Errorf("sendgrid permanent error: %s: %s", resp.Status, snippet))
	}
	return resp.Header.Get("X-Message-Id"), nil
}

func (p *SendGridProvider) buildPayload(em *notification.EmailItem) map[string]any {
	personalization := map[string]any{
		"to": addressList(em.To),
	}
	if len(em.CC) > 0 {
		personalization["cc"] = addressList(em.CC)
	}
	if len(em.BCC) > 0 {
		personalization["bcc"] = addressList(em.BCC)
	}

	payload := map[string]any{
		"from":             map[string]string{"email": p.Config.Sender},
		"personalizations": []any{personalization},
	}

	if em.TemplateID != "" {
		payload["template_id"] = em.TemplateID
		if len(em.DynamicTemplateData) > 0 {
			personalization["dynamic_template_data"] = em.DynamicTemplateData
		}
	} else {
		payload["subject"] = em.Subject
		payload["content"] = []map[string]string{{"type": "text/html", "value": em.Message}}
	}

	if len(em.Attachments) > 0 {
		attachments := make([]map[string]string, 0, len(em.Attachments))
		for _, att := range em.Attachments {
			attachments = append(attachments, map[string]string{
				"content":  att.File,
				"filename": att.FileName,
				"type":     contentTypeFor(att.FileName),
			})
		}
		payload["attachments"] = attachments
	}

	return payload
}

func addressList(addrs []string) []map[string]string {
	out := make([]map[string]string, 0, len(addrs))
	for _, addr := range addrs {
		out = append(out, map[string]string{"email": addr})
	}
	return out
}
