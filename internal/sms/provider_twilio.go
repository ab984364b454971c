// Package sms delivers SMS notifications through Twilio's REST API. The
// transport accepts a single destination per call, so multi-recipient items
// are looped per phone number.
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/example/notification-gateway/internal/common"
	"github.com/example/notification-gateway/internal/notification"
)

type TwilioProvider struct {
	Config common.TwilioConfig
	Client *http.Client
}

func (p *TwilioProvider) Name() string { return "twilio" }

func (p *TwilioProvider) Send(ctx context.Context, item notification.Item) notification.Outcome {
	sm, ok := item.(*notification.SMSItem)
	if !ok {
		return notification.Failed("twilio adapter received a non-sms item")
	}

	metadata := map[string]string{}
	var failed []string
	var lastErr error

	for _, number := range sm.SendTo {
		var sid string
		err := notification.SendWithRetry(ctx, func(attemptCtx context.Context) error {
			var err error
			sid, err = p.sendOne(attemptCtx, number, sm.Message)
			return err
		})
		if err != nil {
			failed = append(failed, number)
			lastErr = err
			continue
		}
		metadata["sid:"+number] = sid
	}

	if len(failed) > 0 {
		return notification.Failed(fmt.Sprintf("sms delivery failed for %s: %v", strings.Join(failed, ", "), lastErr))
	}
	return notification.Sent("SMS sent successfully via Twilio", metadata)
}

func (p *TwilioProvider) sendOne(ctx context.Context, to, message string) (string, error) {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", p.Config.FromNumber)
	form.Set("Body", message)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", p.Config.Endpoint, p.Config.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.Config.AccountSID, p.Config.AuthToken)

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
		return "", fmt.Errorf("twilio temporary error: %s", resp.Status)
	}
	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", backoff.Permanent(fmt.Errorf("twilio permanent error: %s: %s", resp.Status, snippet))
	}

	var created struct {
		SID string `json:"sid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", backoff.Permanent(fmt.Errorf("decode twilio response: %w", err))
	}
	return created.SID, nil
}
