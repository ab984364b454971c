// Package push delivers push notifications through the FCM HTTP v1 API,
// authenticated with a Firebase service account.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/example/notification-gateway/internal/common"
	"github.com/example/notification-gateway/internal/notification"
)

const messagingScope = "https://www.googleapis.com/auth/firebase.messaging"

type FCMProvider struct {
	Config common.FirebaseConfig
	Tokens oauth2.TokenSource
	Client *http.Client
}

// NewFCMProvider builds a provider from a service-account credentials file.
func NewFCMProvider(cfg common.FirebaseConfig) (*FCMProvider, error) {
	creds, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read firebase credentials: %w", err)
	}
	jwtConfig, err := google.JWTConfigFromJSON(creds, messagingScope)
	if err != nil {
		return nil, fmt.Errorf("parse firebase credentials: %w", err)
	}
	return &FCMProvider{
		Config: cfg,
		Tokens: jwtConfig.TokenSource(context.Background()),
	}, nil
}

func (p *FCMProvider) Name() string { return "firebase" }

func (p *FCMProvider) Send(ctx context.Context, item notification.Item) notification.Outcome {
	pm, ok := item.(*notification.PushItem)
	if !ok {
		return notification.Failed("firebase adapter received a non-push item")
	}

	// Adapter-level policy: duplicate device tokens collapse to one send.
	tokens := dedupe(pm.Tokens)

	var failed []string
	var lastErr error
	for _, token := range tokens {
		err := notification.SendWithRetry(ctx, func(attemptCtx context.Context) error {
			return p.sendOne(attemptCtx, token, pm)
		})
		if err != nil {
			failed = append(failed, token)
			lastErr = err
		}
	}

	if len(failed) > 0 {
		return notification.Failed(fmt.Sprintf("push delivery failed for %d of %d tokens: %v", len(failed), len(tokens), lastErr))
	}
	return notification.Sent("Push Notification shared successfully", map[string]string{
		"tokens": strconv.Itoa(len(tokens)),
	})
}

func (p *FCMProvider) sendOne(ctx context.Context, deviceToken string, pm *notification.PushItem) error {
	body, err := json.Marshal(p.buildMessage(deviceToken, pm))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("encode fcm payload: %w", err))
	}

	accessToken, err := p.Tokens.Token()
	if err != nil {
		return fmt.Errorf("fetch fcm access token: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/projects/%s/messages:send", p.Config.Endpoint, p.Config.ProjectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken.AccessToken)

	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("fcm temporary error: %s", resp.Status)
	}
	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return backoff.Permanent(fmt.Errorf("fcm permanent error: %s: %s", resp.Status, snippet))
	}
	return nil
}

func (p *FCMProvider) buildMessage(deviceToken string, pm *notification.PushItem) map[string]any {
	message := map[string]any{
		"token": deviceToken,
		"notification": map[string]string{
			"title": pm.Title,
			"body":  pm.Content,
		},
		"android": map[string]any{
			"ttl":      "3600s",
			"priority": "high",
			"notification": map[string]string{
				"channel_id": "notification-gateway",
			},
		},
	}
	if len(pm.ExtraArgs) > 0 {
		message["data"] = pm.ExtraArgs
	}
	aps := map[string]any{"sound": "default"}
	if pm.BadgeCount != nil {
		aps["badge"] = *pm.BadgeCount
	}
	message["apns"] = map[string]any{
		"payload": map[string]any{"aps": aps},
	}
	return map[string]any{"message": message}
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		trimmed := strings.TrimSpace(token)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
