package envelope

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/example/notification-gateway/internal/notification"
)

func TestBuildFullSuccess(t *testing.T) {
	env := Build(notification.ChannelEmail, nil)

	if env.StatusCode != 200 {
		t.Fatalf("status_code = %d, expected 200", env.StatusCode)
	}
	if env.Error != nil || env.Data != nil {
		t.Fatalf("success envelope carries error/data: %+v", env)
	}
	if len(env.Message) != 1 || env.Message[0] != "Email sent successfully." {
		t.Fatalf("unexpected message: %v", env.Message)
	}
}

func TestBuildPartialFailureStays200(t *testing.T) {
	failed := []notification.FailedEntry{
		notification.Invalid(1, json.RawMessage(`{"to":[]}`), notification.ValidationErrors{"to": {"at least one recipient is required"}}),
	}
	env := Build(notification.ChannelEmail, failed)

	if env.StatusCode != 200 {
		t.Fatalf("partial failure status_code = %d, expected in-band 200", env.StatusCode)
	}
	if env.Error == nil || env.Data == nil {
		t.Fatalf("partial envelope missing error/data: %+v", env)
	}
	if len(env.Data.FailedPayload) != 1 {
		t.Fatalf("failed_payload length = %d, expected 1", len(env.Data.FailedPayload))
	}
}

func TestEnvelopeJSONShape(t *testing.T) {
	rec := httptest.NewRecorder()
	Build(notification.ChannelSMS, nil).Write(rec)

	if rec.Code != 200 {
		t.Fatalf("transport status = %d, expected 200", rec.Code)
	}
	var decoded map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	for _, key := range []string{"status_code", "error", "data", "message"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("envelope missing %q: %v", key, decoded)
		}
	}
	if decoded["error"] != nil || decoded["data"] != nil {
		t.Fatalf("success envelope must carry null error and data: %v", decoded)
	}
}

func TestForbidden(t *testing.T) {
	rec := httptest.NewRecorder()
	Forbidden().Write(rec)

	if rec.Code != 403 {
		t.Fatalf("transport status = %d, expected 403", rec.Code)
	}
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.StatusCode != 403 || env.Error == nil {
		t.Fatalf("unexpected forbidden envelope: %+v", env)
	}
}

func TestClientError(t *testing.T) {
	env := ClientError(400, "unknown channel fax")
	if env.StatusCode != 400 || env.Error == nil || *env.Error != "unknown channel fax" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}
