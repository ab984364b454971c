// Package envelope renders the uniform response body shared by every
// notification endpoint: {status_code, error, data, message}. Partial batch
// failure is reported in-band via data.failed_payload with a 200 status, so
// callers must inspect the body rather than the transport status.
package envelope

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/example/notification-gateway/internal/notification"
)

const failedMessagesError = "Failed Messages."

type Envelope struct {
	StatusCode int      `json:"status_code"`
	Error      *string  `json:"error"`
	Data       *Data    `json:"data"`
	Message    []string `json:"message"`
}

type Data struct {
	FailedPayload []notification.FailedEntry `json:"failed_payload"`
}

// Build assembles the envelope for a processed batch. An empty failed list
// reports full success; otherwise the ordered failed entries ride in-band.
func Build(ch notification.Channel, failed []notification.FailedEntry) Envelope {
	if len(failed) == 0 {
		return Envelope{
			StatusCode: http.StatusOK,
			Message:    []string{fmt.Sprintf("%s sent successfully.", channelLabel(ch))},
		}
	}
	errMsg := failedMessagesError
	return Envelope{
		StatusCode: http.StatusOK,
		Error:      &errMsg,
		Data:       &Data{FailedPayload: failed},
		Message:    []string{"Partial success."},
	}
}

func ClientError(status int, detail string) Envelope {
	return Envelope{
		StatusCode: status,
		Error:      &detail,
		Message:    []string{detail},
	}
}

func Forbidden() Envelope {
	return ClientError(http.StatusForbidden, "You do not have permission to perform this action.")
}

// Write renders the envelope; the transport status always mirrors
// status_code.
func (e Envelope) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

func channelLabel(ch notification.Channel) string {
	switch ch {
	case notification.ChannelEmail:
		return "Email"
	case notification.ChannelSMS:
		return "SMS"
	case notification.ChannelPush:
		return "Push Notification"
	default:
		return "Notification"
	}
}
