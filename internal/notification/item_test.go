package notification

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseItem(t *testing.T) {
	tests := []struct {
		name    string
		channel Channel
		raw     string
		valid   bool
	}{
		{
			name:    "valid email",
			channel: ChannelEmail,
			raw:     `{"to":["a@x.com"],"subject":"S","message":"M"}`,
			valid:   true,
		},
		{
			name:    "valid sms",
			channel: ChannelSMS,
			raw:     `{"send_to":["+12025550123"],"message":"hi"}`,
			valid:   true,
		},
		{
			name:    "valid push",
			channel: ChannelPush,
			raw:     `{"title":"T","content":"C","tokens":["tok"]}`,
			valid:   true,
		},
		{
			name:    "malformed json",
			channel: ChannelEmail,
			raw:     `{"to":`,
		},
		{
			name:    "schema violation",
			channel: ChannelEmail,
			raw:     `{"to":[],"subject":"","message":""}`,
		},
		{
			name:    "unknown channel",
			channel: Channel("fax"),
			raw:     `{}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item, errs := ParseItem(tc.channel, json.RawMessage(tc.raw))
			if tc.valid {
				if item == nil {
					t.Fatalf("expected item, got errors: %v", errs)
				}
				if item.Channel() != tc.channel {
					t.Fatalf("item channel = %s, expected %s", item.Channel(), tc.channel)
				}
				return
			}
			if item != nil {
				t.Fatalf("expected rejection, got item %#v", item)
			}
			if errs.Empty() {
				t.Fatal("expected validation errors")
			}
		})
	}
}

func TestValidationErrorsSummary(t *testing.T) {
	errs := ValidationErrors{
		"to":      {"at least one recipient is required"},
		"subject": {"subject is required for plain messages"},
	}
	summary := errs.Summary()
	if !strings.Contains(summary, "to:") || !strings.Contains(summary, "subject:") {
		t.Fatalf("summary missing fields: %s", summary)
	}
}
