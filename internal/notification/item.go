package notification

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Item is one channel-specific entry of a batch request. Items are valid or
// invalid independently of each other.
type Item interface {
	Channel() Channel
	Validate() ValidationErrors
}

// ValidationErrors maps a field name to the problems found with it. A nil or
// empty map means the item passed validation.
type ValidationErrors map[string][]string

func (e ValidationErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e ValidationErrors) Empty() bool { return len(e) == 0 }

// Summary flattens the field errors into one log-friendly line.
func (e ValidationErrors) Summary() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(e))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e[field], "; "))
	}
	return strings.Join(parts, ", ")
}

// Outcome is the result of one delivery attempt.
type Outcome struct {
	Success  bool
	Detail   string
	Metadata map[string]string
}

func Sent(detail string, metadata map[string]string) Outcome {
	if metadata == nil {
		metadata = map[string]string{}
	}
	return Outcome{Success: true, Detail: detail, Metadata: metadata}
}

func Failed(detail string) Outcome {
	return Outcome{Success: false, Detail: detail, Metadata: map[string]string{}}
}

// QueueMessage is the normalized envelope handed to the queue gateway.
// ServiceData carries the validated item, not the raw request body, so the
// downstream consumer can trust its shape.
type QueueMessage struct {
	ProviderType ProviderType    `json:"provider_type"`
	ServiceType  Channel         `json:"service_type"`
	ServiceData  json.RawMessage `json:"service_data"`
}

// ParseItem decodes and validates one raw payload entry for the given
// channel. A non-empty ValidationErrors means the item must be rejected.
func ParseItem(ch Channel, raw json.RawMessage) (Item, ValidationErrors) {
	var item Item
	switch ch {
	case ChannelEmail:
		item = &EmailItem{}
	case ChannelSMS:
		item = &SMSItem{}
	case ChannelPush:
		item = &PushItem{}
	default:
		return nil, ValidationErrors{"channel": {fmt.Sprintf("unknown channel %q", ch)}}
	}

	if err := json.Unmarshal(raw, item); err != nil {
		return nil, ValidationErrors{"payload": {"invalid payload: " + err.Error()}}
	}
	if errs := item.Validate(); !errs.Empty() {
		return nil, errs
	}
	return item, nil
}
