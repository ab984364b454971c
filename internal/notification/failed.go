package notification

import "encoding/json"

// FailedEntry echoes one rejected item back to the caller: the original
// payload fields with an attached "errors" field. Entries are accumulated in
// input order.
type FailedEntry struct {
	Index   int
	Payload json.RawMessage
	Errors  ValidationErrors
}

// DeliveryFailure builds the entry recorded when a valid item could not be
// handed to its provider or queue.
func DeliveryFailure(index int, payload json.RawMessage, detail string) FailedEntry {
	return FailedEntry{
		Index:   index,
		Payload: payload,
		Errors:  ValidationErrors{"delivery": {detail}},
	}
}

func Invalid(index int, payload json.RawMessage, errs ValidationErrors) FailedEntry {
	return FailedEntry{Index: index, Payload: payload, Errors: errs}
}

func (e FailedEntry) MarshalJSON() ([]byte, error) {
	fields := map[string]any{}
	if err := json.Unmarshal(e.Payload, &fields); err != nil {
		// Not a JSON object; echo it verbatim.
		fields = map[string]any{"payload": string(e.Payload)}
	}
	fields["errors"] = e.Errors
	return json.Marshal(fields)
}
