package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/notification-gateway/internal/notification"
)

// Adapter is the narrow send contract every provider implements. Adapters
// never panic and never return an error value: every provider-side failure is
// converted into an unsuccessful Outcome.
type Adapter interface {
	Name() string
	Send(ctx context.Context, item notification.Item) notification.Outcome
}

// UnknownProviderError is fatal for the whole request: it is raised before
// any adapter call or per-item validation.
type UnknownProviderError struct {
	Channel  notification.Channel
	Provider notification.ProviderType
	Valid    []notification.ProviderType
}

func (e *UnknownProviderError) Error() string {
	valid := make([]string, len(e.Valid))
	for i, p := range e.Valid {
		valid[i] = string(p)
	}
	return fmt.Sprintf("invalid provider_type %q for channel %q, expected one of: %s",
		e.Provider, e.Channel, strings.Join(valid, ", "))
}

// Router holds the closed registry mapping (channel, provider) pairs to
// adapter implementations. The registry is built once at startup and is
// read-only afterwards.
type Router struct {
	adapters map[notification.Channel]map[notification.ProviderType]Adapter
}

func NewRouter() *Router {
	return &Router{adapters: map[notification.Channel]map[notification.ProviderType]Adapter{}}
}

func (r *Router) Register(ch notification.Channel, p notification.ProviderType, a Adapter) {
	if r.adapters[ch] == nil {
		r.adapters[ch] = map[notification.ProviderType]Adapter{}
	}
	r.adapters[ch][p] = a
}

// Validate gates the provider identifier against the fixed enumeration for
// the channel.
func (r *Router) Validate(ch notification.Channel, p notification.ProviderType) error {
	if !notification.ValidProvider(ch, p) {
		return &UnknownProviderError{Channel: ch, Provider: p, Valid: notification.ProvidersFor(ch)}
	}
	return nil
}

func (r *Router) Dispatch(ctx context.Context, ch notification.Channel, p notification.ProviderType, item notification.Item) notification.Outcome {
	adapter, ok := r.adapters[ch][p]
	if !ok {
		return notification.Failed(fmt.Sprintf("no adapter registered for %s/%s", ch, p))
	}
	return adapter.Send(ctx, item)
}
