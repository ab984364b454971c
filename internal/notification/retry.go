package notification

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	attemptTimeout = 3 * time.Second
	retryBudget    = 5 * time.Second
)

// SendWithRetry runs fn with a per-attempt timeout, retrying transient
// failures until the budget is exhausted. fn signals non-retryable failures
// with backoff.Permanent.
func SendWithRetry(ctx context.Context, fn func(context.Context) error) error {
	op := backoff.NewExponentialBackOff()
	op.MaxElapsedTime = retryBudget
	return backoff.Retry(func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		defer cancel()
		return fn(attemptCtx)
	}, backoff.WithContext(op, ctx))
}
