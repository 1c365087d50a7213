package events

import (
	"context"
	"time"

	"screams/internal/models"

	"github.com/cenkalti/backoff/v5"
)

// RetryPolicy bounds how often a reaction is re-run after a transient store
// failure.
type RetryPolicy struct {
	MaxRetries      uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy retries five times starting at 100ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 5, InitialInterval: 100 * time.Millisecond, MaxInterval: 5 * time.Second}
}

// Dispatch runs h for e, re-running it while it fails with STORE_UNAVAILABLE.
// Any other error is returned immediately. Reactions are idempotent, so a
// re-run after a partial failure converges.
func Dispatch(ctx context.Context, h Handler, e Event, policy RetryPolicy) error {
	b := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		b.InitialInterval = policy.InitialInterval
	}
	if policy.MaxInterval > 0 {
		b.MaxInterval = policy.MaxInterval
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := h.Handle(ctx, e)
		switch {
		case err == nil:
			return struct{}{}, nil
		case models.IsStoreUnavailable(err):
			return struct{}{}, err
		default:
			return struct{}{}, backoff.Permanent(err)
		}
	}, backoff.WithBackOff(b), backoff.WithMaxTries(policy.MaxRetries+1))
	return err
}
