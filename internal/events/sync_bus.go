package events

import (
	"context"

	"screams/internal/observability"
)

// SyncBus runs reactions inline on the publishing goroutine.
type SyncBus struct {
	handler Handler
	policy  RetryPolicy
}

func NewSyncBus(h Handler, policy RetryPolicy) *SyncBus {
	return &SyncBus{handler: h, policy: policy}
}

func (b *SyncBus) Publish(ctx context.Context, e Event) error {
	observability.EventsPublished.WithLabelValues(string(e.Kind), "sync").Inc()
	if b.handler == nil {
		return nil
	}
	return Dispatch(ctx, b.handler, e, b.policy)
}
