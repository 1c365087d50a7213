package service

import (
	"context"
	"log/slog"

	"screams/internal/events"
	"screams/internal/observability"
)

// publish hands e to the bus. The source-of-truth write has already
// committed, so a delivery failure is logged rather than returned; derived
// state catches up when the reaction is retried or replayed.
func publish(ctx context.Context, bus events.Bus, e events.Event) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, e); err != nil {
		observability.Logger.WarnContext(ctx, "change event not delivered",
			slog.String("event", string(e.Kind)),
			slog.String("id", e.ID),
			slog.String("error", err.Error()),
		)
	}
}
