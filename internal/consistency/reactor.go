package consistency

import (
	"context"
	"time"

	"screams/internal/events"
	"screams/internal/models"
	"screams/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// Reaction outcomes recorded in metrics and logs.
const (
	OutcomeOK         = "ok"
	OutcomeParentGone = "parent_gone"
	OutcomeError      = "error"
)

// Reactor applies change events to the engine. It implements events.Handler.
// A vanished parent is not an error for a reaction; STORE_UNAVAILABLE is
// returned so the bus can retry the whole reaction.
type Reactor struct {
	engine *Engine
}

func NewReactor(engine *Engine) *Reactor {
	return &Reactor{engine: engine}
}

func (r *Reactor) Handle(ctx context.Context, e events.Event) error {
	start := time.Now()
	kind := string(e.Kind)

	span, ctx := observability.NewSpan(ctx, "reaction."+kind,
		attribute.String("event.id", e.ID),
		attribute.String("event.scream_id", e.ScreamID),
	)
	defer span.End()
	// Reactions read from the stream have no request context of their own.
	ctx = observability.WithTraceID(ctx, span.TraceID())

	fields := map[string]interface{}{"id": e.ID, "scream_id": e.ScreamID, "handle": e.Handle}
	observability.LogReactionStart(ctx, kind, fields)

	err := r.route(ctx, e)
	outcome := OutcomeOK
	switch {
	case err == nil:
	case models.IsNotFound(err):
		outcome = OutcomeParentGone
		err = nil
	default:
		outcome = OutcomeError
		span.SetError(err)
		observability.LogReactionError(ctx, kind, err, fields)
	}

	observability.ObserveReaction(kind, outcome, start)
	observability.LogReactionEnd(ctx, kind, outcome, fields)
	return err
}

func (r *Reactor) route(ctx context.Context, e events.Event) error {
	switch e.Kind {
	case events.KindLikeCreated:
		return r.engine.Notifications.OnLikeCreated(ctx, e.ID, e.ScreamID, e.Handle)
	case events.KindLikeRemoved:
		return r.engine.Notifications.OnLikeRemoved(ctx, e.ID)
	case events.KindCommentCreated:
		return r.engine.Notifications.OnCommentCreated(ctx, e.ID, e.ScreamID, e.Handle)
	case events.KindScreamDeleted:
		return r.engine.Cascade.OnScreamDeleted(ctx, e.ScreamID)
	case events.KindUserImageChanged:
		_, err := r.engine.Profiles.OnUserImageChanged(ctx, e.Handle, e.OldImage, e.NewImage)
		return err
	default:
		return models.NewValidationError("unknown event kind " + string(e.Kind))
	}
}
