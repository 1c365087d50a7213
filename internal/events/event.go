// Package events carries change notifications from the write path to the
// reactions that keep derived records consistent.
package events

import (
	"context"
	"time"
)

// Kind names a source-of-truth change.
type Kind string

const (
	KindLikeCreated      Kind = "like.created"
	KindLikeRemoved      Kind = "like.removed"
	KindCommentCreated   Kind = "comment.created"
	KindScreamDeleted    Kind = "scream.deleted"
	KindUserImageChanged Kind = "user.image_changed"
)

// Event describes one committed change. ID is the id of the record that
// changed (like, comment or scream); for user events it is the handle.
type Event struct {
	Kind       Kind      `json:"kind"`
	ID         string    `json:"id"`
	ScreamID   string    `json:"scream_id,omitempty"`
	Handle     string    `json:"handle"`
	OldImage   string    `json:"old_image,omitempty"`
	NewImage   string    `json:"new_image,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Handler reacts to a change event.
type Handler interface {
	Handle(ctx context.Context, e Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, e Event) error

func (f HandlerFunc) Handle(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Bus publishes change events to whatever runs the reactions.
type Bus interface {
	Publish(ctx context.Context, e Event) error
}

func LikeCreated(likeID, screamID, handle string) Event {
	return Event{Kind: KindLikeCreated, ID: likeID, ScreamID: screamID, Handle: handle, OccurredAt: time.Now().UTC()}
}

func LikeRemoved(likeID, screamID, handle string) Event {
	return Event{Kind: KindLikeRemoved, ID: likeID, ScreamID: screamID, Handle: handle, OccurredAt: time.Now().UTC()}
}

func CommentCreated(commentID, screamID, handle string) Event {
	return Event{Kind: KindCommentCreated, ID: commentID, ScreamID: screamID, Handle: handle, OccurredAt: time.Now().UTC()}
}

func ScreamDeleted(screamID, handle string) Event {
	return Event{Kind: KindScreamDeleted, ID: screamID, ScreamID: screamID, Handle: handle, OccurredAt: time.Now().UTC()}
}

func UserImageChanged(handle, oldImage, newImage string) Event {
	return Event{Kind: KindUserImageChanged, ID: handle, Handle: handle, OldImage: oldImage, NewImage: newImage, OccurredAt: time.Now().UTC()}
}
