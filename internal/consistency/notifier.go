package consistency

import (
	"context"

	"screams/internal/models"
	"screams/internal/repository"
)

// NotificationGenerator derives notifications from likes and comments. A
// notification shares its id with the like or comment that caused it, so a
// repeated creation event rewrites the same row.
type NotificationGenerator struct {
	screams       repository.ScreamRepository
	notifications repository.NotificationRepository
}

func NewNotificationGenerator(screams repository.ScreamRepository, notifications repository.NotificationRepository) *NotificationGenerator {
	return &NotificationGenerator{screams: screams, notifications: notifications}
}

func (g *NotificationGenerator) OnLikeCreated(ctx context.Context, likeID, screamID, sender string) error {
	return g.notify(ctx, likeID, screamID, sender, models.NotificationTypeLike)
}

func (g *NotificationGenerator) OnCommentCreated(ctx context.Context, commentID, screamID, sender string) error {
	return g.notify(ctx, commentID, screamID, sender, models.NotificationTypeComment)
}

// OnLikeRemoved deletes the like's notification if there is one.
func (g *NotificationGenerator) OnLikeRemoved(ctx context.Context, likeID string) error {
	return g.notifications.DeleteByID(ctx, likeID)
}

func (g *NotificationGenerator) notify(ctx context.Context, id, screamID, sender, kind string) error {
	scream, err := g.screams.GetByID(ctx, screamID)
	if models.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if scream.UserHandle == sender {
		return nil
	}

	return g.notifications.Put(ctx, &models.Notification{
		ID:        id,
		Recipient: scream.UserHandle,
		Sender:    sender,
		ScreamID:  screamID,
		Type:      kind,
		Read:      false,
	})
}
