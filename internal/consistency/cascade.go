package consistency

import (
	"context"
	"log/slog"

	"screams/internal/observability"
	"screams/internal/repository"

	"golang.org/x/sync/errgroup"
)

// CascadeDeleter removes the comments, likes and notifications of a deleted
// scream.
type CascadeDeleter struct {
	comments      repository.CommentRepository
	likes         repository.LikeRepository
	notifications repository.NotificationRepository
	batcher       repository.Batcher
}

func NewCascadeDeleter(
	comments repository.CommentRepository,
	likes repository.LikeRepository,
	notifications repository.NotificationRepository,
	batcher repository.Batcher,
) *CascadeDeleter {
	return &CascadeDeleter{comments: comments, likes: likes, notifications: notifications, batcher: batcher}
}

// OnScreamDeleted enumerates every dependent record concurrently, then
// deletes them all through one batch. A crash between chunks can leave some
// dependents behind; running the cascade again removes them.
func (d *CascadeDeleter) OnScreamDeleted(ctx context.Context, screamID string) error {
	var commentIDs, likeIDs, notificationIDs []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := d.comments.ListIDsByScream(gctx, screamID)
		commentIDs = ids
		return err
	})
	g.Go(func() error {
		ids, err := d.likes.ListIDsByScream(gctx, screamID)
		likeIDs = ids
		return err
	})
	g.Go(func() error {
		ids, err := d.notifications.ListIDsByScream(gctx, screamID)
		notificationIDs = ids
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	batch := d.batcher.NewBatch()
	for _, id := range commentIDs {
		batch.StageDelete(repository.CollectionComments, id)
	}
	for _, id := range likeIDs {
		batch.StageDelete(repository.CollectionLikes, id)
	}
	for _, id := range notificationIDs {
		batch.StageDelete(repository.CollectionNotifications, id)
	}

	writes := batch.Len()
	chunks, err := batch.Commit(ctx)
	if err != nil {
		return err
	}

	observability.Logger.DebugContext(ctx, "scream cascade complete",
		slog.String("scream_id", screamID),
		slog.Int("deleted", writes),
		slog.Int("chunks", chunks),
	)
	return nil
}
