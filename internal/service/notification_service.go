package service

import (
	"context"

	"screams/internal/models"
	"screams/internal/repository"
)

type NotificationService struct {
	notificationRepo repository.NotificationRepository
	batcher          repository.Batcher
}

func NewNotificationService(notificationRepo repository.NotificationRepository, batcher repository.Batcher) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, batcher: batcher}
}

// MarkRead flags the given notifications as read in one batch and returns
// how many were updated. Ids that belong to someone else are skipped.
func (s *NotificationService) MarkRead(ctx context.Context, handle string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, models.NewValidationError("No notification ids given")
	}

	notifications, err := s.notificationRepo.ListByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	batch := s.batcher.NewBatch()
	for _, n := range notifications {
		if n.Recipient != handle {
			continue
		}
		batch.StageUpdate(repository.CollectionNotifications, n.ID, map[string]interface{}{"read": true})
	}

	marked := batch.Len()
	if _, err := batch.Commit(ctx); err != nil {
		return 0, err
	}
	return marked, nil
}
