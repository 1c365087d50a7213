package repository

import (
	"context"

	"screams/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRepository stores notifications keyed by the id of the like or
// comment that produced them.
type NotificationRepository interface {
	Put(ctx context.Context, n *models.Notification) error
	DeleteByID(ctx context.Context, id string) error
	ListIDsByScream(ctx context.Context, screamID string) ([]string, error)
	ListForRecipient(ctx context.Context, handle string, limit int) ([]*models.Notification, error)
	ListByIDs(ctx context.Context, ids []string) ([]*models.Notification, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Put inserts n unless a row with the same id exists. Redelivery of the
// triggering event converges on a single notification and keeps its read flag.
func (r *notificationRepository) Put(ctx context.Context, n *models.Notification) error {
	err := conn(ctx, r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(n).Error
	return translate(err, "notification", n.ID)
}

// DeleteByID is delete-if-exists; a missing id is not an error.
func (r *notificationRepository) DeleteByID(ctx context.Context, id string) error {
	return translate(conn(ctx, r.db).Where("id = ?", id).Delete(&models.Notification{}).Error, "notification", id)
}

func (r *notificationRepository) ListIDsByScream(ctx context.Context, screamID string) ([]string, error) {
	var ids []string
	err := conn(ctx, r.db).Model(&models.Notification{}).Where("scream_id = ?", screamID).Pluck("id", &ids).Error
	return ids, translateList(err)
}

func (r *notificationRepository) ListForRecipient(ctx context.Context, handle string, limit int) ([]*models.Notification, error) {
	var notifications []*models.Notification
	err := conn(ctx, r.db).
		Where("recipient = ?", handle).
		Order("created_at desc").
		Limit(limit).
		Find(&notifications).Error
	return notifications, translateList(err)
}

func (r *notificationRepository) ListByIDs(ctx context.Context, ids []string) ([]*models.Notification, error) {
	var notifications []*models.Notification
	if len(ids) == 0 {
		return notifications, nil
	}
	err := conn(ctx, r.db).Where("id IN ?", ids).Find(&notifications).Error
	return notifications, translateList(err)
}
