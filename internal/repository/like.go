package repository

import (
	"context"
	"errors"

	"screams/internal/models"

	"gorm.io/gorm"
)

// LikeRepository defines interface for like operations
type LikeRepository interface {
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, id string) error
	FindByHandleAndScream(ctx context.Context, handle, screamID string) (*models.Like, error)
	ListByHandle(ctx context.Context, handle string) ([]*models.Like, error)
	ListIDsByScream(ctx context.Context, screamID string) ([]string, error)
	ListIDsByHandle(ctx context.Context, handle string) ([]string, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Create inserts the like. The (user_handle, scream_id) unique index rejects
// a second like that slipped past the guard with DUPLICATE_LIKE.
func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	err := conn(ctx, r.db).Create(like).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.NewDuplicateLikeError(like.ScreamID)
	}
	return translateList(err)
}

// Delete removes the like, or reports NOT_FOUND when another request already
// removed it.
func (r *likeRepository) Delete(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Where("id = ?", id).Delete(&models.Like{})
	if res.Error != nil {
		return translate(res.Error, "like", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("like", id)
	}
	return nil
}

// FindByHandleAndScream returns the caller's like on a scream, or NOT_FOUND.
func (r *likeRepository) FindByHandleAndScream(ctx context.Context, handle, screamID string) (*models.Like, error) {
	var likes []*models.Like
	err := conn(ctx, r.db).
		Where("user_handle = ? AND scream_id = ?", handle, screamID).
		Limit(1).
		Find(&likes).Error
	if err != nil {
		return nil, translateList(err)
	}
	if len(likes) == 0 {
		return nil, models.NewNotFoundError("like", handle+"/"+screamID)
	}
	return likes[0], nil
}

func (r *likeRepository) ListByHandle(ctx context.Context, handle string) ([]*models.Like, error) {
	var likes []*models.Like
	err := conn(ctx, r.db).Where("user_handle = ?", handle).Find(&likes).Error
	return likes, translateList(err)
}

func (r *likeRepository) ListIDsByScream(ctx context.Context, screamID string) ([]string, error) {
	var ids []string
	err := conn(ctx, r.db).Model(&models.Like{}).Where("scream_id = ?", screamID).Pluck("id", &ids).Error
	return ids, translateList(err)
}

func (r *likeRepository) ListIDsByHandle(ctx context.Context, handle string) ([]string, error) {
	var ids []string
	err := conn(ctx, r.db).Model(&models.Like{}).Where("user_handle = ?", handle).Pluck("id", &ids).Error
	return ids, translateList(err)
}
