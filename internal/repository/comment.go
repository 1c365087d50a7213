package repository

import (
	"context"

	"screams/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id string) error
	ListByScream(ctx context.Context, screamID string) ([]*models.Comment, error)
	ListIDsByScream(ctx context.Context, screamID string) ([]string, error)
	ListIDsByHandle(ctx context.Context, handle string) ([]string, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return translateList(conn(ctx, r.db).Create(comment).Error)
}

// Delete removes the comment if it exists.
func (r *commentRepository) Delete(ctx context.Context, id string) error {
	return translate(conn(ctx, r.db).Where("id = ?", id).Delete(&models.Comment{}).Error, "comment", id)
}

func (r *commentRepository) ListByScream(ctx context.Context, screamID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := conn(ctx, r.db).Where("scream_id = ?", screamID).Order("created_at desc").Find(&comments).Error
	return comments, translateList(err)
}

func (r *commentRepository) ListIDsByScream(ctx context.Context, screamID string) ([]string, error) {
	var ids []string
	err := conn(ctx, r.db).Model(&models.Comment{}).Where("scream_id = ?", screamID).Pluck("id", &ids).Error
	return ids, translateList(err)
}

func (r *commentRepository) ListIDsByHandle(ctx context.Context, handle string) ([]string, error) {
	var ids []string
	err := conn(ctx, r.db).Model(&models.Comment{}).Where("user_handle = ?", handle).Pluck("id", &ids).Error
	return ids, translateList(err)
}
