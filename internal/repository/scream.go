// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"fmt"

	"screams/internal/cache"
	"screams/internal/models"
	"screams/internal/observability"

	"gorm.io/gorm"
)

// ScreamRepository defines the interface for scream data operations
type ScreamRepository interface {
	Create(ctx context.Context, scream *models.Scream) error
	GetByID(ctx context.Context, id string) (*models.Scream, error)
	List(ctx context.Context, limit int) ([]*models.Scream, error)
	ListByHandle(ctx context.Context, handle string) ([]*models.Scream, error)
	ListIDsByHandle(ctx context.Context, handle string) ([]string, error)
	Delete(ctx context.Context, id string) error
	AdjustLikeCount(ctx context.Context, id string, delta int) error
	AdjustCommentCount(ctx context.Context, id string, delta int) error
}

type screamRepository struct {
	db *gorm.DB
}

// NewScreamRepository creates a new scream repository
func NewScreamRepository(db *gorm.DB) ScreamRepository {
	return &screamRepository{db: db}
}

func (r *screamRepository) Create(ctx context.Context, scream *models.Scream) error {
	err := conn(ctx, r.db).Create(scream).Error
	if err == nil {
		afterCommit(ctx, func() { cache.InvalidateScreams(ctx) })
	}
	return translateList(err)
}

func (r *screamRepository) GetByID(ctx context.Context, id string) (*models.Scream, error) {
	var scream models.Scream
	err := cache.Aside(ctx, cache.ScreamKey(id), &scream, cache.ScreamTTL, func() error {
		return conn(ctx, r.db).Where("id = ?", id).First(&scream).Error
	})
	if err != nil {
		return nil, translate(err, "scream", id)
	}
	return &scream, nil
}

// List returns screams newest first. Only the full feed is cached; a limited
// page always reads through.
func (r *screamRepository) List(ctx context.Context, limit int) ([]*models.Scream, error) {
	var screams []*models.Scream
	if limit > 0 {
		err := conn(ctx, r.db).Order("created_at desc").Limit(limit).Find(&screams).Error
		return screams, translateList(err)
	}
	err := cache.Aside(ctx, cache.ScreamsListKey, &screams, cache.ListTTL, func() error {
		return conn(ctx, r.db).Order("created_at desc").Find(&screams).Error
	})
	return screams, translateList(err)
}

func (r *screamRepository) ListByHandle(ctx context.Context, handle string) ([]*models.Scream, error) {
	var screams []*models.Scream
	err := conn(ctx, r.db).Where("user_handle = ?", handle).Order("created_at desc").Find(&screams).Error
	return screams, translateList(err)
}

func (r *screamRepository) ListIDsByHandle(ctx context.Context, handle string) ([]string, error) {
	var ids []string
	err := conn(ctx, r.db).Model(&models.Scream{}).Where("user_handle = ?", handle).Pluck("id", &ids).Error
	return ids, translateList(err)
}

func (r *screamRepository) Delete(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Where("id = ?", id).Delete(&models.Scream{})
	if res.Error != nil {
		return translate(res.Error, "scream", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("scream", id)
	}
	afterCommit(ctx, func() { cache.InvalidateScreams(ctx, id) })
	return nil
}

func (r *screamRepository) AdjustLikeCount(ctx context.Context, id string, delta int) error {
	return r.adjust(ctx, "like_count", id, delta)
}

func (r *screamRepository) AdjustCommentCount(ctx context.Context, id string, delta int) error {
	return r.adjust(ctx, "comment_count", id, delta)
}

// adjust applies delta to a counter column in a single UPDATE so concurrent
// writers never lose increments. The result is floored at zero.
func (r *screamRepository) adjust(ctx context.Context, column, id string, delta int) error {
	ctx, span := observability.TraceRepositoryMethod(ctx, "Adjust_"+column, "screams")
	defer span.End()
	defer observability.TrackQuery("adjust_"+column, "screams")()

	expr := gorm.Expr(fmt.Sprintf("CASE WHEN %[1]s + ? < 0 THEN 0 ELSE %[1]s + ? END", column), delta, delta)
	res := conn(ctx, r.db).Model(&models.Scream{}).Where("id = ?", id).UpdateColumn(column, expr)
	if res.Error != nil {
		observability.CounterAdjustments.WithLabelValues(column, "error").Inc()
		return translate(res.Error, "scream", id)
	}
	if res.RowsAffected == 0 {
		observability.CounterAdjustments.WithLabelValues(column, "parent_gone").Inc()
		return models.NewNotFoundError("scream", id)
	}
	observability.CounterAdjustments.WithLabelValues(column, "ok").Inc()
	afterCommit(ctx, func() { cache.InvalidateScreams(ctx, id) })
	return nil
}
