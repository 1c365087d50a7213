package repository

import (
	"context"
	"errors"

	"screams/internal/cache"
	"screams/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	GetByHandle(ctx context.Context, handle string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateDetails(ctx context.Context, handle string, details map[string]interface{}) error
	UpdateImage(ctx context.Context, handle, imageURL string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByHandle(ctx context.Context, handle string) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(handle), &user, cache.UserTTL, func() error {
		return conn(ctx, r.db).Where("handle = ?", handle).First(&user).Error
	})
	if err != nil {
		return nil, translate(err, "user", handle)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	err := conn(ctx, r.db).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.NewConflictError("handle or email already taken")
	}
	return translateList(err)
}

func (r *userRepository) UpdateDetails(ctx context.Context, handle string, details map[string]interface{}) error {
	return r.update(ctx, handle, details)
}

func (r *userRepository) UpdateImage(ctx context.Context, handle, imageURL string) error {
	return r.update(ctx, handle, map[string]interface{}{"image_url": imageURL})
}

func (r *userRepository) update(ctx context.Context, handle string, fields map[string]interface{}) error {
	res := conn(ctx, r.db).Model(&models.User{}).Where("handle = ?", handle).Updates(fields)
	if res.Error != nil {
		return translate(res.Error, "user", handle)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("user", handle)
	}
	afterCommit(ctx, func() { cache.InvalidateUser(ctx, handle) })
	return nil
}
