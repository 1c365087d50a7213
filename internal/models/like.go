package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like represents a user's like on a scream.
// The combination of UserHandle and ScreamID must be unique.
type Like struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"like_id"`
	ScreamID   string    `gorm:"not null;uniqueIndex:idx_like_user_scream;index" json:"scream_id"`
	UserHandle string    `gorm:"not null;uniqueIndex:idx_like_user_scream" json:"user_handle"`
	UserImage  string    `json:"user_image"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate assigns a random id when the caller did not pick one.
func (l *Like) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
