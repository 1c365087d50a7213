// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scream is a short user-authored post. LikeCount and CommentCount are
// denormalized and kept in step with the likes and comments tables by the
// consistency engine; UserImage mirrors the author's current display image.
type Scream struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"scream_id"`
	UserHandle   string    `gorm:"not null;index" json:"user_handle"`
	Body         string    `gorm:"type:text;not null" json:"body"`
	UserImage    string    `json:"user_image"`
	LikeCount    int       `gorm:"not null;default:0" json:"like_count"`
	CommentCount int       `gorm:"not null;default:0" json:"comment_count"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`

	// Comments is populated only by the single-scream read path.
	Comments []*Comment `gorm:"-" json:"comments,omitempty"`
}

// BeforeCreate assigns a random id when the caller did not pick one.
func (s *Scream) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
