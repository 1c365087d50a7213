package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a reply to a scream. It is only ever created while its scream
// exists and is removed together with it.
type Comment struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"comment_id"`
	ScreamID   string    `gorm:"not null;index" json:"scream_id"`
	UserHandle string    `gorm:"not null;index" json:"user_handle"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	UserImage  string    `json:"user_image"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate assigns a random id when the caller did not pick one.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
