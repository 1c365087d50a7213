package models

import "time"

// Notification types.
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
)

// Notification tells a scream's author that someone else liked or commented
// on it. ID always equals the id of the triggering like or comment, so
// re-delivering the same creation event overwrites instead of duplicating.
type Notification struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"notification_id"`
	Recipient string    `gorm:"not null;index" json:"recipient"`
	Sender    string    `gorm:"not null" json:"sender"`
	ScreamID  string    `gorm:"not null;index" json:"scream_id"`
	Type      string    `gorm:"type:varchar(16);not null" json:"type"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
