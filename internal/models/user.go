package models

import "time"

// User is keyed by its immutable handle. ImageURL is copied onto every
// scream, comment and like the user authors.
type User struct {
	Handle    string    `gorm:"primaryKey;type:varchar(64)" json:"handle"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	ImageURL  string    `json:"image_url"`
	Bio       string    `json:"bio,omitempty"`
	Website   string    `json:"website,omitempty"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthenticatedUser is the view a user gets of their own account.
type AuthenticatedUser struct {
	Credentials   *User           `json:"credentials"`
	Likes         []*Like         `json:"likes"`
	Notifications []*Notification `json:"notifications"`
}

// UserDetails is the public view of a user and their screams.
type UserDetails struct {
	User    *User     `json:"user"`
	Screams []*Scream `json:"screams"`
}
