package database

import "screams/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Scream{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
	}
}
