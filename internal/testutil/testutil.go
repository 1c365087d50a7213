// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"testing"
	"time"

	"screams/internal/database"
	"screams/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory SQLite database with the full schema.
// The pool is pinned to one connection so every query sees the same database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := database.GormConfig()
	cfg.Logger = cfg.Logger.LogMode(logger.Silent)

	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user with the given handle and image.
func CreateUser(t *testing.T, db *gorm.DB, handle, image string) *models.User {
	t.Helper()
	user := &models.User{Handle: handle, Email: handle + "@example.com", ImageURL: image}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateScream inserts a scream authored by handle.
func CreateScream(t *testing.T, db *gorm.DB, handle, image string) *models.Scream {
	t.Helper()
	scream := &models.Scream{UserHandle: handle, Body: "scream by " + handle, UserImage: image, CreatedAt: time.Now()}
	require.NoError(t, db.Create(scream).Error)
	return scream
}

// ReloadScream fetches the current row for id.
func ReloadScream(t *testing.T, db *gorm.DB, id string) *models.Scream {
	t.Helper()
	var scream models.Scream
	require.NoError(t, db.First(&scream, "id = ?", id).Error)
	return &scream
}

// Count returns the number of rows of model matching the query.
func Count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
