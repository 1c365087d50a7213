package database

import (
	"testing"

	"screams/internal/config"
	"screams/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns: 10,
		DBMaxIdleConns: 5,
	}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func TestConnect_SQLiteMigratesAndTranslatesUniqueViolations(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DBDSN: ":memory:", Env: "test", DBMaxOpenConns: 1}
	db, err := Connect(cfg)
	require.NoError(t, err)

	like := &models.Like{ScreamID: "s1", UserHandle: "alice"}
	require.NoError(t, db.Create(like).Error)

	err = db.Create(&models.Like{ScreamID: "s1", UserHandle: "alice"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
