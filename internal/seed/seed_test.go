package seed

import (
	"context"
	"testing"

	"screams/internal/models"
	"screams/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunKeepsCountersConsistent(t *testing.T) {
	db := testutil.NewTestDB(t)
	s := NewSeeder(db, "/static/no-img.png")

	res, err := s.Run(context.Background(), Options{Users: 5, Screams: 8, MaxLikes: 4, MaxComments: 3, RandSeed: 42})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Users)
	assert.Equal(t, 8, res.Screams)

	assert.Equal(t, int64(res.Users), testutil.Count(t, db, &models.User{}, "1 = 1"))
	assert.Equal(t, int64(res.Screams), testutil.Count(t, db, &models.Scream{}, "1 = 1"))
	assert.Equal(t, int64(res.Likes), testutil.Count(t, db, &models.Like{}, "1 = 1"))
	assert.Equal(t, int64(res.Comments), testutil.Count(t, db, &models.Comment{}, "1 = 1"))

	var screams []models.Scream
	require.NoError(t, db.Find(&screams).Error)
	for _, sc := range screams {
		var likes, comments int64
		require.NoError(t, db.Model(&models.Like{}).Where("scream_id = ?", sc.ID).Count(&likes).Error)
		require.NoError(t, db.Model(&models.Comment{}).Where("scream_id = ?", sc.ID).Count(&comments).Error)
		assert.Equal(t, likes, int64(sc.LikeCount), "likeCount of %s", sc.ID)
		assert.Equal(t, comments, int64(sc.CommentCount), "commentCount of %s", sc.ID)
	}
}

func TestRunRequiresUsers(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, err := NewSeeder(db, "").Run(context.Background(), Options{Screams: 3})
	assert.Equal(t, models.CodeValidation, models.CodeOf(err))
}

func TestClearAll(t *testing.T) {
	db := testutil.NewTestDB(t)
	s := NewSeeder(db, "/static/no-img.png")
	_, err := s.Run(context.Background(), Options{Users: 3, Screams: 4, MaxLikes: 2, MaxComments: 2, RandSeed: 7})
	require.NoError(t, err)

	require.NoError(t, s.ClearAll(context.Background()))
	for _, m := range []interface{}{&models.User{}, &models.Scream{}, &models.Comment{}, &models.Like{}, &models.Notification{}} {
		assert.Zero(t, testutil.Count(t, db, m, "1 = 1"))
	}
}
