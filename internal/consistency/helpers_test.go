package consistency

import (
	"context"
	"testing"

	"screams/internal/models"
	"screams/internal/repository"
	"screams/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStore(db *gorm.DB, maxWrites int) Store {
	return Store{
		Screams:       repository.NewScreamRepository(db),
		Comments:      repository.NewCommentRepository(db),
		Likes:         repository.NewLikeRepository(db),
		Notifications: repository.NewNotificationRepository(db),
		Batcher:       repository.NewBatcher(db, maxWrites),
		Tx:            repository.NewTransactor(db),
	}
}

func setupEngine(t *testing.T) (*gorm.DB, Store, *Engine) {
	t.Helper()
	db := testutil.NewTestDB(t)
	store := newTestStore(db, repository.DefaultBatchMaxWrites)
	return db, store, NewEngine(store)
}

func addLike(t *testing.T, store Store, screamID, handle string) *models.Like {
	t.Helper()
	like := &models.Like{ScreamID: screamID, UserHandle: handle}
	require.NoError(t, store.Likes.Create(context.Background(), like))
	return like
}

func addComment(t *testing.T, store Store, screamID, handle string) *models.Comment {
	t.Helper()
	comment := &models.Comment{ScreamID: screamID, UserHandle: handle, Body: "nice"}
	require.NoError(t, store.Comments.Create(context.Background(), comment))
	return comment
}
