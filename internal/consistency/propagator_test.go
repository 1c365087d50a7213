package consistency

import (
	"context"
	"testing"

	"screams/internal/models"
	"screams/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilePropagator(t *testing.T) {
	db, store, engine := setupEngine(t)
	ctx := context.Background()

	mine := testutil.CreateScream(t, db, "alice", "old.png")
	theirs := testutil.CreateScream(t, db, "bob", "bob.png")

	myComment := &models.Comment{ScreamID: theirs.ID, UserHandle: "alice", UserImage: "old.png", Body: "hi"}
	require.NoError(t, store.Comments.Create(ctx, myComment))
	myLike := &models.Like{ScreamID: theirs.ID, UserHandle: "alice", UserImage: "old.png"}
	require.NoError(t, store.Likes.Create(ctx, myLike))
	theirLike := &models.Like{ScreamID: mine.ID, UserHandle: "bob", UserImage: "bob.png"}
	require.NoError(t, store.Likes.Create(ctx, theirLike))

	t.Run("unchanged image writes nothing", func(t *testing.T) {
		writes, err := engine.Profiles.OnUserImageChanged(ctx, "alice", "old.png", "old.png")
		require.NoError(t, err)
		assert.Equal(t, 0, writes)
	})

	t.Run("new image reaches every authored record and no others", func(t *testing.T) {
		writes, err := engine.Profiles.OnUserImageChanged(ctx, "alice", "old.png", "new.png")
		require.NoError(t, err)
		assert.Equal(t, 3, writes)

		assert.Equal(t, "new.png", testutil.ReloadScream(t, db, mine.ID).UserImage)
		assert.Equal(t, "bob.png", testutil.ReloadScream(t, db, theirs.ID).UserImage)

		var comment models.Comment
		require.NoError(t, db.First(&comment, "id = ?", myComment.ID).Error)
		assert.Equal(t, "new.png", comment.UserImage)

		var like models.Like
		require.NoError(t, db.First(&like, "id = ?", myLike.ID).Error)
		assert.Equal(t, "new.png", like.UserImage)

		var other models.Like
		require.NoError(t, db.First(&other, "id = ?", theirLike.ID).Error)
		assert.Equal(t, "bob.png", other.UserImage)
	})
}
