package consistency

import (
	"context"
	"errors"
	"testing"

	"screams/internal/models"
	"screams/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterMaintainer(t *testing.T) {
	db, _, engine := setupEngine(t)
	ctx := context.Background()
	scream := testutil.CreateScream(t, db, "alice", "a.png")

	require.NoError(t, engine.Counters.OnLikeCreated(ctx, scream.ID))
	require.NoError(t, engine.Counters.OnCommentCreated(ctx, scream.ID))
	require.NoError(t, engine.Counters.OnCommentCreated(ctx, scream.ID))

	got := testutil.ReloadScream(t, db, scream.ID)
	assert.Equal(t, 1, got.LikeCount)
	assert.Equal(t, 2, got.CommentCount)

	t.Run("decrement is floored at zero", func(t *testing.T) {
		require.NoError(t, engine.Counters.OnLikeRemoved(ctx, scream.ID))
		require.NoError(t, engine.Counters.OnLikeRemoved(ctx, scream.ID))
		assert.Equal(t, 0, testutil.ReloadScream(t, db, scream.ID).LikeCount)
	})

	t.Run("increment on a vanished scream is a soft failure", func(t *testing.T) {
		err := engine.Counters.OnLikeCreated(ctx, "gone")
		assert.True(t, errors.Is(err, ErrParentGone))
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("decrement on a vanished scream is swallowed", func(t *testing.T) {
		assert.NoError(t, engine.Counters.OnLikeRemoved(ctx, "gone"))
	})
}

func TestLikeGuard(t *testing.T) {
	db, store, engine := setupEngine(t)
	ctx := context.Background()
	scream := testutil.CreateScream(t, db, "alice", "a.png")

	require.NoError(t, engine.Guard.EnsureNotLiked(ctx, "bob", scream.ID))
	_, err := engine.Guard.RequireLike(ctx, "bob", scream.ID)
	assert.Equal(t, models.CodeLikeNotFound, models.CodeOf(err))

	like := addLike(t, store, scream.ID, "bob")

	err = engine.Guard.EnsureNotLiked(ctx, "bob", scream.ID)
	assert.Equal(t, models.CodeDuplicateLike, models.CodeOf(err))

	found, err := engine.Guard.RequireLike(ctx, "bob", scream.ID)
	require.NoError(t, err)
	assert.Equal(t, like.ID, found.ID)
}
