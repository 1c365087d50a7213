package consistency

import (
	"context"
	"testing"

	"screams/internal/events"
	"screams/internal/models"
	"screams/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactor_RoutesEvents(t *testing.T) {
	db, store, engine := setupEngine(t)
	reactor := NewReactor(engine)
	ctx := context.Background()
	scream := testutil.CreateScream(t, db, "alice", "a.png")

	like := addLike(t, store, scream.ID, "bob")
	require.NoError(t, reactor.Handle(ctx, events.LikeCreated(like.ID, scream.ID, "bob")))
	assert.EqualValues(t, 1, testutil.Count(t, db, &models.Notification{}, "id = ?", like.ID))

	require.NoError(t, reactor.Handle(ctx, events.LikeRemoved(like.ID, scream.ID, "bob")))
	assert.EqualValues(t, 0, testutil.Count(t, db, &models.Notification{}, "id = ?", like.ID))

	comment := addComment(t, store, scream.ID, "carol")
	require.NoError(t, reactor.Handle(ctx, events.CommentCreated(comment.ID, scream.ID, "carol")))

	require.NoError(t, reactor.Handle(ctx, events.UserImageChanged("alice", "a.png", "b.png")))
	assert.Equal(t, "b.png", testutil.ReloadScream(t, db, scream.ID).UserImage)

	require.NoError(t, store.Screams.Delete(ctx, scream.ID))
	require.NoError(t, reactor.Handle(ctx, events.ScreamDeleted(scream.ID, "alice")))
	assert.EqualValues(t, 0, testutil.Count(t, db, &models.Notification{}, "scream_id = ?", scream.ID))
	assert.EqualValues(t, 0, testutil.Count(t, db, &models.Comment{}, "scream_id = ?", scream.ID))
	assert.EqualValues(t, 0, testutil.Count(t, db, &models.Like{}, "scream_id = ?", scream.ID))
}

func TestReactor_UnknownKindIsAnError(t *testing.T) {
	_, _, engine := setupEngine(t)
	err := NewReactor(engine).Handle(context.Background(), events.Event{Kind: "scream.renamed"})
	assert.Equal(t, models.CodeValidation, models.CodeOf(err))
}

type failingScreams struct {
	fakeScreams
	err error
}

func (f failingScreams) GetByID(ctx context.Context, id string) (*models.Scream, error) {
	return nil, f.err
}

func TestReactor_ClassifiesFailures(t *testing.T) {
	_, store, _ := setupEngine(t)

	t.Run("not found is swallowed", func(t *testing.T) {
		store.Screams = failingScreams{err: models.NewNotFoundError("scream", "s1")}
		err := NewReactor(NewEngine(store)).Handle(context.Background(), events.LikeCreated("l1", "s1", "bob"))
		assert.NoError(t, err)
	})

	t.Run("store unavailable is returned for retry", func(t *testing.T) {
		store.Screams = failingScreams{err: models.NewStoreUnavailableError(assert.AnError)}
		err := NewReactor(NewEngine(store)).Handle(context.Background(), events.LikeCreated("l1", "s1", "bob"))
		assert.True(t, models.IsStoreUnavailable(err))
	})
}
