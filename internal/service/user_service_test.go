package service

import (
	"context"
	"testing"

	"screams/internal/events"
	"screams/internal/models"
	"screams/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	user, err := f.users.Register(ctx, RegisterInput{Handle: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "/static/no-img.png", user.ImageURL)

	_, err = f.users.Register(ctx, RegisterInput{Handle: "alice", Email: "other@example.com"})
	assert.Equal(t, models.CodeConflict, models.CodeOf(err))

	_, err = f.users.Register(ctx, RegisterInput{Handle: "bob", Email: "not-an-email"})
	assert.Equal(t, models.CodeValidation, models.CodeOf(err))
}

func TestUpdateImage(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "alice", "old.png")
	testutil.CreateUser(t, f.db, "bob", "bob.png")

	scream, err := f.screams.CreateScream(ctx, CreateScreamInput{Handle: "alice", Body: "hi"})
	require.NoError(t, err)
	other, err := f.screams.CreateScream(ctx, CreateScreamInput{Handle: "bob", Body: "yo"})
	require.NoError(t, err)
	comment, err := f.comments.CreateComment(ctx, CreateCommentInput{Handle: "alice", ScreamID: other.ID, Body: "hey"})
	require.NoError(t, err)

	t.Run("unchanged image publishes nothing", func(t *testing.T) {
		before := len(f.bus.published())
		_, err := f.users.UpdateImage(ctx, "alice", "old.png")
		require.NoError(t, err)
		assert.Len(t, f.bus.published(), before)
	})

	t.Run("new image fans out", func(t *testing.T) {
		user, err := f.users.UpdateImage(ctx, "alice", "new.png")
		require.NoError(t, err)
		assert.Equal(t, "new.png", user.ImageURL)

		published := f.bus.published()
		assert.Equal(t, events.KindUserImageChanged, published[len(published)-1])

		assert.Equal(t, "new.png", testutil.ReloadScream(t, f.db, scream.ID).UserImage)
		assert.Equal(t, "bob.png", testutil.ReloadScream(t, f.db, other.ID).UserImage)

		var c models.Comment
		require.NoError(t, f.db.First(&c, "id = ?", comment.ID).Error)
		assert.Equal(t, "new.png", c.UserImage)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.users.UpdateImage(ctx, "ghost", "x.png")
		assert.True(t, models.IsNotFound(err))
	})
}

func TestReduceUserDetails(t *testing.T) {
	tests := []struct {
		name     string
		in       UpdateDetailsInput
		expected map[string]interface{}
	}{
		{
			name:     "website without scheme",
			in:       UpdateDetailsInput{Website: "example.com"},
			expected: map[string]interface{}{"website": "http://example.com"},
		},
		{
			name:     "website with scheme",
			in:       UpdateDetailsInput{Website: "https://example.com", Bio: " hi "},
			expected: map[string]interface{}{"website": "https://example.com", "bio": "hi"},
		},
		{
			name:     "blank fields dropped",
			in:       UpdateDetailsInput{Bio: " ", Location: "Lisbon"},
			expected: map[string]interface{}{"location": "Lisbon"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, reduceUserDetails(tt.in))
		})
	}
}

func TestGetAuthenticatedAndDetails(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "alice", "a.png")
	testutil.CreateUser(t, f.db, "bob", "b.png")

	scream, err := f.screams.CreateScream(ctx, CreateScreamInput{Handle: "alice", Body: "hi"})
	require.NoError(t, err)
	_, err = f.likes.LikeScream(ctx, "bob", scream.ID)
	require.NoError(t, err)
	require.NoError(t, f.users.UpdateDetails(ctx, "alice", UpdateDetailsInput{Bio: "hello"}))

	me, err := f.users.GetAuthenticated(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hello", me.Credentials.Bio)
	assert.Empty(t, me.Likes)
	require.Len(t, me.Notifications, 1)
	assert.Equal(t, "bob", me.Notifications[0].Sender)

	bob, err := f.users.GetAuthenticated(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, bob.Likes, 1)

	details, err := f.users.GetDetails(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, details.Screams, 1)
}

func TestMarkRead(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "alice", "a.png")
	testutil.CreateUser(t, f.db, "bob", "b.png")

	mine := &models.Notification{ID: "n1", Recipient: "alice", Sender: "bob", ScreamID: "s1", Type: models.NotificationTypeLike}
	theirs := &models.Notification{ID: "n2", Recipient: "bob", Sender: "alice", ScreamID: "s2", Type: models.NotificationTypeLike}
	require.NoError(t, f.store.Notifications.Put(ctx, mine))
	require.NoError(t, f.store.Notifications.Put(ctx, theirs))

	marked, err := f.notifications.MarkRead(ctx, "alice", []string{"n1", "n2", "missing"})
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	assert.EqualValues(t, 1, testutil.Count(t, f.db, &models.Notification{}, "id = ? AND read = ?", "n1", true))
	assert.EqualValues(t, 1, testutil.Count(t, f.db, &models.Notification{}, "id = ? AND read = ?", "n2", false))

	_, err = f.notifications.MarkRead(ctx, "alice", nil)
	assert.Equal(t, models.CodeValidation, models.CodeOf(err))
}
