package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"screams/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(retries uint) RetryPolicy {
	return RetryPolicy{MaxRetries: retries, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}
}

func TestDispatch_RetriesStoreUnavailable(t *testing.T) {
	calls := 0
	h := HandlerFunc(func(ctx context.Context, e Event) error {
		calls++
		if calls < 3 {
			return models.NewStoreUnavailableError(errors.New("connection reset"))
		}
		return nil
	})

	err := Dispatch(context.Background(), h, LikeCreated("l1", "s1", "bob"), fastPolicy(5))
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDispatch_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	h := HandlerFunc(func(ctx context.Context, e Event) error {
		calls++
		return models.NewStoreUnavailableError(errors.New("down"))
	})

	err := Dispatch(context.Background(), h, LikeCreated("l1", "s1", "bob"), fastPolicy(2))
	assert.True(t, models.IsStoreUnavailable(err))
	assert.Equal(t, 3, calls)
}

func TestDispatch_DoesNotRetryOtherErrors(t *testing.T) {
	calls := 0
	h := HandlerFunc(func(ctx context.Context, e Event) error {
		calls++
		return models.NewValidationError("bad event")
	})

	err := Dispatch(context.Background(), h, LikeCreated("l1", "s1", "bob"), fastPolicy(5))
	assert.Equal(t, models.CodeValidation, models.CodeOf(err))
	assert.Equal(t, 1, calls)
}

func TestSyncBus_RunsHandlerInline(t *testing.T) {
	var got Event
	bus := NewSyncBus(HandlerFunc(func(ctx context.Context, e Event) error {
		got = e
		return nil
	}), fastPolicy(0))

	require.NoError(t, bus.Publish(context.Background(), CommentCreated("c1", "s1", "bob")))
	assert.Equal(t, KindCommentCreated, got.Kind)
	assert.Equal(t, "c1", got.ID)

	assert.NoError(t, NewSyncBus(nil, fastPolicy(0)).Publish(context.Background(), ScreamDeleted("s1", "alice")))
}

func setupStreamBus(t *testing.T) (*RedisBus, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	bus := NewRedisBus(rdb, fastPolicy(0), StreamConfig{
		Stream:   "changes",
		Group:    "reactors",
		Consumer: "test-consumer",
		Block:    20 * time.Millisecond,
	})
	return bus, rdb
}

func TestRedisBus_RoundTrip(t *testing.T) {
	bus, _ := setupStreamBus(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Event, 1)
	require.NoError(t, bus.Subscribe(ctx, HandlerFunc(func(ctx context.Context, e Event) error {
		received <- e
		return nil
	})))

	require.NoError(t, bus.Publish(ctx, UserImageChanged("alice", "old.png", "new.png")))

	select {
	case e := <-received:
		assert.Equal(t, KindUserImageChanged, e.Kind)
		assert.Equal(t, "alice", e.Handle)
		assert.Equal(t, "old.png", e.OldImage)
		assert.Equal(t, "new.png", e.NewImage)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestRedisBus_DeliversEventsPublishedBeforeSubscribe(t *testing.T) {
	bus, _ := setupStreamBus(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Publish(ctx, ScreamDeleted("s1", "alice")))

	received := make(chan Event, 1)
	require.NoError(t, bus.Subscribe(ctx, HandlerFunc(func(ctx context.Context, e Event) error {
		received <- e
		return nil
	})))

	select {
	case e := <-received:
		assert.Equal(t, KindScreamDeleted, e.Kind)
		assert.Equal(t, "s1", e.ScreamID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestRedisBus_RedeliversFailedReaction(t *testing.T) {
	bus, rdb := setupStreamBus(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	calls := 0
	require.NoError(t, bus.Subscribe(ctx, HandlerFunc(func(ctx context.Context, e Event) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls < 3 {
			return models.NewStoreUnavailableError(errors.New("connection reset"))
		}
		return nil
	})))

	require.NoError(t, bus.Publish(ctx, LikeCreated("l1", "s1", "bob")))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 3
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		pending, err := rdb.XPending(context.Background(), "changes", "reactors").Result()
		return err == nil && pending.Count == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRedisBus_AcksPermanentFailures(t *testing.T) {
	bus, rdb := setupStreamBus(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handled := make(chan struct{}, 1)
	require.NoError(t, bus.Subscribe(ctx, HandlerFunc(func(ctx context.Context, e Event) error {
		select {
		case handled <- struct{}{}:
		default:
		}
		return models.NewValidationError("bad event")
	})))

	require.NoError(t, bus.Publish(ctx, LikeRemoved("l1", "s1", "bob")))

	select {
	case <-handled:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	require.Eventually(t, func() bool {
		pending, err := rdb.XPending(context.Background(), "changes", "reactors").Result()
		return err == nil && pending.Count == 0
	}, 2*time.Second, 10*time.Millisecond)
}
