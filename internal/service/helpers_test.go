package service

import (
	"context"
	"sync"
	"testing"

	"screams/internal/consistency"
	"screams/internal/events"
	"screams/internal/repository"
	"screams/internal/testutil"

	"gorm.io/gorm"
)

// recordingBus runs reactions inline and remembers what was published.
type recordingBus struct {
	mu    sync.Mutex
	inner events.Bus
	kinds []events.Kind
}

func (b *recordingBus) Publish(ctx context.Context, e events.Event) error {
	b.mu.Lock()
	b.kinds = append(b.kinds, e.Kind)
	b.mu.Unlock()
	if b.inner == nil {
		return nil
	}
	return b.inner.Publish(ctx, e)
}

func (b *recordingBus) published() []events.Kind {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]events.Kind(nil), b.kinds...)
}

type fixture struct {
	db            *gorm.DB
	store         consistency.Store
	bus           *recordingBus
	screams       *ScreamService
	comments      *CommentService
	likes         *LikeService
	users         *UserService
	notifications *NotificationService
}

func setupServices(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	store := consistency.Store{
		Screams:       repository.NewScreamRepository(db),
		Comments:      repository.NewCommentRepository(db),
		Likes:         repository.NewLikeRepository(db),
		Notifications: repository.NewNotificationRepository(db),
		Batcher:       repository.NewBatcher(db, repository.DefaultBatchMaxWrites),
		Tx:            repository.NewTransactor(db),
	}
	return buildFixture(db, store)
}

func buildFixture(db *gorm.DB, store consistency.Store) *fixture {
	users := repository.NewUserRepository(db)
	engine := consistency.NewEngine(store)
	bus := &recordingBus{inner: events.NewSyncBus(consistency.NewReactor(engine), events.RetryPolicy{})}

	return &fixture{
		db:            db,
		store:         store,
		bus:           bus,
		screams:       NewScreamService(store.Screams, store.Comments, users, bus),
		comments:      NewCommentService(store.Screams, store.Comments, users, engine, bus),
		likes:         NewLikeService(store.Screams, store.Likes, users, engine, bus),
		users:         NewUserService(users, store.Screams, store.Likes, store.Notifications, bus, "/static/no-img.png"),
		notifications: NewNotificationService(store.Notifications, store.Batcher),
	}
}
