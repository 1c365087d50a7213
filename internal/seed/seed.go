// Package seed fills a development database with users, screams and the
// comments and likes around them. Every write goes through the services so
// counters and notifications come out consistent.
package seed

import (
	"context"
	"fmt"
	"strings"

	"screams/internal/consistency"
	"screams/internal/events"
	"screams/internal/models"
	"screams/internal/observability"
	"screams/internal/repository"
	"screams/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

const maxHandleAttempts = 20

// Options configures a seeding run.
type Options struct {
	Users       int
	Screams     int
	MaxLikes    int
	MaxComments int
	// RandSeed makes a run reproducible. Zero picks a random seed.
	RandSeed int64
}

// DefaultOptions returns a small but lively data set.
func DefaultOptions() Options {
	return Options{Users: 10, Screams: 30, MaxLikes: 6, MaxComments: 4}
}

// Result counts what a run created.
type Result struct {
	Users    int
	Screams  int
	Likes    int
	Comments int
}

func (r Result) String() string {
	return fmt.Sprintf("%d users, %d screams, %d likes, %d comments", r.Users, r.Screams, r.Likes, r.Comments)
}

// Seeder writes generated content through the application services.
type Seeder struct {
	db       *gorm.DB
	users    *service.UserService
	screams  *service.ScreamService
	comments *service.CommentService
	likes    *service.LikeService
}

// NewSeeder wires services over db with change reactions running inline.
func NewSeeder(db *gorm.DB, defaultImage string) *Seeder {
	store := consistency.Store{
		Screams:       repository.NewScreamRepository(db),
		Comments:      repository.NewCommentRepository(db),
		Likes:         repository.NewLikeRepository(db),
		Notifications: repository.NewNotificationRepository(db),
		Batcher:       repository.NewBatcher(db, repository.DefaultBatchMaxWrites),
		Tx:            repository.NewTransactor(db),
	}
	userRepo := repository.NewUserRepository(db)
	engine := consistency.NewEngine(store)
	bus := events.NewSyncBus(consistency.NewReactor(engine), events.DefaultRetryPolicy())

	return &Seeder{
		db:       db,
		users:    service.NewUserService(userRepo, store.Screams, store.Likes, store.Notifications, bus, defaultImage),
		screams:  service.NewScreamService(store.Screams, store.Comments, userRepo, bus),
		comments: service.NewCommentService(store.Screams, store.Comments, userRepo, engine, bus),
		likes:    service.NewLikeService(store.Screams, store.Likes, userRepo, engine, bus),
	}
}

// ClearAll removes every row from the tables the service owns, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	tables := []interface{}{
		&models.Notification{},
		&models.Like{},
		&models.Comment{},
		&models.Scream{},
		&models.User{},
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range tables {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return fmt.Errorf("clear %T: %w", m, err)
			}
		}
		return nil
	})
}

// Run creates opts.Users users, then opts.Screams screams spread across them,
// each liked and commented on by a random set of other users.
func (s *Seeder) Run(ctx context.Context, opts Options) (Result, error) {
	var res Result
	if opts.Users <= 0 {
		return res, models.NewValidationError("at least one user is required")
	}

	faker := gofakeit.New(opts.RandSeed)

	handles := make([]string, 0, opts.Users)
	seen := make(map[string]struct{}, opts.Users)
	for attempts := 0; len(handles) < opts.Users; attempts++ {
		if attempts >= opts.Users*maxHandleAttempts {
			return res, fmt.Errorf("could not generate %d unique handles", opts.Users)
		}
		handle := strings.ToLower(faker.Username())
		if _, dup := seen[handle]; dup {
			continue
		}
		seen[handle] = struct{}{}

		user, err := s.users.Register(ctx, service.RegisterInput{Handle: handle, Email: handle + "@" + faker.DomainName()})
		switch models.CodeOf(err) {
		case models.CodeConflict, models.CodeValidation:
			continue
		}
		if err != nil {
			return res, fmt.Errorf("register %s: %w", handle, err)
		}
		if err := s.users.UpdateDetails(ctx, user.Handle, service.UpdateDetailsInput{
			Bio:      faker.Sentence(8),
			Website:  faker.DomainName(),
			Location: faker.City(),
		}); err != nil {
			return res, fmt.Errorf("details for %s: %w", handle, err)
		}
		handles = append(handles, user.Handle)
		res.Users++
	}

	for i := 0; i < opts.Screams; i++ {
		author := handles[faker.Number(0, len(handles)-1)]
		scream, err := s.screams.CreateScream(ctx, service.CreateScreamInput{Handle: author, Body: faker.HackerPhrase()})
		if err != nil {
			return res, fmt.Errorf("scream by %s: %w", author, err)
		}
		res.Screams++

		for _, fan := range pick(faker, handles, opts.MaxLikes) {
			if _, err := s.likes.LikeScream(ctx, fan, scream.ID); err != nil {
				return res, fmt.Errorf("like by %s: %w", fan, err)
			}
			res.Likes++
		}
		for _, critic := range pick(faker, handles, opts.MaxComments) {
			if _, err := s.comments.CreateComment(ctx, service.CreateCommentInput{
				Handle:   critic,
				ScreamID: scream.ID,
				Body:     faker.Sentence(6),
			}); err != nil {
				return res, fmt.Errorf("comment by %s: %w", critic, err)
			}
			res.Comments++
		}
	}

	observability.Logger.InfoContext(ctx, "seed complete", "users", res.Users, "screams", res.Screams, "likes", res.Likes, "comments", res.Comments)
	return res, nil
}

// pick returns up to max distinct handles in random order.
func pick(faker *gofakeit.Faker, handles []string, max int) []string {
	if max <= 0 {
		return nil
	}
	if max > len(handles) {
		max = len(handles)
	}
	shuffled := append([]string(nil), handles...)
	faker.ShuffleStrings(shuffled)
	return shuffled[:faker.Number(0, max)]
}
