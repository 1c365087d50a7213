package service

import (
	"context"
	"time"

	"screams/internal/consistency"
	"screams/internal/events"
	"screams/internal/models"
	"screams/internal/repository"
)

type LikeService struct {
	screamRepo repository.ScreamRepository
	likeRepo   repository.LikeRepository
	userRepo   repository.UserRepository
	guard      *consistency.LikeGuard
	counters   *consistency.CounterMaintainer
	tx         repository.Transactor
	bus        events.Bus
}

// LikeResult is the created like and the scream with its updated counter.
type LikeResult struct {
	LikeID string         `json:"like_id"`
	Scream *models.Scream `json:"scream"`
}

func NewLikeService(
	screamRepo repository.ScreamRepository,
	likeRepo repository.LikeRepository,
	userRepo repository.UserRepository,
	engine *consistency.Engine,
	bus events.Bus,
) *LikeService {
	return &LikeService{
		screamRepo: screamRepo,
		likeRepo:   likeRepo,
		userRepo:   userRepo,
		guard:      engine.Guard,
		counters:   engine.Counters,
		tx:         engine.Tx,
		bus:        bus,
	}
}

func (s *LikeService) LikeScream(ctx context.Context, handle, screamID string) (*LikeResult, error) {
	var user *models.User
	var scream *models.Scream
	like := &models.Like{ScreamID: screamID, UserHandle: handle}

	err := consistency.NewPipeline("like_scream").
		Then("load_scream", func(ctx context.Context) (err error) {
			_, err = s.screamRepo.GetByID(ctx, screamID)
			return err
		}).
		Then("guard", func(ctx context.Context) error {
			return s.guard.EnsureNotLiked(ctx, handle, screamID)
		}).
		Then("load_user", func(ctx context.Context) (err error) {
			user, err = s.userRepo.GetByHandle(ctx, handle)
			return err
		}).
		Atomic("record_like", s.tx,
			consistency.Step{Name: "create_like", Run: func(ctx context.Context) error {
				like.UserImage = user.ImageURL
				like.CreatedAt = time.Now().UTC()
				return s.likeRepo.Create(ctx, like)
			}},
			consistency.Step{Name: "increment_like_count", Run: func(ctx context.Context) error {
				return s.counters.OnLikeCreated(ctx, screamID)
			}},
		).
		Then("reload_scream", func(ctx context.Context) (err error) {
			scream, err = s.screamRepo.GetByID(ctx, screamID)
			return err
		}).
		Run(ctx)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, events.LikeCreated(like.ID, screamID, handle))
	return &LikeResult{LikeID: like.ID, Scream: scream}, nil
}

// UnlikeScream removes the caller's like. Of two racing unlikes only the one
// whose delete removes the row decrements likeCount.
func (s *LikeService) UnlikeScream(ctx context.Context, handle, screamID string) (*models.Scream, error) {
	var like *models.Like
	var scream *models.Scream

	err := consistency.NewPipeline("unlike_scream").
		Then("load_scream", func(ctx context.Context) (err error) {
			_, err = s.screamRepo.GetByID(ctx, screamID)
			return err
		}).
		Then("guard", func(ctx context.Context) (err error) {
			like, err = s.guard.RequireLike(ctx, handle, screamID)
			return err
		}).
		Atomic("remove_like", s.tx,
			consistency.Step{Name: "delete_like", Run: func(ctx context.Context) error {
				err := s.likeRepo.Delete(ctx, like.ID)
				if models.IsNotFound(err) {
					// A concurrent unlike got there first.
					return models.NewLikeNotFoundError(screamID)
				}
				return err
			}},
			consistency.Step{Name: "decrement_like_count", Run: func(ctx context.Context) error {
				return s.counters.OnLikeRemoved(ctx, screamID)
			}},
		).
		Then("reload_scream", func(ctx context.Context) (err error) {
			scream, err = s.screamRepo.GetByID(ctx, screamID)
			return err
		}).
		Run(ctx)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, events.LikeRemoved(like.ID, screamID, handle))
	return scream, nil
}
