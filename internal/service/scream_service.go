package service

import (
	"context"
	"strings"
	"time"

	"screams/internal/events"
	"screams/internal/models"
	"screams/internal/repository"
)

type ScreamService struct {
	screamRepo  repository.ScreamRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	bus         events.Bus
}

type CreateScreamInput struct {
	Handle string
	Body   string
}

type DeleteScreamInput struct {
	Handle   string
	ScreamID string
}

func NewScreamService(
	screamRepo repository.ScreamRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	bus events.Bus,
) *ScreamService {
	return &ScreamService{
		screamRepo:  screamRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		bus:         bus,
	}
}

func (s *ScreamService) ListScreams(ctx context.Context) ([]*models.Scream, error) {
	return s.screamRepo.List(ctx, 0)
}

// GetScream returns the scream with its comments, newest first.
func (s *ScreamService) GetScream(ctx context.Context, id string) (*models.Scream, error) {
	scream, err := s.screamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByScream(ctx, id)
	if err != nil {
		return nil, err
	}
	scream.Comments = comments
	return scream, nil
}

func (s *ScreamService) CreateScream(ctx context.Context, in CreateScreamInput) (*models.Scream, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, models.NewValidationError("Body must not be empty")
	}

	user, err := s.userRepo.GetByHandle(ctx, in.Handle)
	if err != nil {
		return nil, err
	}

	scream := &models.Scream{
		UserHandle: in.Handle,
		Body:       body,
		UserImage:  user.ImageURL,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.screamRepo.Create(ctx, scream); err != nil {
		return nil, err
	}
	return scream, nil
}

// DeleteScream removes a scream owned by the caller. Its comments, likes and
// notifications are removed by the reaction to the published event.
func (s *ScreamService) DeleteScream(ctx context.Context, in DeleteScreamInput) error {
	scream, err := s.screamRepo.GetByID(ctx, in.ScreamID)
	if err != nil {
		return err
	}
	if scream.UserHandle != in.Handle {
		return models.NewForbiddenError("Unauthorized")
	}
	if err := s.screamRepo.Delete(ctx, in.ScreamID); err != nil {
		return err
	}

	publish(ctx, s.bus, events.ScreamDeleted(in.ScreamID, in.Handle))
	return nil
}
