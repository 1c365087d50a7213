package service

import (
	"context"
	"strings"
	"time"

	"screams/internal/consistency"
	"screams/internal/events"
	"screams/internal/models"
	"screams/internal/repository"
)

type CommentService struct {
	screamRepo  repository.ScreamRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	counters    *consistency.CounterMaintainer
	tx          repository.Transactor
	bus         events.Bus
}

type CreateCommentInput struct {
	Handle   string
	ScreamID string
	Body     string
}

func NewCommentService(
	screamRepo repository.ScreamRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	engine *consistency.Engine,
	bus events.Bus,
) *CommentService {
	return &CommentService{
		screamRepo:  screamRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		counters:    engine.Counters,
		tx:          engine.Tx,
		bus:         bus,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, models.NewValidationError("Must not be empty")
	}

	var user *models.User
	comment := &models.Comment{ScreamID: in.ScreamID, UserHandle: in.Handle, Body: body}

	err := consistency.NewPipeline("create_comment").
		Then("load_scream", func(ctx context.Context) error {
			_, err := s.screamRepo.GetByID(ctx, in.ScreamID)
			return err
		}).
		Then("load_user", func(ctx context.Context) (err error) {
			user, err = s.userRepo.GetByHandle(ctx, in.Handle)
			return err
		}).
		Atomic("record_comment", s.tx,
			consistency.Step{Name: "create_comment", Run: func(ctx context.Context) error {
				comment.UserImage = user.ImageURL
				comment.CreatedAt = time.Now().UTC()
				return s.commentRepo.Create(ctx, comment)
			}},
			consistency.Step{Name: "increment_comment_count", Run: func(ctx context.Context) error {
				return s.counters.OnCommentCreated(ctx, in.ScreamID)
			}},
		).
		Run(ctx)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, events.CommentCreated(comment.ID, in.ScreamID, in.Handle))
	return comment, nil
}
