package consistency

import (
	"context"

	"screams/internal/models"
	"screams/internal/repository"
)

// fakeScreams satisfies repository.ScreamRepository; embed it and override
// the methods a test needs.
type fakeScreams struct{}

var _ repository.ScreamRepository = fakeScreams{}

func (fakeScreams) Create(context.Context, *models.Scream) error { return nil }
func (fakeScreams) GetByID(context.Context, string) (*models.Scream, error) {
	return nil, models.NewNotFoundError("scream", "")
}
func (fakeScreams) List(context.Context, int) ([]*models.Scream, error)            { return nil, nil }
func (fakeScreams) ListByHandle(context.Context, string) ([]*models.Scream, error) { return nil, nil }
func (fakeScreams) ListIDsByHandle(context.Context, string) ([]string, error)      { return nil, nil }
func (fakeScreams) Delete(context.Context, string) error                           { return nil }
func (fakeScreams) AdjustLikeCount(context.Context, string, int) error             { return nil }
func (fakeScreams) AdjustCommentCount(context.Context, string, int) error          { return nil }
