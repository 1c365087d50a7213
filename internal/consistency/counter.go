package consistency

import (
	"context"
	"errors"
	"fmt"

	"screams/internal/models"
	"screams/internal/repository"
)

// ErrParentGone reports that a counter could not be incremented because the
// scream was deleted in the meantime. It always wraps a NOT_FOUND AppError.
var ErrParentGone = errors.New("parent scream no longer exists")

// CounterMaintainer moves likeCount and commentCount in lockstep with the
// creation and removal of likes and comments. Every adjustment is a single
// store-side increment, never a read-modify-write.
type CounterMaintainer struct {
	screams repository.ScreamRepository
}

func NewCounterMaintainer(screams repository.ScreamRepository) *CounterMaintainer {
	return &CounterMaintainer{screams: screams}
}

func (m *CounterMaintainer) OnCommentCreated(ctx context.Context, screamID string) error {
	return parentGone(m.screams.AdjustCommentCount(ctx, screamID, 1))
}

func (m *CounterMaintainer) OnLikeCreated(ctx context.Context, screamID string) error {
	return parentGone(m.screams.AdjustLikeCount(ctx, screamID, 1))
}

// OnLikeRemoved decrements likeCount, floored at zero. A missing scream is
// not an error: its likes are being removed by the cascade anyway.
func (m *CounterMaintainer) OnLikeRemoved(ctx context.Context, screamID string) error {
	err := m.screams.AdjustLikeCount(ctx, screamID, -1)
	if models.IsNotFound(err) {
		return nil
	}
	return err
}

func parentGone(err error) error {
	if models.IsNotFound(err) {
		return fmt.Errorf("%w: %w", ErrParentGone, err)
	}
	return err
}
