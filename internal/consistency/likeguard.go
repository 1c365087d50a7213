package consistency

import (
	"context"

	"screams/internal/models"
	"screams/internal/repository"
)

// LikeGuard enforces at most one like per (handle, scream). The lookup and
// the later insert are not atomic; the unique index on likes rejects the
// loser of a concurrent race with the same DUPLICATE_LIKE code.
type LikeGuard struct {
	likes repository.LikeRepository
}

func NewLikeGuard(likes repository.LikeRepository) *LikeGuard {
	return &LikeGuard{likes: likes}
}

func (g *LikeGuard) EnsureNotLiked(ctx context.Context, handle, screamID string) error {
	_, err := g.likes.FindByHandleAndScream(ctx, handle, screamID)
	switch {
	case err == nil:
		return models.NewDuplicateLikeError(screamID)
	case models.IsNotFound(err):
		return nil
	default:
		return err
	}
}

// RequireLike returns the caller's like on the scream or LIKE_NOT_FOUND.
func (g *LikeGuard) RequireLike(ctx context.Context, handle, screamID string) (*models.Like, error) {
	like, err := g.likes.FindByHandleAndScream(ctx, handle, screamID)
	if models.IsNotFound(err) {
		return nil, models.NewLikeNotFoundError(screamID)
	}
	return like, err
}
