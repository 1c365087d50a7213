package consistency

import (
	"context"

	"screams/internal/repository"

	"golang.org/x/sync/errgroup"
)

// ProfilePropagator copies a user's new image onto every scream, comment and
// like they authored.
type ProfilePropagator struct {
	screams  repository.ScreamRepository
	comments repository.CommentRepository
	likes    repository.LikeRepository
	batcher  repository.Batcher
}

func NewProfilePropagator(
	screams repository.ScreamRepository,
	comments repository.CommentRepository,
	likes repository.LikeRepository,
	batcher repository.Batcher,
) *ProfilePropagator {
	return &ProfilePropagator{screams: screams, comments: comments, likes: likes, batcher: batcher}
}

// OnUserImageChanged returns the number of records rewritten. An unchanged
// image writes nothing.
func (p *ProfilePropagator) OnUserImageChanged(ctx context.Context, handle, oldImage, newImage string) (int, error) {
	if oldImage == newImage {
		return 0, nil
	}

	var screamIDs, commentIDs, likeIDs []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		screamIDs, err = p.screams.ListIDsByHandle(gctx, handle)
		return err
	})
	g.Go(func() (err error) {
		commentIDs, err = p.comments.ListIDsByHandle(gctx, handle)
		return err
	})
	g.Go(func() (err error) {
		likeIDs, err = p.likes.ListIDsByHandle(gctx, handle)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	batch := p.batcher.NewBatch()
	stage := func(collection string, ids []string) {
		for _, id := range ids {
			batch.StageUpdate(collection, id, map[string]interface{}{"user_image": newImage})
		}
	}
	stage(repository.CollectionScreams, screamIDs)
	stage(repository.CollectionComments, commentIDs)
	stage(repository.CollectionLikes, likeIDs)

	writes := batch.Len()
	if _, err := batch.Commit(ctx); err != nil {
		return 0, err
	}
	return writes, nil
}
