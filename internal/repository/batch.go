package repository

import (
	"context"
	"fmt"

	"screams/internal/cache"
	"screams/internal/models"
	"screams/internal/observability"

	"gorm.io/gorm"
)

// Collections addressable through a Batch.
const (
	CollectionScreams       = "screams"
	CollectionComments      = "comments"
	CollectionLikes         = "likes"
	CollectionNotifications = "notifications"
)

// DefaultBatchMaxWrites mirrors the document store limit on writes per
// atomic commit.
const DefaultBatchMaxWrites = 500

type batchOp struct {
	collection string
	id         string
	fields     map[string]interface{}
}

func (op batchOp) isDelete() bool {
	return op.fields == nil
}

// Batch stages deletes and partial updates and commits them in chunks of at
// most maxWrites. Each chunk is applied in one transaction; chunks are
// committed in staging order, so a failure leaves earlier chunks applied.
type Batch struct {
	db        *gorm.DB
	maxWrites int
	ops       []batchOp
	log       *observability.RepoLogger
}

// Batcher hands out empty batches bound to one database.
type Batcher interface {
	NewBatch() *Batch
}

type batcher struct {
	db        *gorm.DB
	maxWrites int
}

func NewBatcher(db *gorm.DB, maxWrites int) Batcher {
	if maxWrites <= 0 {
		maxWrites = DefaultBatchMaxWrites
	}
	return &batcher{db: db, maxWrites: maxWrites}
}

func (b *batcher) NewBatch() *Batch {
	return &Batch{db: b.db, maxWrites: b.maxWrites, log: observability.NewRepoLogger("batch")}
}

func (b *Batch) StageDelete(collection, id string) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id})
}

func (b *Batch) StageUpdate(collection, id string, fields map[string]interface{}) {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	b.ops = append(b.ops, batchOp{collection: collection, id: id, fields: fields})
}

// Len reports the number of staged writes.
func (b *Batch) Len() int {
	return len(b.ops)
}

// Commit applies every staged write and returns the number of chunks that
// were committed. An empty batch commits nothing.
func (b *Batch) Commit(ctx context.Context) (int, error) {
	if len(b.ops) == 0 {
		return 0, nil
	}

	ctx, span := observability.TraceRepositoryMethod(ctx, "Commit", "batch")
	defer span.End()

	chunks := 0
	for start := 0; start < len(b.ops); start += b.maxWrites {
		end := start + b.maxWrites
		if end > len(b.ops) {
			end = len(b.ops)
		}
		chunk := b.ops[start:end]

		done := observability.TrackQuery("batch_commit", "batch")
		err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, op := range chunk {
				if err := apply(tx, op); err != nil {
					return err
				}
			}
			return nil
		})
		done()
		if err != nil {
			b.log.LogError(ctx, err, "commit")
			return chunks, translateList(err)
		}

		chunks++
		observability.BatchChunks.Inc()
		for _, op := range chunk {
			label := "update"
			if op.isDelete() {
				label = "delete"
			}
			observability.BatchWrites.WithLabelValues(label).Inc()
		}
		invalidate(ctx, chunk)
	}

	b.log.LogBatch(ctx, len(b.ops), chunks)
	b.ops = nil
	return chunks, nil
}

func apply(tx *gorm.DB, op batchOp) error {
	model, err := modelFor(op.collection)
	if err != nil {
		return err
	}
	q := tx.Model(model).Where("id = ?", op.id)
	if op.isDelete() {
		return q.Delete(model).Error
	}
	if len(op.fields) == 0 {
		return nil
	}
	return q.UpdateColumns(op.fields).Error
}

func modelFor(collection string) (interface{}, error) {
	switch collection {
	case CollectionScreams:
		return &models.Scream{}, nil
	case CollectionComments:
		return &models.Comment{}, nil
	case CollectionLikes:
		return &models.Like{}, nil
	case CollectionNotifications:
		return &models.Notification{}, nil
	default:
		return nil, models.NewValidationError(fmt.Sprintf("unknown collection %q", collection))
	}
}

func invalidate(ctx context.Context, chunk []batchOp) {
	var ids []string
	for _, op := range chunk {
		if op.collection == CollectionScreams {
			ids = append(ids, op.id)
		}
	}
	if len(ids) > 0 {
		cache.InvalidateScreams(ctx, ids...)
	}
}
