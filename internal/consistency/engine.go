package consistency

import (
	"screams/internal/repository"
)

// Store groups the repositories the engine reads and writes.
type Store struct {
	Screams       repository.ScreamRepository
	Comments      repository.CommentRepository
	Likes         repository.LikeRepository
	Notifications repository.NotificationRepository
	Batcher       repository.Batcher
	Tx            repository.Transactor
}

// Engine bundles the maintainers that keep derived state consistent.
type Engine struct {
	Counters      *CounterMaintainer
	Guard         *LikeGuard
	Cascade       *CascadeDeleter
	Notifications *NotificationGenerator
	Profiles      *ProfilePropagator
	Tx            repository.Transactor
}

func NewEngine(s Store) *Engine {
	return &Engine{
		Counters:      NewCounterMaintainer(s.Screams),
		Guard:         NewLikeGuard(s.Likes),
		Cascade:       NewCascadeDeleter(s.Comments, s.Likes, s.Notifications, s.Batcher),
		Notifications: NewNotificationGenerator(s.Screams, s.Notifications),
		Profiles:      NewProfilePropagator(s.Screams, s.Comments, s.Likes, s.Batcher),
		Tx:            s.Tx,
	}
}
