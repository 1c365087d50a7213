package repository

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

type txState struct {
	tx          *gorm.DB
	afterCommit []func()
}

// Transactor runs a unit of work in one database transaction. Repository
// calls made with the context handed to fn join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a Transactor over db.
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

// WithinTx commits when fn returns nil and rolls back otherwise. A nested
// call joins the outer transaction.
func (t *gormTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return fn(ctx)
	}

	state := &txState{}
	var fnErr error
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state.tx = tx
		fnErr = fn(context.WithValue(ctx, txKey{}, state))
		return fnErr
	})
	if err != nil {
		if fnErr == nil {
			// fn succeeded, the commit did not.
			return translateList(err)
		}
		return err
	}

	for _, hook := range state.afterCommit {
		hook()
	}
	return nil
}

// conn returns the transaction carried by ctx, or db when there is none.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if state, ok := ctx.Value(txKey{}).(*txState); ok {
		return state.tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// afterCommit defers fn until the surrounding transaction commits. Outside a
// transaction fn runs immediately. Rolled back work never runs its hooks.
func afterCommit(ctx context.Context, fn func()) {
	if state, ok := ctx.Value(txKey{}).(*txState); ok {
		state.afterCommit = append(state.afterCommit, fn)
		return
	}
	fn()
}
