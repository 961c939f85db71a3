package uow

import (
	"context"
	"fmt"
)

// Transactional begins a transaction
type Transactional interface {
	Begin() (Tx, error)
}

// Tx represents an all-or-nothing transaction, by committing or rolling back
// a set of read/write operations
type Tx interface {
	Commit() error
	Rollback() error
}

type unitKey struct{}

// UnitOfWork allows to run multiple transactions as one
type UnitOfWork struct {
	repositories []Transactional
}

// NewUnitOfWork returns a new UnitOfWork with the given Transaction interfaces
func NewUnitOfWork(repositories ...Transactional) *UnitOfWork {
	return &UnitOfWork{repositories}
}

// InProgress returns whether the given context belongs to a running unit of
// work.
func (u *UnitOfWork) InProgress(ctx context.Context) bool {
	unit, ok := ctx.Value(unitKey{}).(*UnitOfWork)
	return ok && unit == u
}

// Run executes the given function over the current UnitOfWork. The given
// function is likely making read/write operations to different repositories in
// a transactional way. Run makes sure that all the transactions within the
// given function are either all committed to the relative storage or rolled
// back if any error occur.
// If the context already belongs to a running unit of work, fn simply joins
// it and only the outermost Run commits or rolls back.
func (u *UnitOfWork) Run(
	ctx context.Context, fn func(ctx context.Context) error,
) (err error) {
	if u.InProgress(ctx) {
		return fn(ctx)
	}

	txs := make([]Tx, 0, len(u.repositories))

	defer func() {
		if err == nil {
			return
		}
		for _, tx := range txs {
			if _err := tx.Rollback(); _err != nil {
				err = _err
				return
			}
		}
	}()

	defer func() {
		if err != nil {
			return
		}
		for _, tx := range txs {
			if _err := tx.Commit(); _err != nil {
				err = _err
				return
			}
		}
	}()

	defer func() {
		// panicking returns an error that causes txs rollback
		if rec := recover(); rec != nil {
			err = fmt.Errorf("recovered: %v", rec)
		}
	}()

	for _, r := range u.repositories {
		tx, err := r.Begin()
		if err != nil {
			return err
		}
		txs = append(txs, tx)
	}

	return fn(context.WithValue(ctx, unitKey{}, u))
}
