package dbbadger

import (
	"context"

	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type proceedsRepositoryImpl struct {
	txStore
}

// NewProceedsRepositoryImpl returns a badger implementation of the
// domain.ProceedsRepository.
func NewProceedsRepositoryImpl(store *badgerhold.Store) domain.ProceedsRepository {
	return proceedsRepositoryImpl{txStore{store}}
}

func (r proceedsRepositoryImpl) GetProceeds(
	ctx context.Context, owner domain.Address,
) (uint64, error) {
	proceeds, err := r.getProceeds(ctx, owner)
	if err != nil {
		return 0, err
	}
	return proceeds.Amount, nil
}

func (r proceedsRepositoryImpl) CreditProceeds(
	ctx context.Context, owner domain.Address, amount uint64,
) error {
	proceeds, err := r.getProceeds(ctx, owner)
	if err != nil {
		return err
	}
	proceeds.Credit(amount)
	return r.upsert(ctx, owner.String(), &Proceeds{
		Owner:  owner.String(),
		Amount: proceeds.Amount,
	})
}

func (r proceedsRepositoryImpl) TakeAllProceeds(
	ctx context.Context, owner domain.Address,
) (uint64, error) {
	proceeds, err := r.getProceeds(ctx, owner)
	if err != nil {
		return 0, err
	}
	amount, err := proceeds.TakeAll()
	if err != nil {
		return 0, err
	}
	if err := r.delete(ctx, owner.String(), Proceeds{}); err != nil {
		return 0, err
	}
	return amount, nil
}

func (r proceedsRepositoryImpl) getProceeds(
	ctx context.Context, owner domain.Address,
) (*domain.Proceeds, error) {
	var proceeds Proceeds
	if err := r.get(ctx, owner.String(), &proceeds); err != nil {
		if err == badgerhold.ErrNotFound {
			return &domain.Proceeds{Owner: owner}, nil
		}
		return nil, err
	}
	return &domain.Proceeds{Owner: owner, Amount: proceeds.Amount}, nil
}
