package inmemory

import (
	"context"
	"sync"

	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/tdex-network/nft-marketplace/internal/storageutil/uow"
)

type proceedsInmemoryStore struct {
	proceeds map[domain.Address]uint64
	locker   *sync.RWMutex
}

func newProceedsInmemoryStore() *proceedsInmemoryStore {
	return &proceedsInmemoryStore{
		proceeds: map[domain.Address]uint64{},
		locker:   &sync.RWMutex{},
	}
}

func (s *proceedsInmemoryStore) Begin() (uow.Tx, error) {
	s.locker.RLock()
	snapshot := make(map[domain.Address]uint64, len(s.proceeds))
	for k, v := range s.proceeds {
		snapshot[k] = v
	}
	s.locker.RUnlock()

	return snapshotTx{func() {
		s.locker.Lock()
		s.proceeds = snapshot
		s.locker.Unlock()
	}}, nil
}

type proceedsRepositoryImpl struct {
	store *proceedsInmemoryStore
}

// NewProceedsRepositoryImpl returns a new inmemory ProceedsRepository
// implementation.
func NewProceedsRepositoryImpl(
	store *proceedsInmemoryStore,
) domain.ProceedsRepository {
	return &proceedsRepositoryImpl{store}
}

func (r *proceedsRepositoryImpl) GetProceeds(
	_ context.Context, owner domain.Address,
) (uint64, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	return r.store.proceeds[owner], nil
}

func (r *proceedsRepositoryImpl) CreditProceeds(
	_ context.Context, owner domain.Address, amount uint64,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	proceeds := domain.Proceeds{Owner: owner, Amount: r.store.proceeds[owner]}
	proceeds.Credit(amount)
	r.store.proceeds[owner] = proceeds.Amount
	return nil
}

func (r *proceedsRepositoryImpl) TakeAllProceeds(
	_ context.Context, owner domain.Address,
) (uint64, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	proceeds := domain.Proceeds{Owner: owner, Amount: r.store.proceeds[owner]}
	amount, err := proceeds.TakeAll()
	if err != nil {
		return 0, err
	}
	delete(r.store.proceeds, owner)
	return amount, nil
}
