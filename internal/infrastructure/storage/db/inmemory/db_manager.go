package inmemory

import (
	"context"
	"sync"

	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/tdex-network/nft-marketplace/internal/core/ports"
	"github.com/tdex-network/nft-marketplace/internal/storageutil/uow"
)

// RepoManager keeps all data in memory. Transactions are serialized and
// rolled back by restoring the snapshot of every store taken when they begin.
type RepoManager struct {
	listingRepository    domain.ListingRepository
	proceedsRepository   domain.ProceedsRepository
	activityRepository   domain.ActivityRepository
	collectionRepository domain.CollectionRepository
	tokenRepository      domain.TokenRepository
	accountRepository    domain.AccountRepository

	unit   *uow.UnitOfWork
	txLock *sync.Mutex
}

func NewRepoManager() ports.RepoManager {
	listingStore := newListingInmemoryStore()
	proceedsStore := newProceedsInmemoryStore()
	activityStore := newActivityInmemoryStore()
	collectionStore := newCollectionInmemoryStore()
	tokenStore := newTokenInmemoryStore()
	accountStore := newAccountInmemoryStore()

	return &RepoManager{
		listingRepository:    NewListingRepositoryImpl(listingStore),
		proceedsRepository:   NewProceedsRepositoryImpl(proceedsStore),
		activityRepository:   NewActivityRepositoryImpl(activityStore),
		collectionRepository: NewCollectionRepositoryImpl(collectionStore),
		tokenRepository:      NewTokenRepositoryImpl(tokenStore),
		accountRepository:    NewAccountRepositoryImpl(accountStore),
		unit: uow.NewUnitOfWork(
			listingStore, proceedsStore, activityStore,
			collectionStore, tokenStore, accountStore,
		),
		txLock: &sync.Mutex{},
	}
}

func (d *RepoManager) ListingRepository() domain.ListingRepository {
	return d.listingRepository
}

func (d *RepoManager) ProceedsRepository() domain.ProceedsRepository {
	return d.proceedsRepository
}

func (d *RepoManager) ActivityRepository() domain.ActivityRepository {
	return d.activityRepository
}

func (d *RepoManager) CollectionRepository() domain.CollectionRepository {
	return d.collectionRepository
}

func (d *RepoManager) TokenRepository() domain.TokenRepository {
	return d.tokenRepository
}

func (d *RepoManager) AccountRepository() domain.AccountRepository {
	return d.accountRepository
}

func (d *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if d.unit.InProgress(ctx) {
		return handler(ctx)
	}

	d.txLock.Lock()
	defer d.txLock.Unlock()

	var res interface{}
	err := d.unit.Run(ctx, func(ctx context.Context) error {
		var err error
		res, err = handler(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (d *RepoManager) Close() {}

// snapshotTx restores the state of a store on rollback.
type snapshotTx struct {
	restore func()
}

func (t snapshotTx) Commit() error {
	return nil
}

func (t snapshotTx) Rollback() error {
	t.restore()
	return nil
}
