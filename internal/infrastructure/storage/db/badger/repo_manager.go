package dbbadger

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/tdex-network/nft-marketplace/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const (
	maxConflictRetries = 5
	conflictBackoff    = 10 * time.Millisecond
)

type txKey struct{}

type repoManager struct {
	store *badgerhold.Store

	listingRepository    domain.ListingRepository
	proceedsRepository   domain.ProceedsRepository
	activityRepository   domain.ActivityRepository
	collectionRepository domain.CollectionRepository
	tokenRepository      domain.TokenRepository
	accountRepository    domain.AccountRepository
}

// NewRepoManager opens (or creates if not exists) the badger store in the
// given datadir. An empty datadir makes the store live in memory only.
// All repositories share the same store so that a single transaction can span
// over all of them.
func NewRepoManager(
	baseDbDir string, logger badger.Logger,
) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "market")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening market db: %w", err)
	}

	return &repoManager{
		store:                store,
		listingRepository:    NewListingRepositoryImpl(store),
		proceedsRepository:   NewProceedsRepositoryImpl(store),
		activityRepository:   NewActivityRepositoryImpl(store),
		collectionRepository: NewCollectionRepositoryImpl(store),
		tokenRepository:      NewTokenRepositoryImpl(store),
		accountRepository:    NewAccountRepositoryImpl(store),
	}, nil
}

func (r *repoManager) ListingRepository() domain.ListingRepository {
	return r.listingRepository
}

func (r *repoManager) ProceedsRepository() domain.ProceedsRepository {
	return r.proceedsRepository
}

func (r *repoManager) ActivityRepository() domain.ActivityRepository {
	return r.activityRepository
}

func (r *repoManager) CollectionRepository() domain.CollectionRepository {
	return r.collectionRepository
}

func (r *repoManager) TokenRepository() domain.TokenRepository {
	return r.tokenRepository
}

func (r *repoManager) AccountRepository() domain.AccountRepository {
	return r.accountRepository
}

func (r *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if _, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return handler(ctx)
	}

	for i := 0; ; i++ {
		res, err := r.runTransaction(ctx, readOnly, handler)
		if err != badger.ErrConflict || i >= maxConflictRetries {
			return res, err
		}
		log.Debugf("db: transaction conflict, retrying (%d)", i+1)
		time.Sleep(conflictBackoff)
	}
}

func (r *repoManager) Close() {
	r.store.Close()
}

func (r *repoManager) runTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	tx := r.store.Badger().NewTransaction(!readOnly)
	defer tx.Discard()

	res, err := handler(context.WithValue(ctx, txKey{}, tx))
	if err != nil {
		return nil, err
	}
	if readOnly {
		return res, nil
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	if !isInMemory {
		ticker := time.NewTicker(30 * time.Minute)

		go func() {
			for {
				<-ticker.C
				if err := db.Badger().RunValueLogGC(0.5); err != nil &&
					err != badger.ErrNoRewrite {
					log.Error(err)
				}
			}
		}()
	}

	return db, nil
}
