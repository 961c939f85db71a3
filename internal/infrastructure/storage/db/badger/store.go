package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

// txStore runs every operation within the transaction carried by the
// context, if any.
type txStore struct {
	store *badgerhold.Store
}

func (s txStore) get(ctx context.Context, key, result interface{}) error {
	if tx, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return s.store.TxGet(tx, key, result)
	}
	return s.store.Get(key, result)
}

func (s txStore) insert(ctx context.Context, key, data interface{}) error {
	if tx, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return s.store.TxInsert(tx, key, data)
	}
	return s.store.Insert(key, data)
}

func (s txStore) upsert(ctx context.Context, key, data interface{}) error {
	if tx, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return s.store.TxUpsert(tx, key, data)
	}
	return s.store.Upsert(key, data)
}

func (s txStore) update(ctx context.Context, key, data interface{}) error {
	if tx, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return s.store.TxUpdate(tx, key, data)
	}
	return s.store.Update(key, data)
}

func (s txStore) delete(ctx context.Context, key, dataType interface{}) error {
	var err error
	if tx, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		err = s.store.TxDelete(tx, key, dataType)
	} else {
		err = s.store.Delete(key, dataType)
	}
	if err == badgerhold.ErrNotFound {
		return nil
	}
	return err
}

func (s txStore) find(
	ctx context.Context, result interface{}, query *badgerhold.Query,
) error {
	if tx, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return s.store.TxFind(tx, result, query)
	}
	return s.store.Find(result, query)
}

// paginate returns the given page of the sorted query results. badgerhold
// ignores Skip and Limit when a query runs over an index, so pages are cut
// here for every query.
func paginate[T any](items []T, page *domain.Page) []T {
	if page == nil {
		return items
	}
	start := page.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
