package pubsub

import (
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/timshannon/badgerhold/v4"
)

type store struct {
	db *badgerhold.Store
}

// newStore opens (or creates if not exists) the subscriptions store in the
// given datadir. An empty datadir makes the store live in memory only.
func newStore(baseDbDir string, logger badger.Logger) (*store, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "webhooks")
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	if len(dbDir) <= 0 {
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
	return &store{db}, nil
}

func (s *store) add(sub *Subscription) error {
	if err := s.db.Insert(sub.ID, sub); err != nil {
		if err == badgerhold.ErrKeyExists {
			return nil
		}
		return err
	}
	return nil
}

func (s *store) remove(id string) error {
	if err := s.db.Delete(id, Subscription{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return ErrSubscriptionNotFound
		}
		return err
	}
	return nil
}

// list returns the subscriptions for the given topic, or all of them if the
// topic is unspecified.
func (s *store) list(topic string) (subscriptions, error) {
	var query *badgerhold.Query
	if len(topic) > 0 {
		query = badgerhold.Where("Event").Eq(topic).Index("Event")
	} else {
		query = &badgerhold.Query{}
	}
	query.SortBy("ID")

	var subs []Subscription
	if err := s.db.Find(&subs, query); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *store) close() error {
	return s.db.Close()
}
