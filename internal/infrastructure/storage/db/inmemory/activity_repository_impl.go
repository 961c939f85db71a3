package inmemory

import (
	"context"
	"sync"

	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/tdex-network/nft-marketplace/internal/storageutil/uow"
)

type activityInmemoryStore struct {
	activities []domain.Activity
	ids        map[string]struct{}
	locker     *sync.RWMutex
}

func newActivityInmemoryStore() *activityInmemoryStore {
	return &activityInmemoryStore{
		activities: make([]domain.Activity, 0),
		ids:        map[string]struct{}{},
		locker:     &sync.RWMutex{},
	}
}

// Activities are append only, rolling back means truncating.
func (s *activityInmemoryStore) Begin() (uow.Tx, error) {
	s.locker.RLock()
	count := len(s.activities)
	s.locker.RUnlock()

	return snapshotTx{func() {
		s.locker.Lock()
		for _, a := range s.activities[count:] {
			delete(s.ids, a.ID)
		}
		s.activities = s.activities[:count]
		s.locker.Unlock()
	}}, nil
}

type activityRepositoryImpl struct {
	store *activityInmemoryStore
}

// NewActivityRepositoryImpl returns a new inmemory ActivityRepository
// implementation.
func NewActivityRepositoryImpl(
	store *activityInmemoryStore,
) domain.ActivityRepository {
	return &activityRepositoryImpl{store}
}

func (r *activityRepositoryImpl) AddActivities(
	_ context.Context, activities ...domain.Activity,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	for _, a := range activities {
		if _, ok := r.store.ids[a.ID]; ok {
			continue
		}
		r.store.ids[a.ID] = struct{}{}
		r.store.activities = append(r.store.activities, a)
	}
	return nil
}

func (r *activityRepositoryImpl) GetActivities(
	_ context.Context, page *domain.Page,
) ([]domain.Activity, error) {
	return r.findActivities(func(domain.Activity) bool { return true }, page), nil
}

func (r *activityRepositoryImpl) GetActivitiesForAsset(
	_ context.Context, key domain.AssetKey, page *domain.Page,
) ([]domain.Activity, error) {
	return r.findActivities(func(a domain.Activity) bool {
		return a.Key == key
	}, page), nil
}

func (r *activityRepositoryImpl) GetActivitiesForAccount(
	_ context.Context, account domain.Address, page *domain.Page,
) ([]domain.Activity, error) {
	return r.findActivities(func(a domain.Activity) bool {
		return a.Seller == account || a.Buyer == account
	}, page), nil
}

func (r *activityRepositoryImpl) findActivities(
	filter func(domain.Activity) bool, page *domain.Page,
) []domain.Activity {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	activities := make([]domain.Activity, 0)
	for _, a := range r.store.activities {
		if filter(a) {
			activities = append(activities, a)
		}
	}

	if page != nil {
		start, end := pageBounds(len(activities), page)
		activities = activities[start:end]
	}
	return activities
}
