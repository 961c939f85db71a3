package dbbadger

import (
	"context"
	"time"

	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type activityRepositoryImpl struct {
	txStore
}

// NewActivityRepositoryImpl returns a badger implementation of the
// domain.ActivityRepository.
func NewActivityRepositoryImpl(store *badgerhold.Store) domain.ActivityRepository {
	return activityRepositoryImpl{txStore{store}}
}

func (r activityRepositoryImpl) AddActivities(
	ctx context.Context, activities ...domain.Activity,
) error {
	seq := time.Now().UnixNano()
	for i, a := range activities {
		if err := r.insert(ctx, a.ID, toActivity(a, seq+int64(i))); err != nil {
			if err == badgerhold.ErrKeyExists {
				continue
			}
			return err
		}
	}
	return nil
}

func (r activityRepositoryImpl) GetActivities(
	ctx context.Context, page *domain.Page,
) ([]domain.Activity, error) {
	return r.findActivities(ctx, &badgerhold.Query{}, page)
}

func (r activityRepositoryImpl) GetActivitiesForAsset(
	ctx context.Context, key domain.AssetKey, page *domain.Page,
) ([]domain.Activity, error) {
	query := badgerhold.Where("AssetKey").Eq(assetKey(key)).Index("AssetKey")
	return r.findActivities(ctx, query, page)
}

func (r activityRepositoryImpl) GetActivitiesForAccount(
	ctx context.Context, account domain.Address, page *domain.Page,
) ([]domain.Activity, error) {
	query := badgerhold.Where("Accounts").Contains(account.String())
	return r.findActivities(ctx, query, page)
}

func (r activityRepositoryImpl) findActivities(
	ctx context.Context, query *badgerhold.Query, page *domain.Page,
) ([]domain.Activity, error) {
	query.SortBy("Seq")

	var activities []Activity
	if err := r.find(ctx, &activities, query); err != nil {
		return nil, err
	}

	activities = paginate(activities, page)

	res := make([]domain.Activity, 0, len(activities))
	for _, a := range activities {
		res = append(res, a.toDomain())
	}
	return res, nil
}
