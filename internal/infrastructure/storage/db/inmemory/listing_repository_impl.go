package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/tdex-network/nft-marketplace/internal/storageutil/uow"
)

type listingInmemoryStore struct {
	listings map[domain.AssetKey]domain.Listing
	locker   *sync.RWMutex
}

func newListingInmemoryStore() *listingInmemoryStore {
	return &listingInmemoryStore{
		listings: map[domain.AssetKey]domain.Listing{},
		locker:   &sync.RWMutex{},
	}
}

func (s *listingInmemoryStore) Begin() (uow.Tx, error) {
	s.locker.RLock()
	snapshot := make(map[domain.AssetKey]domain.Listing, len(s.listings))
	for k, v := range s.listings {
		snapshot[k] = v
	}
	s.locker.RUnlock()

	return snapshotTx{func() {
		s.locker.Lock()
		s.listings = snapshot
		s.locker.Unlock()
	}}, nil
}

type listingRepositoryImpl struct {
	store *listingInmemoryStore
}

// NewListingRepositoryImpl returns a new inmemory ListingRepository
// implementation.
func NewListingRepositoryImpl(
	store *listingInmemoryStore,
) domain.ListingRepository {
	return &listingRepositoryImpl{store}
}

func (r *listingRepositoryImpl) GetListing(
	_ context.Context, key domain.AssetKey,
) (*domain.Listing, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	listing, ok := r.store.listings[key]
	if !ok {
		return nil, nil
	}
	return &listing, nil
}

func (r *listingRepositoryImpl) AddListing(
	_ context.Context, listing *domain.Listing,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.listings[listing.Key]; ok {
		return domain.ErrAlreadyListed
	}
	r.store.listings[listing.Key] = *listing
	return nil
}

func (r *listingRepositoryImpl) UpdateListing(
	_ context.Context, key domain.AssetKey,
	updateFn func(l *domain.Listing) (*domain.Listing, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	listing, ok := r.store.listings[key]
	if !ok {
		return domain.ErrNotListed
	}

	updatedListing, err := updateFn(&listing)
	if err != nil {
		return err
	}
	r.store.listings[key] = *updatedListing
	return nil
}

func (r *listingRepositoryImpl) DeleteListing(
	_ context.Context, key domain.AssetKey,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	delete(r.store.listings, key)
	return nil
}

func (r *listingRepositoryImpl) GetAllListings(
	_ context.Context, page *domain.Page,
) ([]domain.Listing, error) {
	return r.findListings(func(domain.Listing) bool { return true }, page), nil
}

func (r *listingRepositoryImpl) GetListingsBySeller(
	_ context.Context, seller domain.Address, page *domain.Page,
) ([]domain.Listing, error) {
	return r.findListings(func(l domain.Listing) bool {
		return l.Seller == seller
	}, page), nil
}

func (r *listingRepositoryImpl) GetListingsForCollection(
	_ context.Context, collection domain.Address, page *domain.Page,
) ([]domain.Listing, error) {
	return r.findListings(func(l domain.Listing) bool {
		return l.Key.Collection == collection
	}, page), nil
}

func (r *listingRepositoryImpl) findListings(
	filter func(domain.Listing) bool, page *domain.Page,
) []domain.Listing {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	listings := make([]domain.Listing, 0)
	for _, l := range r.store.listings {
		if filter(l) {
			listings = append(listings, l)
		}
	}

	sort.SliceStable(listings, func(i, j int) bool {
		if listings[i].CreatedAt != listings[j].CreatedAt {
			return listings[i].CreatedAt < listings[j].CreatedAt
		}
		return listings[i].Key.String() < listings[j].Key.String()
	})

	if page != nil {
		start, end := pageBounds(len(listings), page)
		listings = listings[start:end]
	}
	return listings
}
