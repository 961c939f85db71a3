package dbbadger

import (
	"context"

	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type listingRepositoryImpl struct {
	txStore
}

// NewListingRepositoryImpl returns a badger implementation of the
// domain.ListingRepository.
func NewListingRepositoryImpl(store *badgerhold.Store) domain.ListingRepository {
	return listingRepositoryImpl{txStore{store}}
}

func (r listingRepositoryImpl) GetListing(
	ctx context.Context, key domain.AssetKey,
) (*domain.Listing, error) {
	var listing Listing
	if err := r.get(ctx, assetKey(key), &listing); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	l := listing.toDomain()
	return &l, nil
}

func (r listingRepositoryImpl) AddListing(
	ctx context.Context, listing *domain.Listing,
) error {
	l := toListing(*listing)
	if err := r.insert(ctx, l.Key, l); err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrAlreadyListed
		}
		return err
	}
	return nil
}

func (r listingRepositoryImpl) UpdateListing(
	ctx context.Context, key domain.AssetKey,
	updateFn func(l *domain.Listing) (*domain.Listing, error),
) error {
	listing, err := r.GetListing(ctx, key)
	if err != nil {
		return err
	}
	if listing == nil {
		return domain.ErrNotListed
	}

	updatedListing, err := updateFn(listing)
	if err != nil {
		return err
	}

	l := toListing(*updatedListing)
	return r.update(ctx, l.Key, l)
}

func (r listingRepositoryImpl) DeleteListing(
	ctx context.Context, key domain.AssetKey,
) error {
	return r.delete(ctx, assetKey(key), Listing{})
}

func (r listingRepositoryImpl) GetAllListings(
	ctx context.Context, page *domain.Page,
) ([]domain.Listing, error) {
	return r.findListings(ctx, &badgerhold.Query{}, page)
}

func (r listingRepositoryImpl) GetListingsBySeller(
	ctx context.Context, seller domain.Address, page *domain.Page,
) ([]domain.Listing, error) {
	query := badgerhold.Where("Seller").Eq(seller.String()).Index("Seller")
	return r.findListings(ctx, query, page)
}

func (r listingRepositoryImpl) GetListingsForCollection(
	ctx context.Context, collection domain.Address, page *domain.Page,
) ([]domain.Listing, error) {
	query := badgerhold.Where("Collection").Eq(collection.String()).
		Index("Collection")
	return r.findListings(ctx, query, page)
}

func (r listingRepositoryImpl) findListings(
	ctx context.Context, query *badgerhold.Query, page *domain.Page,
) ([]domain.Listing, error) {
	query.SortBy("CreatedAt", "Key")

	var listings []Listing
	if err := r.find(ctx, &listings, query); err != nil {
		return nil, err
	}

	listings = paginate(listings, page)

	res := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		res = append(res, l.toDomain())
	}
	return res, nil
}
