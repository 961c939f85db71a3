package domain

import "context"

// ListingRepository is the abstraction for any kind of database intended to
// persist Listings.
type ListingRepository interface {
	// GetListing returns the listing for the given asset, or nil if the asset
	// is not listed.
	GetListing(ctx context.Context, key AssetKey) (*Listing, error)
	// AddListing stores a new listing. It fails with ErrAlreadyListed if the
	// asset is listed already.
	AddListing(ctx context.Context, listing *Listing) error
	// UpdateListing commits the changes made by updateFn to the listing of the
	// given asset. It fails with ErrNotListed if there's no such listing.
	UpdateListing(
		ctx context.Context, key AssetKey,
		updateFn func(l *Listing) (*Listing, error),
	) error
	// DeleteListing removes the listing of the given asset.
	DeleteListing(ctx context.Context, key AssetKey) error
	// GetAllListings returns all the active listings, optionally paginated.
	GetAllListings(ctx context.Context, page *Page) ([]Listing, error)
	// GetListingsBySeller returns the active listings of the given seller.
	GetListingsBySeller(
		ctx context.Context, seller Address, page *Page,
	) ([]Listing, error)
	// GetListingsForCollection returns the active listings of a collection.
	GetListingsForCollection(
		ctx context.Context, collection Address, page *Page,
	) ([]Listing, error)
}
