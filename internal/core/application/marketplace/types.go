package marketplace

import "github.com/tdex-network/nft-marketplace/internal/core/domain"

// ListingFilter narrows the listings returned by ListListings. Zero values
// mean no filter.
type ListingFilter struct {
	Seller     domain.Address
	Collection domain.Address
}

func paginate(listings []domain.Listing, page *domain.Page) []domain.Listing {
	if page == nil {
		return listings
	}
	start := page.Offset()
	if start >= len(listings) {
		return []domain.Listing{}
	}
	end := start + page.Size
	if end > len(listings) {
		end = len(listings)
	}
	return listings[start:end]
}
