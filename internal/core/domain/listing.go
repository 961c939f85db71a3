package domain

import "time"

// Listing is an active offer to sell an asset at a fixed price. A listing
// exists only while the asset is for sale, the absence of one means the asset
// is not listed.
type Listing struct {
	Key       AssetKey
	Seller    Address
	Price     uint64
	CreatedAt int64
	UpdatedAt int64
}

// NewListing returns a new listing for the given asset. The price must be
// strictly positive.
func NewListing(key AssetKey, seller Address, price uint64) (*Listing, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if seller.IsZero() {
		return nil, ErrInvalidAddress
	}
	if price == 0 {
		return nil, ErrPriceZero
	}

	now := time.Now().Unix()
	return &Listing{
		Key:       key,
		Seller:    seller,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ChangePrice replaces the price of the listing. Only the seller is allowed to
// reprice, no matter who the current owner of the asset is.
func (l *Listing) ChangePrice(caller Address, price uint64) error {
	if price == 0 {
		return ErrPriceZero
	}
	if caller != l.Seller {
		return ErrNotOwner
	}

	l.Price = price
	l.UpdatedAt = time.Now().Unix()
	return nil
}

// CanBeCanceledBy returns an error if caller is not the seller.
func (l *Listing) CanBeCanceledBy(caller Address) error {
	if caller != l.Seller {
		return ErrNotOwner
	}
	return nil
}

// CanBeBoughtWith returns an error if the given payment does not cover the
// price. Overpayments are accepted.
func (l *Listing) CanBeBoughtWith(payment uint64) error {
	if payment < l.Price {
		return ErrPriceNotMet
	}
	return nil
}
