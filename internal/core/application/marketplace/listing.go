package marketplace

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
)

// List puts the asset up for sale at the given price. The caller must be the
// current owner of the asset and the marketplace must have been approved to
// move it.
func (s *Service) List(
	ctx context.Context, caller domain.Address, key domain.AssetKey, price uint64,
) error {
	if err := validateCaller(caller); err != nil {
		return err
	}
	if price == 0 {
		return domain.ErrPriceZero
	}
	if err := key.Validate(); err != nil {
		return err
	}

	err := s.run(ctx, func(ctx context.Context, op *operation) error {
		listings := s.repoManager.ListingRepository()

		current, err := listings.GetListing(ctx, key)
		if err != nil {
			return err
		}
		if current != nil {
			return domain.ErrAlreadyListed
		}

		if err := s.checkOwnerAndApproval(ctx, caller, key); err != nil {
			return err
		}

		listing, err := domain.NewListing(key, caller, price)
		if err != nil {
			return err
		}
		if err := listings.AddListing(ctx, listing); err != nil {
			return err
		}
		op.markMutated()

		op.emit(domain.NewItemListedActivity(*listing))
		return nil
	})
	if err != nil {
		log.WithError(err).WithField("asset", key.String()).Debug("list rejected")
	}
	return err
}

// Update changes the price of an active listing. Only the seller is allowed to
// update a listing. The new terms are announced exactly like a fresh listing.
func (s *Service) Update(
	ctx context.Context, caller domain.Address, key domain.AssetKey,
	price uint64,
) error {
	if err := validateCaller(caller); err != nil {
		return err
	}
	if price == 0 {
		return domain.ErrPriceZero
	}
	if err := key.Validate(); err != nil {
		return err
	}

	err := s.run(ctx, func(ctx context.Context, op *operation) error {
		listings := s.repoManager.ListingRepository()

		listing, err := listings.GetListing(ctx, key)
		if err != nil {
			return err
		}
		if listing == nil {
			return domain.ErrNotListed
		}
		if err := listing.ChangePrice(caller, price); err != nil {
			return err
		}

		if err := listings.UpdateListing(
			ctx, key, func(_ *domain.Listing) (*domain.Listing, error) {
				return listing, nil
			},
		); err != nil {
			return err
		}
		op.markMutated()

		op.emit(domain.NewItemListedActivity(*listing))
		return nil
	})
	if err != nil {
		log.WithError(err).WithField("asset", key.String()).Debug("update rejected")
	}
	return err
}

// Cancel removes an active listing. Only the seller is allowed to cancel it.
func (s *Service) Cancel(
	ctx context.Context, caller domain.Address, key domain.AssetKey,
) error {
	if err := validateCaller(caller); err != nil {
		return err
	}
	if err := key.Validate(); err != nil {
		return err
	}

	err := s.run(ctx, func(ctx context.Context, op *operation) error {
		listings := s.repoManager.ListingRepository()

		listing, err := listings.GetListing(ctx, key)
		if err != nil {
			return err
		}
		if listing == nil {
			return domain.ErrNotListed
		}
		if err := listing.CanBeCanceledBy(caller); err != nil {
			return err
		}

		if err := listings.DeleteListing(ctx, key); err != nil {
			return err
		}
		op.markMutated()

		op.emit(domain.NewItemCanceledActivity(*listing))
		return nil
	})
	if err != nil {
		log.WithError(err).WithField("asset", key.String()).Debug("cancel rejected")
	}
	return err
}

// GetListing returns the active listing of the asset, nil if not listed.
func (s *Service) GetListing(
	ctx context.Context, key domain.AssetKey,
) (*domain.Listing, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	res, err := s.view(ctx, func(ctx context.Context) (interface{}, error) {
		return s.repoManager.ListingRepository().GetListing(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.Listing), nil
}

// ListListings returns the active listings, optionally filtered by seller and
// collection.
func (s *Service) ListListings(
	ctx context.Context, filter ListingFilter, page *domain.Page,
) ([]domain.Listing, error) {
	res, err := s.view(ctx, func(ctx context.Context) (interface{}, error) {
		repo := s.repoManager.ListingRepository()
		switch {
		case !filter.Seller.IsZero() && !filter.Collection.IsZero():
			listings, err := repo.GetListingsBySeller(ctx, filter.Seller, nil)
			if err != nil {
				return nil, err
			}
			filtered := make([]domain.Listing, 0, len(listings))
			for _, l := range listings {
				if l.Key.Collection == filter.Collection {
					filtered = append(filtered, l)
				}
			}
			return paginate(filtered, page), nil
		case !filter.Seller.IsZero():
			return repo.GetListingsBySeller(ctx, filter.Seller, page)
		case !filter.Collection.IsZero():
			return repo.GetListingsForCollection(ctx, filter.Collection, page)
		default:
			return repo.GetAllListings(ctx, page)
		}
	})
	if err != nil {
		return nil, err
	}
	return res.([]domain.Listing), nil
}

func (s *Service) checkOwnerAndApproval(
	ctx context.Context, caller domain.Address, key domain.AssetKey,
) error {
	owner, err := s.registry.OwnerOf(ctx, key.Collection, key.TokenID)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return domain.ErrNotOwner
		}
		return fmt.Errorf("failed to get owner of asset %s: %w", key, err)
	}
	if owner != caller {
		return domain.ErrNotOwner
	}

	approved, err := s.registry.IsApprovedOrOwnerApprovedAll(
		ctx, key.Collection, key.TokenID, s.address,
	)
	if err != nil {
		return fmt.Errorf("failed to get approval of asset %s: %w", key, err)
	}
	if !approved {
		return domain.ErrNotApproved
	}
	return nil
}
