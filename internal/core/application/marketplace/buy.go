package marketplace

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
)

// Buy purchases a listed asset on behalf of the caller, who pays the given
// amount. The payment must cover the listing price and is credited in full to
// the seller's proceeds, overpayments included.
//
// The listing is removed and the seller credited before the payment is
// collected and the asset transferred, so that anything running during those
// external calls already sees the asset as sold. If either of them fails the
// purchase is rejected with ErrTransferFailed and nothing changes.
func (s *Service) Buy(
	ctx context.Context, caller domain.Address, key domain.AssetKey,
	payment uint64,
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
		if err := listing.CanBeBoughtWith(payment); err != nil {
			return err
		}

		if err := listings.DeleteListing(ctx, key); err != nil {
			return err
		}
		op.markMutated()

		if err := s.repoManager.ProceedsRepository().CreditProceeds(
			ctx, listing.Seller, payment,
		); err != nil {
			return err
		}

		if err := s.funds.Collect(ctx, caller, payment); err != nil {
			return fmt.Errorf(
				"%w: failed to collect payment from %s: %s",
				domain.ErrTransferFailed, caller, err,
			)
		}

		if err := s.registry.SafeTransferFrom(
			ctx, key.Collection, listing.Seller, caller, key.TokenID,
		); err != nil {
			return fmt.Errorf(
				"%w: failed to transfer asset %s to %s: %s",
				domain.ErrTransferFailed, key, caller, err,
			)
		}

		op.emit(domain.NewItemBoughtActivity(*listing, caller, payment))
		return nil
	})
	if err != nil {
		log.WithError(err).WithField("asset", key.String()).Debug("buy rejected")
	}
	return err
}
