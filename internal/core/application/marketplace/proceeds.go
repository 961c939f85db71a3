package marketplace

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
)

// Withdraw pays out the whole proceeds balance of the caller and returns the
// amount sent. The balance is zeroed before the payment is sent, if the
// payment fails the balance is restored and ErrTransferFailed is returned.
func (s *Service) Withdraw(
	ctx context.Context, caller domain.Address,
) (uint64, error) {
	if err := validateCaller(caller); err != nil {
		return 0, err
	}

	var amount uint64
	err := s.run(ctx, func(ctx context.Context, op *operation) error {
		taken, err := s.repoManager.ProceedsRepository().TakeAllProceeds(
			ctx, caller,
		)
		if err != nil {
			return err
		}
		op.markMutated()

		if err := s.funds.Send(ctx, caller, taken); err != nil {
			return fmt.Errorf(
				"%w: failed to send proceeds to %s: %s",
				domain.ErrTransferFailed, caller, err,
			)
		}

		amount = taken
		op.emit(domain.NewProceedsWithdrawnActivity(caller, taken))
		return nil
	})
	if err != nil {
		log.WithError(err).WithField("account", caller.String()).Debug(
			"withdraw rejected",
		)
		return 0, err
	}
	return amount, nil
}

// GetProceeds returns the balance owed to the given account.
func (s *Service) GetProceeds(
	ctx context.Context, account domain.Address,
) (uint64, error) {
	res, err := s.view(ctx, func(ctx context.Context) (interface{}, error) {
		return s.repoManager.ProceedsRepository().GetProceeds(ctx, account)
	})
	if err != nil {
		return 0, err
	}
	return res.(uint64), nil
}
