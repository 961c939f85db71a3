package wallet

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/tdex-network/nft-marketplace/internal/core/ports"
)

// ErrFaucetDisabled is returned by Deposit when the faucet is turned off.
var ErrFaucetDisabled = errors.New("faucet is disabled")

// Service gives access to the balances of the local value ledger used to pay
// for the assets.
type Service struct {
	repoManager   ports.RepoManager
	faucetEnabled bool
}

func NewService(repoManager ports.RepoManager, faucetEnabled bool) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	return &Service{repoManager, faucetEnabled}, nil
}

// Deposit credits out of thin air the given amount to the account and returns
// the updated balance.
func (s *Service) Deposit(
	ctx context.Context, owner domain.Address, amount uint64,
) (uint64, error) {
	if !s.faucetEnabled {
		return 0, ErrFaucetDisabled
	}
	if owner.IsZero() {
		return 0, domain.ErrInvalidAddress
	}

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			var balance uint64
			if err := s.repoManager.AccountRepository().UpdateAccount(
				ctx, owner, func(a *domain.Account) (*domain.Account, error) {
					if err := a.Deposit(amount); err != nil {
						return nil, err
					}
					balance = a.Balance
					return a, nil
				},
			); err != nil {
				return nil, err
			}
			return balance, nil
		},
	)
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"account": owner.String(),
		"amount":  amount,
	}).Info("faucet deposit")
	return res.(uint64), nil
}

func (s *Service) GetBalance(
	ctx context.Context, owner domain.Address,
) (uint64, error) {
	account, err := s.repoManager.AccountRepository().GetAccount(ctx, owner)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}
