package funds

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/tdex-network/nft-marketplace/internal/core/ports"
)

// Ledger is the local value ledger. Collected payments are escrowed into the
// account of the marketplace and released from there.
type Ledger struct {
	repoManager ports.RepoManager
	escrow      domain.Address

	receivers map[domain.Address]ports.ValueReceiver
	lock      *sync.RWMutex
}

func NewLedger(repoManager ports.RepoManager, escrow domain.Address) *Ledger {
	return &Ledger{
		repoManager: repoManager,
		escrow:      escrow,
		receivers:   make(map[domain.Address]ports.ValueReceiver),
		lock:        &sync.RWMutex{},
	}
}

// RegisterReceiver makes the given receiver be notified of every payment sent
// to addr.
func (l *Ledger) RegisterReceiver(
	addr domain.Address, receiver ports.ValueReceiver,
) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.receivers[addr] = receiver
}

func (l *Ledger) UnregisterReceiver(addr domain.Address) {
	l.lock.Lock()
	defer l.lock.Unlock()

	delete(l.receivers, addr)
}

// Collect moves amount from the given account to the escrow.
func (l *Ledger) Collect(
	ctx context.Context, from domain.Address, amount uint64,
) error {
	if err := l.move(ctx, from, l.escrow, amount); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"from":   from.String(),
		"amount": amount,
	}).Debug("funds: payment collected")
	return nil
}

// Send releases amount from the escrow to the given account and notifies the
// recipient, if it registered a receiver.
func (l *Ledger) Send(
	ctx context.Context, to domain.Address, amount uint64,
) error {
	if _, err := l.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := l.move(ctx, l.escrow, to, amount); err != nil {
				return nil, err
			}

			receiver := l.receiverOf(to)
			if receiver == nil {
				return nil, nil
			}
			if err := receiver.OnValueReceived(ctx, l.escrow, amount); err != nil {
				return nil, fmt.Errorf("%w: %s", ErrPaymentRejected, err)
			}
			return nil, nil
		},
	); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"to":     to.String(),
		"amount": amount,
	}).Debug("funds: payment sent")
	return nil
}

func (l *Ledger) move(
	ctx context.Context, from, to domain.Address, amount uint64,
) error {
	_, err := l.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			accounts := l.repoManager.AccountRepository()

			if err := accounts.UpdateAccount(
				ctx, from, func(a *domain.Account) (*domain.Account, error) {
					if err := a.Withdraw(amount); err != nil {
						return nil, err
					}
					return a, nil
				},
			); err != nil {
				return nil, err
			}

			return nil, accounts.UpdateAccount(
				ctx, to, func(a *domain.Account) (*domain.Account, error) {
					if err := a.Deposit(amount); err != nil {
						return nil, err
					}
					return a, nil
				},
			)
		},
	)
	return err
}

func (l *Ledger) receiverOf(addr domain.Address) ports.ValueReceiver {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.receivers[addr]
}
