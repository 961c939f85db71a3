package marketplace

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/tdex-network/nft-marketplace/internal/core/ports"
)

// Service is the marketplace engine. It owns the listing store and the
// proceeds ledger and is the only component allowed to mutate them.
//
// Every operation runs to completion under the service lock and within a
// single transaction, external calls included. Operations re-entered through
// the registry or funds callbacks must use the context they were given: they
// join the ongoing transaction, skip the lock, and see the state as already
// mutated by the outer operation.
//
// The lock is not reentrant. A callback calling back into the service with
// a context not derived from the one it received waits for the outer
// operation to release the lock, which never happens: the call deadlocks.
type Service struct {
	repoManager ports.RepoManager
	registry    ports.AssetRegistry
	funds       ports.Funds
	notifier    ports.EventNotifier
	address     domain.Address

	lock *sync.RWMutex
}

// NewService returns a new marketplace engine. The given address is the
// identity of the marketplace, the one sellers must approve on the registry.
// The notifier is optional.
func NewService(
	repoManager ports.RepoManager,
	registry ports.AssetRegistry,
	funds ports.Funds,
	notifier ports.EventNotifier,
	address domain.Address,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if registry == nil {
		return nil, fmt.Errorf("missing asset registry")
	}
	if funds == nil {
		return nil, fmt.Errorf("missing funds")
	}
	if address.IsZero() {
		return nil, fmt.Errorf("missing marketplace address")
	}

	return &Service{
		repoManager: repoManager,
		registry:    registry,
		funds:       funds,
		notifier:    notifier,
		address:     address,
		lock:        &sync.RWMutex{},
	}, nil
}

// Address returns the identity of the marketplace.
func (s *Service) Address() domain.Address {
	return s.address
}

type scopeKey struct{}

// scope is shared by an operation and all the operations re-entering the
// marketplace before it returns.
type scope struct {
	svc        *Service
	activities []domain.Activity
	// err is set when a re-entrant operation fails after having changed
	// the state. The outermost operation is then failed as a whole.
	err error
}

type operation struct {
	activities []domain.Activity
	mutated    bool
}

func (o *operation) emit(a domain.Activity) {
	o.activities = append(o.activities, a)
}

func (o *operation) markMutated() {
	o.mutated = true
}

func (s *Service) scopeFromContext(ctx context.Context) (*scope, bool) {
	sc, ok := ctx.Value(scopeKey{}).(*scope)
	if !ok || sc.svc != s {
		return nil, false
	}
	return sc, true
}

// run executes a state-changing operation. Either all its changes are
// committed and its activities notified, or nothing changes.
func (s *Service) run(
	ctx context.Context, fn func(ctx context.Context, op *operation) error,
) error {
	if sc, ok := s.scopeFromContext(ctx); ok {
		op := &operation{}
		if err := fn(ctx, op); err != nil {
			if op.mutated && sc.err == nil {
				sc.err = err
			}
			return err
		}
		sc.activities = append(sc.activities, op.activities...)
		return nil
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	sc := &scope{svc: s}
	ctx = context.WithValue(ctx, scopeKey{}, sc)

	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			// The handler may be run again if the transaction conflicts.
			sc.activities, sc.err = nil, nil

			op := &operation{}
			if err := fn(ctx, op); err != nil {
				return nil, err
			}
			if sc.err != nil {
				return nil, sc.err
			}
			sc.activities = append(sc.activities, op.activities...)

			if len(sc.activities) > 0 {
				if err := s.repoManager.ActivityRepository().AddActivities(
					ctx, sc.activities...,
				); err != nil {
					return nil, err
				}
			}
			return nil, nil
		},
	); err != nil {
		return err
	}

	s.notify(sc.activities)
	return nil
}

// view executes a read-only operation against a consistent state.
func (s *Service) view(
	ctx context.Context, fn func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if _, ok := s.scopeFromContext(ctx); ok {
		return fn(ctx)
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.repoManager.RunTransaction(ctx, true, fn)
}

func (s *Service) notify(activities []domain.Activity) {
	for _, a := range activities {
		log.WithFields(log.Fields{
			"event":  a.Type.String(),
			"asset":  a.Key.String(),
			"seller": a.Seller.String(),
			"buyer":  a.Buyer.String(),
			"price":  a.Price,
		}).Info("marketplace event")
	}
	if s.notifier != nil && len(activities) > 0 {
		s.notifier.Notify(activities...)
	}
}

func validateCaller(caller domain.Address) error {
	if caller.IsZero() {
		return domain.ErrInvalidAddress
	}
	return nil
}
