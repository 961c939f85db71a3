package registry

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/tdex-network/nft-marketplace/internal/core/ports"
)

// Registry is the local system of record for token ownership and approvals.
// Tokens are stored through the same repo manager of the marketplace so that
// transfers take part in the ongoing transaction, if any.
type Registry struct {
	repoManager ports.RepoManager

	receivers map[domain.Address]ports.TokenReceiver
	lock      *sync.RWMutex
}

func NewRegistry(repoManager ports.RepoManager) *Registry {
	return &Registry{
		repoManager: repoManager,
		receivers:   make(map[domain.Address]ports.TokenReceiver),
		lock:        &sync.RWMutex{},
	}
}

// RegisterReceiver makes the given receiver be notified of every token safely
// transferred to addr.
func (r *Registry) RegisterReceiver(
	addr domain.Address, receiver ports.TokenReceiver,
) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.receivers[addr] = receiver
}

func (r *Registry) UnregisterReceiver(addr domain.Address) {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.receivers, addr)
}

// AsOperator returns a view of the registry that moves tokens on behalf of
// the given operator.
func (r *Registry) AsOperator(operator domain.Address) ports.AssetRegistry {
	return &operatorRegistry{r, operator}
}

func (r *Registry) OwnerOf(
	ctx context.Context, collection domain.Address, tokenID uint64,
) (domain.Address, error) {
	token, err := r.repoManager.TokenRepository().GetToken(
		ctx, domain.AssetKey{Collection: collection, TokenID: tokenID},
	)
	if err != nil {
		return domain.Address{}, err
	}
	return token.Owner, nil
}

func (r *Registry) IsApprovedOrOwnerApprovedAll(
	ctx context.Context, collection domain.Address, tokenID uint64,
	operator domain.Address,
) (bool, error) {
	tokenRepo := r.repoManager.TokenRepository()

	token, err := tokenRepo.GetToken(
		ctx, domain.AssetKey{Collection: collection, TokenID: tokenID},
	)
	if err != nil {
		return false, err
	}

	approvedForAll, err := tokenRepo.IsApprovedForAll(
		ctx, collection, token.Owner, operator,
	)
	if err != nil {
		return false, err
	}

	return token.IsApprovedOrOwner(operator, approvedForAll), nil
}

func (r *Registry) safeTransferFrom(
	ctx context.Context, operator, collection, from, to domain.Address,
	tokenID uint64,
) error {
	key := domain.AssetKey{Collection: collection, TokenID: tokenID}

	_, err := r.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			allowed, err := r.IsApprovedOrOwnerApprovedAll(
				ctx, collection, tokenID, operator,
			)
			if err != nil {
				return nil, err
			}
			if !allowed {
				return nil, ErrTransferNotAllowed
			}

			if err := r.repoManager.TokenRepository().UpdateToken(
				ctx, key, func(t *domain.Token) (*domain.Token, error) {
					if err := t.Transfer(from, to); err != nil {
						return nil, err
					}
					return t, nil
				},
			); err != nil {
				return nil, err
			}

			receiver := r.receiverOf(to)
			if receiver == nil {
				return nil, nil
			}
			if err := receiver.OnTokenReceived(ctx, operator, from, key); err != nil {
				return nil, fmt.Errorf("%w: %s", ErrTransferRejected, err)
			}
			return nil, nil
		},
	)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"asset": key.String(),
		"from":  from.String(),
		"to":    to.String(),
	}).Debug("registry: token transferred")
	return nil
}

func (r *Registry) receiverOf(addr domain.Address) ports.TokenReceiver {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.receivers[addr]
}

type operatorRegistry struct {
	*Registry
	operator domain.Address
}

func (r *operatorRegistry) SafeTransferFrom(
	ctx context.Context, collection, from, to domain.Address, tokenID uint64,
) error {
	return r.safeTransferFrom(ctx, r.operator, collection, from, to, tokenID)
}
