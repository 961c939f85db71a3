package collectible

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/tdex-network/nft-marketplace/internal/core/ports"
	"github.com/thanhpk/randstr"
)

// Lister lists assets for sale on behalf of their owners.
type Lister interface {
	// Address is the identity that must be approved before listing.
	Address() domain.Address
	List(
		ctx context.Context, caller domain.Address, key domain.AssetKey,
		price uint64,
	) error
}

// Service manages the collections and tokens of the local asset registry.
type Service struct {
	repoManager ports.RepoManager
	lister      Lister
}

func NewService(repoManager ports.RepoManager, lister Lister) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if lister == nil {
		return nil, fmt.Errorf("missing lister")
	}
	return &Service{repoManager, lister}, nil
}

// CreateCollection creates a new collection at a random address.
func (s *Service) CreateCollection(
	ctx context.Context, creator domain.Address, name, symbol string,
) (*domain.Collection, error) {
	if creator.IsZero() {
		return nil, domain.ErrInvalidAddress
	}
	addr, err := domain.ParseAddress(randstr.Hex(domain.AddressLength))
	if err != nil {
		return nil, err
	}
	collection, err := domain.NewCollection(addr, creator, name, symbol)
	if err != nil {
		return nil, err
	}

	if err := s.repoManager.CollectionRepository().AddCollection(
		ctx, collection,
	); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"collection": addr.String(),
		"name":       name,
		"creator":    creator.String(),
	}).Info("collection created")
	return collection, nil
}

func (s *Service) GetCollection(
	ctx context.Context, addr domain.Address,
) (*domain.Collection, error) {
	return s.repoManager.CollectionRepository().GetCollection(ctx, addr)
}

func (s *Service) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	return s.repoManager.CollectionRepository().GetAllCollections(ctx)
}

// Mint creates a new token of the collection owned by the caller.
func (s *Service) Mint(
	ctx context.Context, caller, collection domain.Address, uri string,
) (*domain.Token, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			var token *domain.Token
			if err := s.repoManager.CollectionRepository().UpdateCollection(
				ctx, collection,
				func(c *domain.Collection) (*domain.Collection, error) {
					t, err := c.Mint(caller, uri)
					if err != nil {
						return nil, err
					}
					token = t
					return c, nil
				},
			); err != nil {
				return nil, err
			}

			if err := s.repoManager.TokenRepository().AddToken(
				ctx, token,
			); err != nil {
				return nil, err
			}
			return token, nil
		},
	)
	if err != nil {
		return nil, err
	}

	token := res.(*domain.Token)
	log.WithFields(log.Fields{
		"asset": token.Key.String(),
		"owner": caller.String(),
	}).Info("token minted")
	return token, nil
}

// Approve lets operator move the token. The zero operator revokes the
// current approval.
func (s *Service) Approve(
	ctx context.Context, caller domain.Address, key domain.AssetKey,
	operator domain.Address,
) error {
	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			tokenRepo := s.repoManager.TokenRepository()

			token, err := tokenRepo.GetToken(ctx, key)
			if err != nil {
				return nil, err
			}
			callerApprovedForAll, err := tokenRepo.IsApprovedForAll(
				ctx, key.Collection, token.Owner, caller,
			)
			if err != nil {
				return nil, err
			}

			return nil, tokenRepo.UpdateToken(
				ctx, key, func(t *domain.Token) (*domain.Token, error) {
					if err := t.Approve(caller, operator, callerApprovedForAll); err != nil {
						return nil, err
					}
					return t, nil
				},
			)
		},
	); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"asset":    key.String(),
		"operator": operator.String(),
	}).Debug("token approval changed")
	return nil
}

// SetApprovalForAll lets operator move all the caller's tokens of the
// collection, or revokes the permission.
func (s *Service) SetApprovalForAll(
	ctx context.Context, caller, collection, operator domain.Address,
	approved bool,
) error {
	if caller.IsZero() || operator.IsZero() || caller == operator {
		return domain.ErrInvalidAddress
	}

	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if _, err := s.repoManager.CollectionRepository().GetCollection(
				ctx, collection,
			); err != nil {
				return nil, err
			}
			return nil, s.repoManager.TokenRepository().SetApprovalForAll(
				ctx, domain.OperatorApproval{
					Collection: collection,
					Owner:      caller,
					Operator:   operator,
					Approved:   approved,
				},
			)
		},
	); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"collection": collection.String(),
		"owner":      caller.String(),
		"operator":   operator.String(),
		"approved":   approved,
	}).Debug("operator approval changed")
	return nil
}

func (s *Service) GetToken(
	ctx context.Context, key domain.AssetKey,
) (*domain.Token, error) {
	return s.repoManager.TokenRepository().GetToken(ctx, key)
}

func (s *Service) ListTokensByOwner(
	ctx context.Context, collection, owner domain.Address,
) ([]domain.Token, error) {
	return s.repoManager.TokenRepository().GetTokensByOwner(ctx, collection, owner)
}

// MintAndList mints a new token, approves the marketplace for it and lists
// it at the given price. The token is returned also when the listing fails,
// in which case it stays minted and approved.
func (s *Service) MintAndList(
	ctx context.Context, caller, collection domain.Address, uri string,
	price uint64,
) (*domain.Token, error) {
	if price == 0 {
		return nil, domain.ErrPriceZero
	}

	token, err := s.Mint(ctx, caller, collection, uri)
	if err != nil {
		return nil, err
	}
	if err := s.Approve(ctx, caller, token.Key, s.lister.Address()); err != nil {
		return token, err
	}
	if err := s.lister.List(ctx, caller, token.Key, price); err != nil {
		return token, err
	}

	token.Approved = s.lister.Address()
	return token, nil
}
