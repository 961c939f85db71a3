package dbbadger

import (
	"context"

	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type collectionRepositoryImpl struct {
	txStore
}

// NewCollectionRepositoryImpl returns a badger implementation of the
// domain.CollectionRepository.
func NewCollectionRepositoryImpl(
	store *badgerhold.Store,
) domain.CollectionRepository {
	return collectionRepositoryImpl{txStore{store}}
}

func (r collectionRepositoryImpl) AddCollection(
	ctx context.Context, collection *domain.Collection,
) error {
	c := toCollection(*collection)
	if err := r.insert(ctx, c.Address, c); err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrCollectionAlreadyExists
		}
		return err
	}
	return nil
}

func (r collectionRepositoryImpl) GetCollection(
	ctx context.Context, addr domain.Address,
) (*domain.Collection, error) {
	var collection Collection
	if err := r.get(ctx, addr.String(), &collection); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrCollectionNotFound
		}
		return nil, err
	}
	c := collection.toDomain()
	return &c, nil
}

func (r collectionRepositoryImpl) GetAllCollections(
	ctx context.Context,
) ([]domain.Collection, error) {
	var collections []Collection
	if err := r.find(ctx, &collections, nil); err != nil {
		return nil, err
	}

	res := make([]domain.Collection, 0, len(collections))
	for _, c := range collections {
		res = append(res, c.toDomain())
	}
	return res, nil
}

func (r collectionRepositoryImpl) UpdateCollection(
	ctx context.Context, addr domain.Address,
	updateFn func(c *domain.Collection) (*domain.Collection, error),
) error {
	collection, err := r.GetCollection(ctx, addr)
	if err != nil {
		return err
	}

	updatedCollection, err := updateFn(collection)
	if err != nil {
		return err
	}

	c := toCollection(*updatedCollection)
	return r.update(ctx, c.Address, c)
}

type tokenRepositoryImpl struct {
	txStore
}

// NewTokenRepositoryImpl returns a badger implementation of the
// domain.TokenRepository.
func NewTokenRepositoryImpl(store *badgerhold.Store) domain.TokenRepository {
	return tokenRepositoryImpl{txStore{store}}
}

func (r tokenRepositoryImpl) AddToken(
	ctx context.Context, token *domain.Token,
) error {
	t := toToken(*token)
	return r.insert(ctx, t.Key, t)
}

func (r tokenRepositoryImpl) GetToken(
	ctx context.Context, key domain.AssetKey,
) (*domain.Token, error) {
	var token Token
	if err := r.get(ctx, assetKey(key), &token); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}
	t := token.toDomain()
	return &t, nil
}

func (r tokenRepositoryImpl) GetTokensByOwner(
	ctx context.Context, collection, owner domain.Address,
) ([]domain.Token, error) {
	query := badgerhold.Where("Owner").Eq(owner.String()).Index("Owner").
		And("Collection").Eq(collection.String())
	query.SortBy("TokenID")

	var tokens []Token
	if err := r.find(ctx, &tokens, query); err != nil {
		return nil, err
	}

	res := make([]domain.Token, 0, len(tokens))
	for _, t := range tokens {
		res = append(res, t.toDomain())
	}
	return res, nil
}

func (r tokenRepositoryImpl) UpdateToken(
	ctx context.Context, key domain.AssetKey,
	updateFn func(t *domain.Token) (*domain.Token, error),
) error {
	token, err := r.GetToken(ctx, key)
	if err != nil {
		return err
	}

	updatedToken, err := updateFn(token)
	if err != nil {
		return err
	}

	t := toToken(*updatedToken)
	return r.update(ctx, t.Key, t)
}

func (r tokenRepositoryImpl) SetApprovalForAll(
	ctx context.Context, approval domain.OperatorApproval,
) error {
	key := operatorApprovalKey(
		approval.Collection, approval.Owner, approval.Operator,
	)
	if !approval.Approved {
		return r.delete(ctx, key, OperatorApproval{})
	}
	return r.upsert(ctx, key, &OperatorApproval{
		Collection: approval.Collection.String(),
		Owner:      approval.Owner.String(),
		Operator:   approval.Operator.String(),
		Approved:   true,
	})
}

func (r tokenRepositoryImpl) IsApprovedForAll(
	ctx context.Context, collection, owner, operator domain.Address,
) (bool, error) {
	var approval OperatorApproval
	key := operatorApprovalKey(collection, owner, operator)
	if err := r.get(ctx, key, &approval); err != nil {
		if err == badgerhold.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return approval.Approved, nil
}

type accountRepositoryImpl struct {
	txStore
}

// NewAccountRepositoryImpl returns a badger implementation of the
// domain.AccountRepository.
func NewAccountRepositoryImpl(store *badgerhold.Store) domain.AccountRepository {
	return accountRepositoryImpl{txStore{store}}
}

func (r accountRepositoryImpl) GetAccount(
	ctx context.Context, owner domain.Address,
) (*domain.Account, error) {
	var account Account
	if err := r.get(ctx, owner.String(), &account); err != nil {
		if err == badgerhold.ErrNotFound {
			return &domain.Account{Owner: owner}, nil
		}
		return nil, err
	}
	return &domain.Account{Owner: owner, Balance: account.Balance}, nil
}

func (r accountRepositoryImpl) UpdateAccount(
	ctx context.Context, owner domain.Address,
	updateFn func(a *domain.Account) (*domain.Account, error),
) error {
	account, err := r.GetAccount(ctx, owner)
	if err != nil {
		return err
	}

	updatedAccount, err := updateFn(account)
	if err != nil {
		return err
	}

	return r.upsert(ctx, owner.String(), &Account{
		Owner:   owner.String(),
		Balance: updatedAccount.Balance,
	})
}
