package domain

import "context"

// CollectionRepository persists the collections of the local asset registry.
type CollectionRepository interface {
	AddCollection(ctx context.Context, collection *Collection) error
	GetCollection(ctx context.Context, addr Address) (*Collection, error)
	GetAllCollections(ctx context.Context) ([]Collection, error)
	UpdateCollection(
		ctx context.Context, addr Address,
		updateFn func(c *Collection) (*Collection, error),
	) error
}

// TokenRepository persists the tokens of the local asset registry along with
// the operator approvals of their owners.
type TokenRepository interface {
	AddToken(ctx context.Context, token *Token) error
	// GetToken fails with ErrTokenNotFound for unknown tokens.
	GetToken(ctx context.Context, key AssetKey) (*Token, error)
	GetTokensByOwner(
		ctx context.Context, collection, owner Address,
	) ([]Token, error)
	UpdateToken(
		ctx context.Context, key AssetKey,
		updateFn func(t *Token) (*Token, error),
	) error
	SetApprovalForAll(ctx context.Context, approval OperatorApproval) error
	IsApprovedForAll(
		ctx context.Context, collection, owner, operator Address,
	) (bool, error)
}

// AccountRepository persists the balances of the local value ledger.
type AccountRepository interface {
	GetAccount(ctx context.Context, owner Address) (*Account, error)
	// UpdateAccount commits the changes made by updateFn to the account,
	// creating it with zero balance if it doesn't exist.
	UpdateAccount(
		ctx context.Context, owner Address,
		updateFn func(a *Account) (*Account, error),
	) error
}
