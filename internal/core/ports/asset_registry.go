package ports

import (
	"context"

	"github.com/tdex-network/nft-marketplace/internal/core/domain"
)

// AssetRegistry is the external system of record for assets ownership and
// transfer approvals. The marketplace only queries it and asks it to move
// assets, it never mints nor mutates assets directly.
type AssetRegistry interface {
	// OwnerOf returns the current owner of the asset. It fails if the asset
	// does not exist.
	OwnerOf(
		ctx context.Context, collection domain.Address, tokenID uint64,
	) (domain.Address, error)
	// IsApprovedOrOwnerApprovedAll returns whether the operator is allowed to
	// move the asset, either because approved for the single token or for all
	// the tokens of its owner.
	IsApprovedOrOwnerApprovedAll(
		ctx context.Context, collection domain.Address, tokenID uint64,
		operator domain.Address,
	) (bool, error)
	// SafeTransferFrom moves the asset from one account to another. The
	// recipient might be notified and could run arbitrary code, including
	// calling back into the marketplace with the given context.
	SafeTransferFrom(
		ctx context.Context, collection, from, to domain.Address, tokenID uint64,
	) error
}

// TokenReceiver is notified whenever a token is safely transferred to the
// address it's registered for. Returning an error rejects the transfer.
type TokenReceiver interface {
	OnTokenReceived(
		ctx context.Context, operator, from domain.Address, key domain.AssetKey,
	) error
}
