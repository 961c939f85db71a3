package domain

import "errors"

var (
	// ErrPriceZero is returned when listing or repricing an asset for free.
	ErrPriceZero = errors.New("price must be greater than zero")
	// ErrAlreadyListed is returned when listing an asset that is already for sale.
	ErrAlreadyListed = errors.New("asset is already listed")
	// ErrNotListed is returned when operating on an asset that is not for sale.
	ErrNotListed = errors.New("asset is not listed")
	// ErrNotOwner is returned when the caller is not the owner of the asset, or
	// the seller of the listing.
	ErrNotOwner = errors.New("caller is not the owner")
	// ErrNotApproved is returned when the marketplace is not approved to move
	// the asset on behalf of its owner.
	ErrNotApproved = errors.New("marketplace is not approved for asset")
	// ErrPriceNotMet is returned when the payment does not cover the price.
	ErrPriceNotMet = errors.New("payment does not meet the listing price")
	// ErrNoProceeds is returned when withdrawing an empty balance.
	ErrNoProceeds = errors.New("no proceeds to withdraw")
	// ErrTransferFailed is returned when moving an asset or some value to its
	// recipient fails.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidAssetKey ...
	ErrInvalidAssetKey = errors.New("asset collection must not be the zero address")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrInsufficientFunds ...
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrBalanceOverflow ...
	ErrBalanceOverflow = errors.New("balance overflow")
	// ErrTokenNotFound is returned by the registry for unknown tokens.
	ErrTokenNotFound = errors.New("token not found")
	// ErrCollectionNotFound ...
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrCollectionAlreadyExists ...
	ErrCollectionAlreadyExists = errors.New("collection already exists")
	// ErrCollectionInvalidName ...
	ErrCollectionInvalidName = errors.New("collection name must not be empty")
)
