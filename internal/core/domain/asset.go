package domain

import "fmt"

// AssetKey identifies one unique asset across all the tracked collections.
type AssetKey struct {
	Collection Address
	TokenID    uint64
}

// NewAssetKey returns a validated AssetKey.
func NewAssetKey(collection Address, tokenID uint64) (AssetKey, error) {
	key := AssetKey{collection, tokenID}
	if err := key.Validate(); err != nil {
		return AssetKey{}, err
	}
	return key, nil
}

func (k AssetKey) Validate() error {
	if k.Collection.IsZero() {
		return ErrInvalidAssetKey
	}
	return nil
}

func (k AssetKey) String() string {
	return fmt.Sprintf("%s/%d", k.Collection, k.TokenID)
}

// Collection is a family of non-fungible tokens minted by the local registry.
type Collection struct {
	Address     Address
	Name        string
	Symbol      string
	Creator     Address
	NextTokenID uint64
}

// NewCollection returns a new collection with no minted tokens.
func NewCollection(addr, creator Address, name, symbol string) (*Collection, error) {
	if addr.IsZero() {
		return nil, ErrInvalidAddress
	}
	if len(name) <= 0 {
		return nil, ErrCollectionInvalidName
	}
	return &Collection{
		Address: addr,
		Name:    name,
		Symbol:  symbol,
		Creator: creator,
	}, nil
}

// Mint creates a new token owned by the given address and bumps the token
// counter of the collection.
func (c *Collection) Mint(owner Address, uri string) (*Token, error) {
	if owner.IsZero() {
		return nil, ErrInvalidAddress
	}
	token := &Token{
		Key:   AssetKey{c.Address, c.NextTokenID},
		Owner: owner,
		URI:   uri,
	}
	c.NextTokenID++
	return token, nil
}

// Token is the registry record of a single non-fungible token.
type Token struct {
	Key      AssetKey
	Owner    Address
	Approved Address
	URI      string
}

// Approve grants to operator the right to transfer the token. Only the owner
// or an operator approved for all the owner's tokens can approve.
// Approving the zero address revokes any previous approval.
func (t *Token) Approve(caller, operator Address, callerApprovedForAll bool) error {
	if caller != t.Owner && !callerApprovedForAll {
		return ErrNotOwner
	}
	t.Approved = operator
	return nil
}

// IsApprovedOrOwner returns whether spender can move the token.
func (t *Token) IsApprovedOrOwner(spender Address, approvedForAll bool) bool {
	return spender == t.Owner || (!t.Approved.IsZero() && spender == t.Approved) ||
		approvedForAll
}

// Transfer moves the ownership of the token to the given address and clears
// the single-token approval.
func (t *Token) Transfer(from, to Address) error {
	if from != t.Owner {
		return ErrNotOwner
	}
	if to.IsZero() {
		return ErrInvalidAddress
	}
	t.Owner = to
	t.Approved = Address{}
	return nil
}

// OperatorApproval records whether an operator can move all the tokens of an
// owner within a collection.
type OperatorApproval struct {
	Collection Address
	Owner      Address
	Operator   Address
	Approved   bool
}
