package dbbadger

import (
	"fmt"

	"github.com/tdex-network/nft-marketplace/internal/core/domain"
)

// Storage copies of the domain types. Addresses are stored as hex strings so
// that they can be indexed and queried.

type Listing struct {
	Key        string
	Collection string `badgerhold:"index"`
	TokenID    uint64
	Seller     string `badgerhold:"index"`
	Price      uint64
	CreatedAt  int64
	UpdatedAt  int64
}

type Proceeds struct {
	Owner  string
	Amount uint64
}

type Activity struct {
	ID         string
	Seq        int64
	Type       int
	AssetKey   string `badgerhold:"index"`
	Collection string
	TokenID    uint64
	Seller     string
	Buyer      string
	Accounts   []string
	Price      uint64
	Timestamp  int64
}

type Collection struct {
	Address     string
	Name        string
	Symbol      string
	Creator     string
	NextTokenID uint64
}

type Token struct {
	Key        string
	Collection string
	TokenID    uint64
	Owner      string `badgerhold:"index"`
	Approved   string
	URI        string
}

type OperatorApproval struct {
	Collection string
	Owner      string
	Operator   string
	Approved   bool
}

type Account struct {
	Owner   string
	Balance uint64
}

func assetKey(key domain.AssetKey) string {
	return key.String()
}

func operatorApprovalKey(collection, owner, operator domain.Address) string {
	return fmt.Sprintf("%s/%s/%s", collection, owner, operator)
}

func toListing(l domain.Listing) *Listing {
	return &Listing{
		Key:        assetKey(l.Key),
		Collection: l.Key.Collection.String(),
		TokenID:    l.Key.TokenID,
		Seller:     l.Seller.String(),
		Price:      l.Price,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

func (l Listing) toDomain() domain.Listing {
	return domain.Listing{
		Key: domain.AssetKey{
			Collection: addressFromString(l.Collection),
			TokenID:    l.TokenID,
		},
		Seller:    addressFromString(l.Seller),
		Price:     l.Price,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func toActivity(a domain.Activity, seq int64) *Activity {
	accounts := make([]string, 0, 2)
	for _, addr := range []domain.Address{a.Seller, a.Buyer} {
		if !addr.IsZero() {
			accounts = append(accounts, addr.String())
		}
	}

	return &Activity{
		ID:         a.ID,
		Seq:        seq,
		Type:       int(a.Type),
		AssetKey:   assetKey(a.Key),
		Collection: a.Key.Collection.String(),
		TokenID:    a.Key.TokenID,
		Seller:     a.Seller.String(),
		Buyer:      a.Buyer.String(),
		Accounts:   accounts,
		Price:      a.Price,
		Timestamp:  a.Timestamp,
	}
}

func (a Activity) toDomain() domain.Activity {
	return domain.Activity{
		ID:   a.ID,
		Type: domain.ActivityType(a.Type),
		Key: domain.AssetKey{
			Collection: addressFromString(a.Collection),
			TokenID:    a.TokenID,
		},
		Seller:    addressFromString(a.Seller),
		Buyer:     addressFromString(a.Buyer),
		Price:     a.Price,
		Timestamp: a.Timestamp,
	}
}

func toCollection(c domain.Collection) *Collection {
	return &Collection{
		Address:     c.Address.String(),
		Name:        c.Name,
		Symbol:      c.Symbol,
		Creator:     c.Creator.String(),
		NextTokenID: c.NextTokenID,
	}
}

func (c Collection) toDomain() domain.Collection {
	return domain.Collection{
		Address:     addressFromString(c.Address),
		Name:        c.Name,
		Symbol:      c.Symbol,
		Creator:     addressFromString(c.Creator),
		NextTokenID: c.NextTokenID,
	}
}

func toToken(t domain.Token) *Token {
	return &Token{
		Key:        assetKey(t.Key),
		Collection: t.Key.Collection.String(),
		TokenID:    t.Key.TokenID,
		Owner:      t.Owner.String(),
		Approved:   t.Approved.String(),
		URI:        t.URI,
	}
}

func (t Token) toDomain() domain.Token {
	return domain.Token{
		Key: domain.AssetKey{
			Collection: addressFromString(t.Collection),
			TokenID:    t.TokenID,
		},
		Owner:    addressFromString(t.Owner),
		Approved: addressFromString(t.Approved),
		URI:      t.URI,
	}
}

// addressFromString is used only for values written by this package.
func addressFromString(str string) domain.Address {
	addr, _ := domain.ParseAddress(str)
	return addr
}
