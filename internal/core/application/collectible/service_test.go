package collectible_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/nft-marketplace/internal/core/application/collectible"
	"github.com/tdex-network/nft-marketplace/internal/core/application/marketplace"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/tdex-network/nft-marketplace/internal/core/ports"
	"github.com/tdex-network/nft-marketplace/internal/infrastructure/funds"
	"github.com/tdex-network/nft-marketplace/internal/infrastructure/registry"
	"github.com/tdex-network/nft-marketplace/internal/infrastructure/storage/db/inmemory"
)

var (
	ctx        = context.Background()
	marketAddr = domain.MustParseAddress("0x5fc8d32690cc91d4c39d9d3abcbd16989f875707")
	creator    = domain.MustParseAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	operator   = domain.MustParseAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	stranger   = domain.MustParseAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
)

func newServices(t *testing.T) (*collectible.Service, *marketplace.Service, ports.RepoManager) {
	rm := inmemory.NewRepoManager()
	reg := registry.NewRegistry(rm)
	market, err := marketplace.NewService(
		rm, reg.AsOperator(marketAddr), funds.NewLedger(rm, marketAddr), nil,
		marketAddr,
	)
	require.NoError(t, err)

	svc, err := collectible.NewService(rm, market)
	require.NoError(t, err)
	return svc, market, rm
}

func TestCreateCollectionAndMint(t *testing.T) {
	t.Parallel()

	svc, _, _ := newServices(t)

	_, err := svc.CreateCollection(ctx, creator, "", "DOG")
	require.ErrorIs(t, err, domain.ErrCollectionInvalidName)
	_, err = svc.CreateCollection(ctx, domain.Address{}, "Dogie", "DOG")
	require.ErrorIs(t, err, domain.ErrInvalidAddress)

	c, err := svc.CreateCollection(ctx, creator, "Dogie", "DOG")
	require.NoError(t, err)
	require.False(t, c.Address.IsZero())
	require.Equal(t, creator, c.Creator)
	parsed, err := domain.ParseAddress(c.Address.String())
	require.NoError(t, err)
	require.Equal(t, c.Address, parsed)

	other, err := svc.CreateCollection(ctx, creator, "Dogie", "DOG")
	require.NoError(t, err)
	require.NotEqual(t, c.Address, other.Address)

	collections, err := svc.ListCollections(ctx)
	require.NoError(t, err)
	require.Len(t, collections, 2)

	for i := 0; i < 3; i++ {
		token, err := svc.Mint(ctx, creator, c.Address, "ipfs://dog")
		require.NoError(t, err)
		require.Equal(t, uint64(i), token.Key.TokenID)
		require.Equal(t, creator, token.Owner)
	}
	token, err := svc.Mint(ctx, stranger, c.Address, "ipfs://cat")
	require.NoError(t, err)
	require.Equal(t, uint64(3), token.Key.TokenID)

	got, err := svc.GetCollection(ctx, c.Address)
	require.NoError(t, err)
	require.Equal(t, uint64(4), got.NextTokenID)

	tokens, err := svc.ListTokensByOwner(ctx, c.Address, creator)
	require.NoError(t, err)
	require.Len(t, tokens, 3)

	_, err = svc.Mint(ctx, creator, stranger, "ipfs://dog")
	require.ErrorIs(t, err, domain.ErrCollectionNotFound)

	_, err = svc.Mint(ctx, domain.Address{}, c.Address, "ipfs://dog")
	require.ErrorIs(t, err, domain.ErrInvalidAddress)
	// A failed mint does not consume a token id.
	got, err = svc.GetCollection(ctx, c.Address)
	require.NoError(t, err)
	require.Equal(t, uint64(4), got.NextTokenID)
}

func TestApprovals(t *testing.T) {
	t.Parallel()

	svc, _, rm := newServices(t)
	c, err := svc.CreateCollection(ctx, creator, "Dogie", "DOG")
	require.NoError(t, err)
	token, err := svc.Mint(ctx, creator, c.Address, "ipfs://dog")
	require.NoError(t, err)

	err = svc.Approve(ctx, stranger, token.Key, operator)
	require.ErrorIs(t, err, domain.ErrNotOwner)

	err = svc.Approve(ctx, creator, domain.AssetKey{Collection: c.Address, TokenID: 9}, operator)
	require.ErrorIs(t, err, domain.ErrTokenNotFound)

	err = svc.Approve(ctx, creator, token.Key, operator)
	require.NoError(t, err)
	got, err := svc.GetToken(ctx, token.Key)
	require.NoError(t, err)
	require.Equal(t, operator, got.Approved)

	// Revoke.
	err = svc.Approve(ctx, creator, token.Key, domain.Address{})
	require.NoError(t, err)
	got, err = svc.GetToken(ctx, token.Key)
	require.NoError(t, err)
	require.True(t, got.Approved.IsZero())

	err = svc.SetApprovalForAll(ctx, creator, c.Address, creator, true)
	require.ErrorIs(t, err, domain.ErrInvalidAddress)
	err = svc.SetApprovalForAll(ctx, creator, stranger, operator, true)
	require.ErrorIs(t, err, domain.ErrCollectionNotFound)

	err = svc.SetApprovalForAll(ctx, creator, c.Address, operator, true)
	require.NoError(t, err)
	approved, err := rm.TokenRepository().IsApprovedForAll(ctx, c.Address, creator, operator)
	require.NoError(t, err)
	require.True(t, approved)

	// An operator approved for all can approve single tokens.
	err = svc.Approve(ctx, operator, token.Key, stranger)
	require.NoError(t, err)

	err = svc.SetApprovalForAll(ctx, creator, c.Address, operator, false)
	require.NoError(t, err)
	err = svc.Approve(ctx, operator, token.Key, operator)
	require.ErrorIs(t, err, domain.ErrNotOwner)
}

func TestMintAndList(t *testing.T) {
	t.Parallel()

	svc, market, _ := newServices(t)
	c, err := svc.CreateCollection(ctx, creator, "Dogie", "DOG")
	require.NoError(t, err)

	_, err = svc.MintAndList(ctx, creator, c.Address, "ipfs://dog", 0)
	require.ErrorIs(t, err, domain.ErrPriceZero)

	token, err := svc.MintAndList(ctx, creator, c.Address, "ipfs://dog", 1000)
	require.NoError(t, err)
	require.Equal(t, marketAddr, token.Approved)

	listing, err := market.GetListing(ctx, token.Key)
	require.NoError(t, err)
	require.NotNil(t, listing)
	require.Equal(t, creator, listing.Seller)
	require.Equal(t, uint64(1000), listing.Price)

	_, err = svc.MintAndList(ctx, creator, stranger, "ipfs://dog", 1000)
	require.ErrorIs(t, err, domain.ErrCollectionNotFound)
}
