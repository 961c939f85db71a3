package registry_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/tdex-network/nft-marketplace/internal/core/ports"
	"github.com/tdex-network/nft-marketplace/internal/infrastructure/registry"
	"github.com/tdex-network/nft-marketplace/internal/infrastructure/storage/db/inmemory"
)

var (
	collection = domain.MustParseAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3")
	market     = domain.MustParseAddress("0x5fc8d32690cc91d4c39d9d3abcbd16989f875707")
	alice      = domain.MustParseAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	bob        = domain.MustParseAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
)

type receiverFunc func(
	ctx context.Context, operator, from domain.Address, key domain.AssetKey,
) error

func (f receiverFunc) OnTokenReceived(
	ctx context.Context, operator, from domain.Address, key domain.AssetKey,
) error {
	return f(ctx, operator, from, key)
}

func newRegistry(t *testing.T) (*registry.Registry, ports.RepoManager) {
	repoManager := inmemory.NewRepoManager()
	ctx := context.Background()

	c := &domain.Collection{Address: collection, Name: "Dogs", Creator: alice}
	token, err := c.Mint(alice, "ipfs://dog")
	require.NoError(t, err)
	require.NoError(t, repoManager.CollectionRepository().AddCollection(ctx, c))
	require.NoError(t, repoManager.TokenRepository().AddToken(ctx, token))

	return registry.NewRegistry(repoManager), repoManager
}

func TestOwnerOf(t *testing.T) {
	t.Parallel()

	reg, _ := newRegistry(t)
	ctx := context.Background()

	owner, err := reg.OwnerOf(ctx, collection, 0)
	require.NoError(t, err)
	require.Equal(t, alice, owner)

	_, err = reg.OwnerOf(ctx, collection, 1)
	require.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestApprovals(t *testing.T) {
	t.Parallel()

	reg, rm := newRegistry(t)
	ctx := context.Background()
	key := domain.AssetKey{Collection: collection, TokenID: 0}

	ok, err := reg.IsApprovedOrOwnerApprovedAll(ctx, collection, 0, market)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = reg.IsApprovedOrOwnerApprovedAll(ctx, collection, 0, alice)
	require.NoError(t, err)
	require.True(t, ok)

	err = rm.TokenRepository().UpdateToken(
		ctx, key, func(tk *domain.Token) (*domain.Token, error) {
			return tk, tk.Approve(alice, market, false)
		},
	)
	require.NoError(t, err)

	ok, err = reg.IsApprovedOrOwnerApprovedAll(ctx, collection, 0, market)
	require.NoError(t, err)
	require.True(t, ok)

	err = rm.TokenRepository().SetApprovalForAll(ctx, domain.OperatorApproval{
		Collection: collection, Owner: alice, Operator: bob, Approved: true,
	})
	require.NoError(t, err)

	ok, err = reg.IsApprovedOrOwnerApprovedAll(ctx, collection, 0, bob)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSafeTransferFrom(t *testing.T) {
	t.Parallel()

	t.Run("not approved operator", func(t *testing.T) {
		reg, _ := newRegistry(t)
		ctx := context.Background()

		err := reg.AsOperator(market).SafeTransferFrom(ctx, collection, alice, bob, 0)
		require.ErrorIs(t, err, registry.ErrTransferNotAllowed)

		owner, err := reg.OwnerOf(ctx, collection, 0)
		require.NoError(t, err)
		require.Equal(t, alice, owner)
	})

	t.Run("approved operator", func(t *testing.T) {
		reg, rm := newRegistry(t)
		ctx := context.Background()

		err := rm.TokenRepository().SetApprovalForAll(ctx, domain.OperatorApproval{
			Collection: collection, Owner: alice, Operator: market, Approved: true,
		})
		require.NoError(t, err)

		var notified bool
		reg.RegisterReceiver(bob, receiverFunc(
			func(_ context.Context, operator, from domain.Address, key domain.AssetKey) error {
				require.Equal(t, market, operator)
				require.Equal(t, alice, from)
				require.Equal(t, uint64(0), key.TokenID)
				notified = true
				return nil
			},
		))

		err = reg.AsOperator(market).SafeTransferFrom(ctx, collection, alice, bob, 0)
		require.NoError(t, err)
		require.True(t, notified)

		owner, err := reg.OwnerOf(ctx, collection, 0)
		require.NoError(t, err)
		require.Equal(t, bob, owner)

		// The old owner's operator can no longer move the token.
		err = reg.AsOperator(market).SafeTransferFrom(ctx, collection, bob, alice, 0)
		require.ErrorIs(t, err, registry.ErrTransferNotAllowed)
	})

	t.Run("wrong from", func(t *testing.T) {
		reg, _ := newRegistry(t)
		ctx := context.Background()

		err := reg.AsOperator(alice).SafeTransferFrom(ctx, collection, bob, alice, 0)
		require.ErrorIs(t, err, domain.ErrNotOwner)
	})

	t.Run("rejected by recipient", func(t *testing.T) {
		reg, _ := newRegistry(t)
		ctx := context.Background()

		reg.RegisterReceiver(bob, receiverFunc(
			func(context.Context, domain.Address, domain.Address, domain.AssetKey) error {
				return fmt.Errorf("no thanks")
			},
		))

		err := reg.AsOperator(alice).SafeTransferFrom(ctx, collection, alice, bob, 0)
		require.ErrorIs(t, err, registry.ErrTransferRejected)

		owner, err := reg.OwnerOf(ctx, collection, 0)
		require.NoError(t, err)
		require.Equal(t, alice, owner)
	})
}
