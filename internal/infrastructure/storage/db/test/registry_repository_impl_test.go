package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
)

func TestRegistryRepositoryImplementations(t *testing.T) {
	for _, rm := range newRepoManagers(t) {
		rm := rm
		t.Run(rm.name, func(t *testing.T) {
			t.Run("testCollections", func(t *testing.T) {
				testCollections(t, rm)
			})
			t.Run("testTokens", func(t *testing.T) {
				testTokens(t, rm)
			})
			t.Run("testApprovalForAll", func(t *testing.T) {
				testApprovalForAll(t, rm)
			})
			t.Run("testAccounts", func(t *testing.T) {
				testAccounts(t, rm)
			})
		})
	}
}

func testCollections(t *testing.T, rm repoManager) {
	ctx := context.Background()
	repo := rm.CollectionRepository()

	collection, err := domain.NewCollection(
		randomAddress(), randomAddress(), "Punks", "PNK",
	)
	require.NoError(t, err)

	_, err = repo.GetCollection(ctx, collection.Address)
	require.ErrorIs(t, err, domain.ErrCollectionNotFound)

	require.NoError(t, repo.AddCollection(ctx, collection))

	err = repo.AddCollection(ctx, collection)
	require.ErrorIs(t, err, domain.ErrCollectionAlreadyExists)

	err = repo.UpdateCollection(
		ctx, collection.Address,
		func(c *domain.Collection) (*domain.Collection, error) {
			c.NextTokenID = 3
			return c, nil
		},
	)
	require.NoError(t, err)

	found, err := repo.GetCollection(ctx, collection.Address)
	require.NoError(t, err)
	require.Equal(t, uint64(3), found.NextTokenID)
	require.Equal(t, collection.Name, found.Name)
	require.Equal(t, collection.Creator, found.Creator)

	all, err := repo.GetAllCollections(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, all)
}

func testTokens(t *testing.T, rm repoManager) {
	ctx := context.Background()
	repo := rm.TokenRepository()
	collection := &domain.Collection{Address: randomAddress(), Name: "Apes"}
	owner := randomAddress()

	for i := 0; i < 3; i++ {
		token, err := collection.Mint(owner, "ipfs://token")
		require.NoError(t, err)
		require.NoError(t, repo.AddToken(ctx, token))
	}

	key := domain.AssetKey{Collection: collection.Address, TokenID: 1}
	token, err := repo.GetToken(ctx, key)
	require.NoError(t, err)
	require.Equal(t, owner, token.Owner)
	require.True(t, token.Approved.IsZero())

	_, err = repo.GetToken(
		ctx, domain.AssetKey{Collection: collection.Address, TokenID: 99},
	)
	require.ErrorIs(t, err, domain.ErrTokenNotFound)

	newOwner := randomAddress()
	err = repo.UpdateToken(
		ctx, key, func(tk *domain.Token) (*domain.Token, error) {
			if err := tk.Transfer(owner, newOwner); err != nil {
				return nil, err
			}
			return tk, nil
		},
	)
	require.NoError(t, err)

	tokens, err := repo.GetTokensByOwner(ctx, collection.Address, owner)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	require.Equal(t, uint64(0), tokens[0].Key.TokenID)
	require.Equal(t, uint64(2), tokens[1].Key.TokenID)

	tokens, err = repo.GetTokensByOwner(ctx, collection.Address, newOwner)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
}

func testApprovalForAll(t *testing.T, rm repoManager) {
	ctx := context.Background()
	repo := rm.TokenRepository()
	collection, owner, operator := randomAddress(), randomAddress(), randomAddress()

	approved, err := repo.IsApprovedForAll(ctx, collection, owner, operator)
	require.NoError(t, err)
	require.False(t, approved)

	err = repo.SetApprovalForAll(ctx, domain.OperatorApproval{
		Collection: collection, Owner: owner, Operator: operator, Approved: true,
	})
	require.NoError(t, err)

	approved, err = repo.IsApprovedForAll(ctx, collection, owner, operator)
	require.NoError(t, err)
	require.True(t, approved)

	approved, err = repo.IsApprovedForAll(ctx, randomAddress(), owner, operator)
	require.NoError(t, err)
	require.False(t, approved)

	err = repo.SetApprovalForAll(ctx, domain.OperatorApproval{
		Collection: collection, Owner: owner, Operator: operator,
	})
	require.NoError(t, err)

	approved, err = repo.IsApprovedForAll(ctx, collection, owner, operator)
	require.NoError(t, err)
	require.False(t, approved)
}

func testAccounts(t *testing.T, rm repoManager) {
	ctx := context.Background()
	repo := rm.AccountRepository()
	owner := randomAddress()

	account, err := repo.GetAccount(ctx, owner)
	require.NoError(t, err)
	require.Zero(t, account.Balance)

	err = repo.UpdateAccount(ctx, owner, func(a *domain.Account) (*domain.Account, error) {
		if err := a.Deposit(1000); err != nil {
			return nil, err
		}
		return a, nil
	})
	require.NoError(t, err)

	err = repo.UpdateAccount(ctx, owner, func(a *domain.Account) (*domain.Account, error) {
		if err := a.Withdraw(5000); err != nil {
			return nil, err
		}
		return a, nil
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	account, err = repo.GetAccount(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), account.Balance)
}
