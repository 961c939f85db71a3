package marketplace_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/tdex-network/nft-marketplace/internal/infrastructure/storage/db/inmemory"
)

func TestWithdraw(t *testing.T) {
	t.Parallel()

	for _, factory := range repoManagerFactories {
		factory := factory
		t.Run(factory.name, func(t *testing.T) {
			f := newFixture(t, factory.create(t))
			ctx := context.Background()

			_, err := f.svc.Withdraw(ctx, seller)
			require.ErrorIs(t, err, domain.ErrNoProceeds)

			require.NoError(t, f.svc.List(ctx, seller, asset0, 100))
			require.NoError(t, f.svc.Buy(ctx, buyer, asset0, 100))

			amount, err := f.svc.Withdraw(ctx, seller)
			require.NoError(t, err)
			require.Equal(t, uint64(100), amount)

			require.Zero(t, f.proceedsOf(t, seller))
			require.Equal(t, initialBalance+100, f.balanceOf(t, seller))
			require.Zero(t, f.balanceOf(t, marketAddr))

			_, err = f.svc.Withdraw(ctx, seller)
			require.ErrorIs(t, err, domain.ErrNoProceeds)

			events := f.notifier.events()
			require.Len(t, events, 3)
			require.True(t, events[2].IsProceedsWithdrawn())
			require.Equal(t, seller, events[2].Seller)
			require.Equal(t, uint64(100), events[2].Price)
		})
	}

	t.Run("failed payout", func(t *testing.T) {
		f := newFixture(t, inmemory.NewRepoManager())
		ctx := context.Background()
		require.NoError(t, f.svc.List(ctx, seller, asset0, 100))
		require.NoError(t, f.svc.Buy(ctx, buyer, asset0, 100))

		f.ledger.RegisterReceiver(seller, valueReceiverFunc(
			func(context.Context, domain.Address, uint64) error {
				return fmt.Errorf("payment refused")
			},
		))

		_, err := f.svc.Withdraw(ctx, seller)
		require.ErrorIs(t, err, domain.ErrTransferFailed)

		require.Equal(t, uint64(100), f.proceedsOf(t, seller))
		require.Equal(t, initialBalance, f.balanceOf(t, seller))
		require.Equal(t, uint64(100), f.balanceOf(t, marketAddr))
		require.Len(t, f.notifier.events(), 2)

		f.ledger.UnregisterReceiver(seller)

		amount, err := f.svc.Withdraw(ctx, seller)
		require.NoError(t, err)
		require.Equal(t, uint64(100), amount)
	})

	t.Run("zero caller", func(t *testing.T) {
		f := newFixture(t, inmemory.NewRepoManager())

		_, err := f.svc.Withdraw(context.Background(), domain.Address{})
		require.ErrorIs(t, err, domain.ErrInvalidAddress)
	})
}

func TestScenarios(t *testing.T) {
	t.Parallel()

	for _, factory := range repoManagerFactories {
		factory := factory
		t.Run(factory.name, func(t *testing.T) {
			t.Run("list, buy and withdraw", func(t *testing.T) {
				f := newFixture(t, factory.create(t))
				ctx := context.Background()

				require.NoError(t, f.svc.List(ctx, seller, asset0, 100))
				require.NoError(t, f.svc.Buy(ctx, buyer, asset0, 100))

				require.Nil(t, f.listingOf(t, asset0))
				require.Equal(t, uint64(100), f.proceedsOf(t, seller))
				require.Equal(t, buyer, f.ownerOf(t, asset0))

				amount, err := f.svc.Withdraw(ctx, seller)
				require.NoError(t, err)
				require.Equal(t, uint64(100), amount)
				require.Zero(t, f.proceedsOf(t, seller))

				require.Equal(t, []domain.ActivityType{
					domain.ActivityTypeItemListed,
					domain.ActivityTypeItemBought,
					domain.ActivityTypeProceedsWithdrawn,
				}, f.notifier.types())
			})

			t.Run("update price before buy", func(t *testing.T) {
				f := newFixture(t, factory.create(t))
				ctx := context.Background()

				require.NoError(t, f.svc.List(ctx, seller, asset0, 100))
				require.NoError(t, f.svc.Update(ctx, seller, asset0, 200))

				err := f.svc.Buy(ctx, buyer, asset0, 100)
				require.ErrorIs(t, err, domain.ErrPriceNotMet)

				require.NoError(t, f.svc.Buy(ctx, buyer, asset0, 200))
				require.Equal(t, uint64(200), f.proceedsOf(t, seller))
			})
		})
	}
}

func TestActivities(t *testing.T) {
	t.Parallel()

	f := newFixture(t, inmemory.NewRepoManager())
	ctx := context.Background()

	require.NoError(t, f.svc.List(ctx, seller, asset0, 100))
	require.NoError(t, f.svc.List(ctx, seller, asset1, 100))
	require.NoError(t, f.svc.Cancel(ctx, seller, asset1))
	require.NoError(t, f.svc.Buy(ctx, buyer, asset0, 100))
	_, err := f.svc.Withdraw(ctx, seller)
	require.NoError(t, err)

	activities, err := f.svc.ListActivities(ctx, marketplaceFilter(nil, domain.Address{}), nil)
	require.NoError(t, err)
	require.Len(t, activities, 5)
	require.Equal(t, f.notifier.events(), activities)

	activities, err = f.svc.ListActivities(ctx, marketplaceFilter(&asset1, domain.Address{}), nil)
	require.NoError(t, err)
	require.Len(t, activities, 2)

	activities, err = f.svc.ListActivities(ctx, marketplaceFilter(nil, buyer), nil)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	require.True(t, activities[0].IsItemBought())
}
