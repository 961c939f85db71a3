package marketplace_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
)

func TestReentrantBuy(t *testing.T) {
	t.Parallel()

	for _, factory := range repoManagerFactories {
		factory := factory
		t.Run(factory.name, func(t *testing.T) {
			f := newFixture(t, factory.create(t))
			ctx := context.Background()
			require.NoError(t, f.svc.List(ctx, seller, asset0, 100))

			var (
				observedListing  *domain.Listing
				observedProceeds uint64
				reentrantErr     error
				calls            int
			)
			// The buyer re-enters the marketplace while receiving the token.
			f.registry.RegisterReceiver(buyer, tokenReceiverFunc(
				func(ctx context.Context, _, _ domain.Address, key domain.AssetKey) error {
					calls++
					var err error
					observedListing, err = f.svc.GetListing(ctx, key)
					if err != nil {
						return err
					}
					observedProceeds, err = f.svc.GetProceeds(ctx, seller)
					if err != nil {
						return err
					}
					reentrantErr = f.svc.Buy(ctx, buyer, key, 100)
					return nil
				},
			))

			err := f.svc.Buy(ctx, buyer, asset0, 100)
			require.NoError(t, err)

			require.Equal(t, 1, calls)
			require.Nil(t, observedListing)
			require.Equal(t, uint64(100), observedProceeds)
			require.ErrorIs(t, reentrantErr, domain.ErrNotListed)

			require.Equal(t, uint64(100), f.proceedsOf(t, seller))
			require.Equal(t, initialBalance-100, f.balanceOf(t, buyer))
			require.Equal(t, buyer, f.ownerOf(t, asset0))
			require.Equal(t, []domain.ActivityType{
				domain.ActivityTypeItemListed,
				domain.ActivityTypeItemBought,
			}, f.notifier.types())
		})
	}
}

func TestReentrantWithdraw(t *testing.T) {
	t.Parallel()

	for _, factory := range repoManagerFactories {
		factory := factory
		t.Run(factory.name, func(t *testing.T) {
			f := newFixture(t, factory.create(t))
			ctx := context.Background()
			require.NoError(t, f.svc.List(ctx, seller, asset0, 100))
			require.NoError(t, f.svc.Buy(ctx, buyer, asset0, 100))

			var (
				observedProceeds uint64
				reentrantErr     error
			)
			// The seller re-enters the marketplace while being paid.
			f.ledger.RegisterReceiver(seller, valueReceiverFunc(
				func(ctx context.Context, _ domain.Address, _ uint64) error {
					var err error
					observedProceeds, err = f.svc.GetProceeds(ctx, seller)
					if err != nil {
						return err
					}
					_, reentrantErr = f.svc.Withdraw(ctx, seller)
					return nil
				},
			))

			amount, err := f.svc.Withdraw(ctx, seller)
			require.NoError(t, err)
			require.Equal(t, uint64(100), amount)

			require.Zero(t, observedProceeds)
			require.ErrorIs(t, reentrantErr, domain.ErrNoProceeds)

			require.Zero(t, f.proceedsOf(t, seller))
			require.Equal(t, initialBalance+100, f.balanceOf(t, seller))
			require.Zero(t, f.balanceOf(t, marketAddr))
		})
	}
}

func TestReentrantOperationsAreCommittedTogether(t *testing.T) {
	t.Parallel()

	f := newFixture(t, factoryByName("inmemory").create(t))
	ctx := context.Background()
	require.NoError(t, f.svc.List(ctx, seller, asset0, 100))
	require.NoError(t, f.svc.List(ctx, seller, asset1, 100))

	// While receiving the payout, the seller cancels its other listing.
	f.ledger.RegisterReceiver(seller, valueReceiverFunc(
		func(ctx context.Context, _ domain.Address, _ uint64) error {
			// Nothing is notified before the outermost operation commits.
			require.Len(t, f.notifier.events(), 3)
			return f.svc.Cancel(ctx, seller, asset1)
		},
	))
	require.NoError(t, f.svc.Buy(ctx, buyer, asset0, 100))

	_, err := f.svc.Withdraw(ctx, seller)
	require.NoError(t, err)

	require.Nil(t, f.listingOf(t, asset1))
	require.Equal(t, []domain.ActivityType{
		domain.ActivityTypeItemListed,
		domain.ActivityTypeItemListed,
		domain.ActivityTypeItemBought,
		domain.ActivityTypeItemCanceled,
		domain.ActivityTypeProceedsWithdrawn,
	}, f.notifier.types())
}

func TestFailedReentrantOperationFailsTheOutermost(t *testing.T) {
	t.Parallel()

	for _, factory := range repoManagerFactories {
		factory := factory
		t.Run(factory.name, func(t *testing.T) {
			f := newFixture(t, factory.create(t))
			ctx := context.Background()
			require.NoError(t, f.svc.List(ctx, seller, asset0, 100))
			require.NoError(t, f.svc.List(ctx, seller, asset1, 100))

			// While receiving asset0, the buyer makes a stranger with no funds
			// buy asset1 and swallows the failure.
			var reentrantErr error
			f.registry.RegisterReceiver(buyer, tokenReceiverFunc(
				func(ctx context.Context, _, _ domain.Address, _ domain.AssetKey) error {
					reentrantErr = f.svc.Buy(ctx, stranger, asset1, 100)
					return nil
				},
			))

			err := f.svc.Buy(ctx, buyer, asset0, 100)
			require.ErrorIs(t, reentrantErr, domain.ErrTransferFailed)
			require.ErrorIs(t, err, domain.ErrTransferFailed)

			require.NotNil(t, f.listingOf(t, asset0))
			require.NotNil(t, f.listingOf(t, asset1))
			require.Zero(t, f.proceedsOf(t, seller))
			require.Equal(t, seller, f.ownerOf(t, asset0))
			require.Equal(t, seller, f.ownerOf(t, asset1))
			require.Equal(t, initialBalance, f.balanceOf(t, buyer))
			require.Len(t, f.notifier.events(), 2)
		})
	}
}

func TestRejectedReentrantOperationDoesNotAffectTheOutermost(t *testing.T) {
	t.Parallel()

	f := newFixture(t, factoryByName("inmemory").create(t))
	ctx := context.Background()
	require.NoError(t, f.svc.List(ctx, seller, asset0, 100))

	var reentrantErr error
	f.registry.RegisterReceiver(buyer, tokenReceiverFunc(
		func(ctx context.Context, _, _ domain.Address, _ domain.AssetKey) error {
			reentrantErr = f.svc.Update(ctx, buyer, asset1, 0)
			return nil
		},
	))

	require.NoError(t, f.svc.Buy(ctx, buyer, asset0, 100))
	require.ErrorIs(t, reentrantErr, domain.ErrPriceZero)
	require.Equal(t, buyer, f.ownerOf(t, asset0))
}

func factoryByName(name string) repoManagerFactory {
	for _, f := range repoManagerFactories {
		if f.name == name {
			return f
		}
	}
	return repoManagerFactories[0]
}

func TestCallWithFreshContextWaitsForTheOngoingOperation(t *testing.T) {
	t.Parallel()

	for _, factory := range repoManagerFactories {
		factory := factory
		t.Run(factory.name, func(t *testing.T) {
			f := newFixture(t, factory.create(t))
			ctx := context.Background()
			require.NoError(t, f.svc.List(ctx, seller, asset0, 100))

			type result struct {
				proceeds uint64
				err      error
			}
			resultCh := make(chan result, 1)
			var returnedEarly bool

			// Without the received context the call is not recognised as
			// re-entrant and must wait for the buy to complete.
			f.registry.RegisterReceiver(buyer, tokenReceiverFunc(
				func(context.Context, domain.Address, domain.Address, domain.AssetKey) error {
					go func() {
						proceeds, err := f.svc.GetProceeds(context.Background(), seller)
						resultCh <- result{proceeds, err}
					}()
					select {
					case <-resultCh:
						returnedEarly = true
					case <-time.After(100 * time.Millisecond):
					}
					return nil
				},
			))

			require.NoError(t, f.svc.Buy(ctx, buyer, asset0, 100))
			require.False(t, returnedEarly)

			res := <-resultCh
			require.NoError(t, res.err)
			require.Equal(t, uint64(100), res.proceeds)
		})
	}
}
