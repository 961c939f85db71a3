package marketplace_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/nft-marketplace/internal/core/application/marketplace"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/tdex-network/nft-marketplace/internal/core/ports"
	"github.com/tdex-network/nft-marketplace/internal/infrastructure/funds"
	"github.com/tdex-network/nft-marketplace/internal/infrastructure/registry"
	dbbadger "github.com/tdex-network/nft-marketplace/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/nft-marketplace/internal/infrastructure/storage/db/inmemory"
)

var (
	marketAddr = domain.MustParseAddress("0x5fc8d32690cc91d4c39d9d3abcbd16989f875707")
	collection = domain.MustParseAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3")
	seller     = domain.MustParseAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	buyer      = domain.MustParseAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	stranger   = domain.MustParseAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")

	asset0 = domain.AssetKey{Collection: collection, TokenID: 0}
	asset1 = domain.AssetKey{Collection: collection, TokenID: 1}

	initialBalance = uint64(10000)
)

type fixture struct {
	svc      *marketplace.Service
	rm       ports.RepoManager
	registry *registry.Registry
	ledger   *funds.Ledger
	notifier *recorder
}

// newFixture returns a marketplace where seller owns tokens #0 and #1 of
// collection, both approved to the marketplace, and both seller and buyer
// own initialBalance spendable funds.
func newFixture(t *testing.T, rm ports.RepoManager) *fixture {
	ctx := context.Background()

	c := &domain.Collection{Address: collection, Name: "Basic NFT", Creator: seller}
	for i := 0; i < 2; i++ {
		token, err := c.Mint(seller, "ipfs://dog")
		require.NoError(t, err)
		require.NoError(t, token.Approve(seller, marketAddr, false))
		require.NoError(t, rm.TokenRepository().AddToken(ctx, token))
	}
	require.NoError(t, rm.CollectionRepository().AddCollection(ctx, c))

	for _, addr := range []domain.Address{seller, buyer} {
		err := rm.AccountRepository().UpdateAccount(
			ctx, addr, func(a *domain.Account) (*domain.Account, error) {
				return a, a.Deposit(initialBalance)
			},
		)
		require.NoError(t, err)
	}

	reg := registry.NewRegistry(rm)
	ledger := funds.NewLedger(rm, marketAddr)
	notifier := &recorder{}

	svc, err := marketplace.NewService(
		rm, reg.AsOperator(marketAddr), ledger, notifier, marketAddr,
	)
	require.NoError(t, err)

	return &fixture{svc, rm, reg, ledger, notifier}
}

type repoManagerFactory struct {
	name   string
	create func(t *testing.T) ports.RepoManager
}

var repoManagerFactories = []repoManagerFactory{
	{
		name: "inmemory",
		create: func(t *testing.T) ports.RepoManager {
			return inmemory.NewRepoManager()
		},
	},
	{
		name: "badger",
		create: func(t *testing.T) ports.RepoManager {
			rm, err := dbbadger.NewRepoManager("", nil)
			require.NoError(t, err)
			t.Cleanup(rm.Close)
			return rm
		},
	},
}

func (f *fixture) ownerOf(t *testing.T, key domain.AssetKey) domain.Address {
	owner, err := f.registry.OwnerOf(context.Background(), key.Collection, key.TokenID)
	require.NoError(t, err)
	return owner
}

func (f *fixture) balanceOf(t *testing.T, addr domain.Address) uint64 {
	account, err := f.rm.AccountRepository().GetAccount(context.Background(), addr)
	require.NoError(t, err)
	return account.Balance
}

func (f *fixture) proceedsOf(t *testing.T, addr domain.Address) uint64 {
	amount, err := f.svc.GetProceeds(context.Background(), addr)
	require.NoError(t, err)
	return amount
}

func (f *fixture) listingOf(t *testing.T, key domain.AssetKey) *domain.Listing {
	listing, err := f.svc.GetListing(context.Background(), key)
	require.NoError(t, err)
	return listing
}

type recorder struct {
	lock       sync.Mutex
	activities []domain.Activity
}

func (r *recorder) Notify(activities ...domain.Activity) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.activities = append(r.activities, activities...)
}

func (r *recorder) events() []domain.Activity {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]domain.Activity{}, r.activities...)
}

func (r *recorder) types() []domain.ActivityType {
	types := make([]domain.ActivityType, 0)
	for _, a := range r.events() {
		types = append(types, a.Type)
	}
	return types
}

type tokenReceiverFunc func(
	ctx context.Context, operator, from domain.Address, key domain.AssetKey,
) error

func (f tokenReceiverFunc) OnTokenReceived(
	ctx context.Context, operator, from domain.Address, key domain.AssetKey,
) error {
	return f(ctx, operator, from, key)
}

type valueReceiverFunc func(
	ctx context.Context, from domain.Address, amount uint64,
) error

func (f valueReceiverFunc) OnValueReceived(
	ctx context.Context, from domain.Address, amount uint64,
) error {
	return f(ctx, from, amount)
}

type mockAssetRegistry struct {
	mock.Mock
}

func (m *mockAssetRegistry) OwnerOf(
	ctx context.Context, collection domain.Address, tokenID uint64,
) (domain.Address, error) {
	args := m.Called(ctx, collection, tokenID)
	return args.Get(0).(domain.Address), args.Error(1)
}

func (m *mockAssetRegistry) IsApprovedOrOwnerApprovedAll(
	ctx context.Context, collection domain.Address, tokenID uint64,
	operator domain.Address,
) (bool, error) {
	args := m.Called(ctx, collection, tokenID, operator)
	return args.Bool(0), args.Error(1)
}

func (m *mockAssetRegistry) SafeTransferFrom(
	ctx context.Context, collection, from, to domain.Address, tokenID uint64,
) error {
	args := m.Called(ctx, collection, from, to, tokenID)
	return args.Error(0)
}

func marketplaceFilter(
	asset *domain.AssetKey, account domain.Address,
) marketplace.ActivityFilter {
	return marketplace.ActivityFilter{Asset: asset, Account: account}
}
