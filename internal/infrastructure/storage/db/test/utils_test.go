package db_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/tdex-network/nft-marketplace/internal/core/ports"
	dbbadger "github.com/tdex-network/nft-marketplace/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/nft-marketplace/internal/infrastructure/storage/db/inmemory"
)

type repoManager struct {
	name string
	ports.RepoManager
}

func newRepoManagers(t *testing.T) []repoManager {
	badgerRepoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	t.Cleanup(badgerRepoManager.Close)

	return []repoManager{
		{"badger", badgerRepoManager},
		{"inmemory", inmemory.NewRepoManager()},
	}
}

func randomAddress() domain.Address {
	var addr domain.Address
	//nolint
	rand.Read(addr[:])
	return addr
}

func makeRandomListing(collection, seller domain.Address, tokenID uint64) *domain.Listing {
	listing, _ := domain.NewListing(
		domain.AssetKey{Collection: collection, TokenID: tokenID}, seller, 100,
	)
	return listing
}

func newPage(number, size int) *domain.Page {
	page := domain.NewPage(number, size)
	return &page
}
