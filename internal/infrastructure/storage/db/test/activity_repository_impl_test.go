package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
)

func TestActivityRepositoryImplementations(t *testing.T) {
	for _, rm := range newRepoManagers(t) {
		rm := rm
		t.Run(rm.name, func(t *testing.T) {
			testAddAndListActivities(t, rm)
		})
	}
}

func testAddAndListActivities(t *testing.T, rm repoManager) {
	ctx := context.Background()
	repo := rm.ActivityRepository()
	seller := randomAddress()
	buyer := randomAddress()
	listing := makeRandomListing(randomAddress(), seller, 1)

	listed := domain.NewItemListedActivity(*listing)
	bought := domain.NewItemBoughtActivity(*listing, buyer, 120)
	withdrawn := domain.NewProceedsWithdrawnActivity(seller, 120)

	err := repo.AddActivities(ctx, listed, bought, withdrawn)
	require.NoError(t, err)

	// Duplicates are ignored.
	err = repo.AddActivities(ctx, listed)
	require.NoError(t, err)

	activities, err := repo.GetActivitiesForAccount(ctx, seller, nil)
	require.NoError(t, err)
	require.Len(t, activities, 3)
	require.Equal(t, listed.ID, activities[0].ID)
	require.Equal(t, bought.ID, activities[1].ID)
	require.Equal(t, withdrawn.ID, activities[2].ID)
	require.Exactly(t, bought, activities[1])

	activities, err = repo.GetActivitiesForAccount(ctx, buyer, nil)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	require.True(t, activities[0].IsItemBought())

	activities, err = repo.GetActivitiesForAsset(ctx, listing.Key, nil)
	require.NoError(t, err)
	require.Len(t, activities, 2)

	for i := 1; i <= 2; i++ {
		activities, err = repo.GetActivitiesForAsset(ctx, listing.Key, newPage(i, 1))
		require.NoError(t, err)
		require.Len(t, activities, 1)
	}
	require.True(t, activities[0].IsItemBought())

	activities, err = repo.GetActivitiesForAsset(ctx, listing.Key, newPage(3, 1))
	require.NoError(t, err)
	require.Empty(t, activities)

	activities, err = repo.GetActivitiesForAccount(ctx, seller, newPage(2, 2))
	require.NoError(t, err)
	require.Len(t, activities, 1)
	require.True(t, activities[0].IsProceedsWithdrawn())

	activities, err = repo.GetActivities(ctx, nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(activities), 3)
}
