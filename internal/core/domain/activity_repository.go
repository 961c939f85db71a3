package domain

import "context"

// ActivityRepository persists the history of the marketplace notifications.
type ActivityRepository interface {
	AddActivities(ctx context.Context, activities ...Activity) error
	// GetActivities returns all activities sorted by timestamp.
	GetActivities(ctx context.Context, page *Page) ([]Activity, error)
	// GetActivitiesForAsset returns the activities related to the given asset.
	GetActivitiesForAsset(
		ctx context.Context, key AssetKey, page *Page,
	) ([]Activity, error)
	// GetActivitiesForAccount returns the activities where the given account
	// is either the seller or the buyer.
	GetActivitiesForAccount(
		ctx context.Context, account Address, page *Page,
	) ([]Activity, error)
}
