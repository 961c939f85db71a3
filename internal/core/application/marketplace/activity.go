package marketplace

import (
	"context"

	"github.com/tdex-network/nft-marketplace/internal/core/domain"
)

// ActivityFilter narrows the activities returned by ListActivities. The asset
// filter takes precedence over the account one.
type ActivityFilter struct {
	Asset   *domain.AssetKey
	Account domain.Address
}

// ListActivities returns the history of the marketplace notifications.
func (s *Service) ListActivities(
	ctx context.Context, filter ActivityFilter, page *domain.Page,
) ([]domain.Activity, error) {
	res, err := s.view(ctx, func(ctx context.Context) (interface{}, error) {
		repo := s.repoManager.ActivityRepository()
		switch {
		case filter.Asset != nil:
			return repo.GetActivitiesForAsset(ctx, *filter.Asset, page)
		case !filter.Account.IsZero():
			return repo.GetActivitiesForAccount(ctx, filter.Account, page)
		default:
			return repo.GetActivities(ctx, page)
		}
	})
	if err != nil {
		return nil, err
	}
	return res.([]domain.Activity), nil
}
