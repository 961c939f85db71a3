package inmemory

import "github.com/tdex-network/nft-marketplace/internal/core/domain"

func pageBounds(count int, page *domain.Page) (int, int) {
	start := page.Offset()
	if start > count {
		start = count
	}
	end := start + page.Size
	if end > count {
		end = count
	}
	return start, end
}
