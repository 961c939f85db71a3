package ports

import (
	"context"

	"github.com/tdex-network/nft-marketplace/internal/core/domain"
)

// RepoManager interface defines the methods to access the repositories and to
// run read/write operations on them as a single unit.
type RepoManager interface {
	ListingRepository() domain.ListingRepository
	ProceedsRepository() domain.ProceedsRepository
	ActivityRepository() domain.ActivityRepository
	CollectionRepository() domain.CollectionRepository
	TokenRepository() domain.TokenRepository
	AccountRepository() domain.AccountRepository

	// RunTransaction runs the handler in a transaction scoped to the returned
	// context. If the given context already carries a transaction, the handler
	// joins it and the changes are committed (or discarded) only by the
	// outermost call. The transaction is discarded if the handler returns an
	// error or panics.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}
