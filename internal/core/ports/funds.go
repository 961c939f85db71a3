package ports

import (
	"context"

	"github.com/tdex-network/nft-marketplace/internal/core/domain"
)

// Funds moves value in and out of the marketplace.
type Funds interface {
	// Collect pulls the given amount from the account into the marketplace.
	Collect(ctx context.Context, from domain.Address, amount uint64) error
	// Send releases the given amount from the marketplace to the account.
	// The recipient might be notified and could run arbitrary code, including
	// calling back into the marketplace with the given context.
	Send(ctx context.Context, to domain.Address, amount uint64) error
}

// ValueReceiver is notified whenever some value is sent to the address it's
// registered for. Returning an error rejects the payment.
type ValueReceiver interface {
	OnValueReceived(
		ctx context.Context, from domain.Address, amount uint64,
	) error
}
