package domain

import "context"

// ProceedsRepository is the abstraction for any kind of database intended to
// persist the balances owed to sellers.
type ProceedsRepository interface {
	// GetProceeds returns the balance of the given account, zero if unknown.
	GetProceeds(ctx context.Context, owner Address) (uint64, error)
	// CreditProceeds adds amount to the balance of the given account.
	CreditProceeds(ctx context.Context, owner Address, amount uint64) error
	// TakeAllProceeds zeroes the balance of the account and returns what it
	// held. It fails with ErrNoProceeds for empty balances.
	TakeAllProceeds(ctx context.Context, owner Address) (uint64, error)
}
