package domain

import "math"

// Account holds the spendable balance of an address in the local value
// ledger.
type Account struct {
	Owner   Address
	Balance uint64
}

func (a *Account) Deposit(amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	if amount > math.MaxUint64-a.Balance {
		return ErrBalanceOverflow
	}
	a.Balance += amount
	return nil
}

func (a *Account) Withdraw(amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	if amount > a.Balance {
		return ErrInsufficientFunds
	}
	a.Balance -= amount
	return nil
}
