package domain

import "math"

// Proceeds is the balance owed to an account from completed sales.
type Proceeds struct {
	Owner  Address
	Amount uint64
}

// Credit adds the given amount to the balance. The sum saturates at
// math.MaxUint64 instead of wrapping around.
func (p *Proceeds) Credit(amount uint64) {
	if amount > math.MaxUint64-p.Amount {
		p.Amount = math.MaxUint64
		return
	}
	p.Amount += amount
}

// TakeAll resets the balance to zero and returns the amount it held.
// A zero balance cannot be taken.
func (p *Proceeds) TakeAll() (uint64, error) {
	if p.Amount == 0 {
		return 0, ErrNoProceeds
	}
	amount := p.Amount
	p.Amount = 0
	return amount, nil
}
