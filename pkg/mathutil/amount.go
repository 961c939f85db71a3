package mathutil

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// DefaultPrecision is the number of decimals of an amount expressed in base
// units, like for satoshis.
const DefaultPrecision = 8

var (
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNegativeAmount ...
	ErrNegativeAmount = errors.New("amount must not be negative")
	// ErrTooManyDecimals ...
	ErrTooManyDecimals = errors.New("amount has too many decimals")
	// ErrAmountOverflow ...
	ErrAmountOverflow = errors.New("amount overflows")

	maxUint64 = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)
)

// ToBaseUnits converts a human readable amount like "1.5" into base units for
// the given precision, ie. 150000000 for precision 8.
func ToBaseUnits(amount string, precision uint) (uint64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	if d.IsNegative() {
		return 0, ErrNegativeAmount
	}

	units := d.Shift(int32(precision))
	if !units.Equal(units.Truncate(0)) {
		return 0, ErrTooManyDecimals
	}
	if units.GreaterThan(maxUint64) {
		return 0, ErrAmountOverflow
	}
	return units.BigInt().Uint64(), nil
}

// FromBaseUnits converts an amount in base units into its human readable
// form for the given precision.
func FromBaseUnits(amount uint64, precision uint) string {
	d := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(precision))
	return d.String()
}
