package amount

import (
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "github.com/Travisswop/swop-redeem-token/pkg/errors"
)

// MaxDecimals bounds the precision a pool may declare. Solana mints top out
// at 9, but the codec stays correct up to 18.
const MaxDecimals = 18

// ToBaseUnits converts a human-decimal amount into integer base units by
// shifting 10^decimals and truncating toward zero. decimal.Decimal keeps the
// arithmetic exact; a float64 would already lose base units for 9-decimal
// tokens with six-figure supplies.
func ToBaseUnits(d decimal.Decimal, decimals int32) (int64, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return 0, fmt.Errorf("%w: decimals %d out of range", apperrors.ErrInvalidAmount, decimals)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount %s", apperrors.ErrInvalidAmount, d)
	}
	scaled := d.Shift(decimals).Truncate(0).BigInt()
	if !scaled.IsInt64() {
		return 0, fmt.Errorf("%w: amount %s overflows base units", apperrors.ErrInvalidAmount, d)
	}
	return scaled.Int64(), nil
}

// ToBaseUnitsString parses a decimal string from a request payload and
// converts it. Non-numeric input fails with ErrInvalidAmount.
func ToBaseUnitsString(s string, decimals int32) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a decimal amount", apperrors.ErrInvalidAmount, s)
	}
	return ToBaseUnits(d, decimals)
}

// FromBaseUnits converts integer base units back to a display decimal. Used
// only for presentation, never inside the balance invariant.
func FromBaseUnits(units int64, decimals int32) decimal.Decimal {
	return decimal.New(units, -decimals)
}
