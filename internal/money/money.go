package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are stored with up to 8 fractional digits. All arithmetic goes
// through decimal.Decimal; binary floats never touch a balance.
const MaxFractionalDigits = 8

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
	ErrNotPositive     = errors.New("amount must be positive")
)

// Parse converts a user-supplied amount string into a decimal, rejecting
// anything with more than 8 fractional digits.
func Parse(input string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if value.Exponent() < -MaxFractionalDigits {
		return decimal.Zero, ErrTooManyDecimals
	}
	return value, nil
}

// ParsePositive is Parse plus a strict positivity check, used for
// transaction and recurring payment amounts.
func ParsePositive(input string) (decimal.Decimal, error) {
	value, err := Parse(input)
	if err != nil {
		return decimal.Zero, err
	}
	if !value.IsPositive() {
		return decimal.Zero, ErrNotPositive
	}
	return value, nil
}

// Format renders a stored amount at full storage precision.
func Format(value decimal.Decimal) string {
	return value.StringFixed(MaxFractionalDigits)
}
