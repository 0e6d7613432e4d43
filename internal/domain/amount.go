package domain

import (
	"errors"

	"github.com/go-petr/microlend/pkg/moneypkg"
	"github.com/shopspring/decimal"
)

// ParsePositiveAmount parses a user supplied amount that must be greater than zero.
func ParsePositiveAmount(s string) (decimal.Decimal, error) {
	d, err := parseAmount(s)
	if err != nil {
		return d, err
	}

	if !d.IsPositive() {
		return decimal.Zero, ErrNonPositiveAmount
	}

	return d, nil
}

// ParseNonNegativeAmount parses a user supplied amount that may be zero.
func ParseNonNegativeAmount(s string) (decimal.Decimal, error) {
	d, err := parseAmount(s)
	if err != nil {
		return d, err
	}

	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}

	return d, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := moneypkg.Parse(s)
	if err != nil {
		if errors.Is(err, moneypkg.ErrBlank) {
			return decimal.Zero, ErrBlankAmount
		}

		return decimal.Zero, ErrInvalidAmount
	}

	return d, nil
}
