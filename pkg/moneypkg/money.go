// Package moneypkg parses and formats monetary amounts.
package moneypkg

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Precision is the number of decimal places allowed in user supplied amounts.
const Precision = 2

var (
	// ErrBlank indicates that no amount was supplied.
	ErrBlank = errors.New("amount is blank")
	// ErrNotNumeric indicates that the amount is not a plain decimal number.
	ErrNotNumeric = errors.New("amount is not a valid number")
	// ErrTooPrecise indicates more than two decimal places.
	ErrTooPrecise = errors.New("amount has more than two decimal places")
)

// Parse converts a user supplied amount into a decimal.
//
// Only plain decimal notation is accepted: no exponent, no thousands
// separators, no currency sign.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrBlank
	}

	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrNotNumeric
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrNotNumeric
	}

	if d.Exponent() < -Precision && !d.Equal(d.Truncate(Precision)) {
		return decimal.Zero, ErrTooPrecise
	}

	return d, nil
}

// Format renders the amount as a dollar string with thousands separators, e.g. $1,500.00.
func Format(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	s := d.StringFixed(Precision)
	whole, frac := s[:len(s)-Precision-1], s[len(s)-Precision:]

	var sb strings.Builder

	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte(',')
		}

		sb.WriteRune(c)
	}

	return sign + "$" + sb.String() + "." + frac
}

// ValidMoney validates that a string field holds a parsable amount. Blank passes; pair it with required.
var ValidMoney validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	if strings.TrimSpace(s) == "" {
		return true
	}

	_, err := Parse(s)

	return err == nil
}
