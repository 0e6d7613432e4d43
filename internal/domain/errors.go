// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"fmt"
)

// Error classes. Every specific domain error wraps exactly one of them,
// so callers can branch with errors.Is.
var (
	// ErrValidation indicates malformed or out of range input.
	ErrValidation = errors.New("validation")
	// ErrInsufficientFunds indicates that an account or pool cannot cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNotFound indicates that a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates that the actor may not perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict indicates a uniqueness violation.
	ErrConflict = errors.New("conflict")
)

func classed(class error, msg string) error {
	return fmt.Errorf("%w: %s", class, msg)
}

// Amount validation errors.
var (
	// ErrBlankAmount indicates that no amount was given.
	ErrBlankAmount = classed(ErrValidation, "amount is blank")
	// ErrInvalidAmount indicates a non numeric amount or more than two decimals.
	ErrInvalidAmount = classed(ErrValidation, "amount is not a valid number")
	// ErrNonPositiveAmount indicates zero or negative amount.
	ErrNonPositiveAmount = classed(ErrValidation, "amount must be positive")
	// ErrNegativeAmount indicates negative amount where zero is allowed.
	ErrNegativeAmount = classed(ErrValidation, "amount must not be negative")
	// ErrBlankField indicates that a required text field is empty.
	ErrBlankField = classed(ErrValidation, "all fields are required")
)
