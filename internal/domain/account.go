package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultAccountName is the name of the account opened on sign up.
const DefaultAccountName = "Checking"

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = classed(ErrNotFound, "account not found")
	// ErrAccountOwnerMismatch indicates that the account belongs to another user.
	ErrAccountOwnerMismatch = classed(ErrForbidden, "account doesn't belong to the user")
	// ErrAccountNumberExists indicates a collision of generated account numbers.
	ErrAccountNumberExists = classed(ErrConflict, "account number already exists")
	// ErrOwnerNotFound indicates that the owner for the account is not found.
	ErrOwnerNotFound = classed(ErrNotFound, "owner not found")
	// ErrInsufficientBalance indicates that the account does not have sufficient balance.
	ErrInsufficientBalance = classed(ErrInsufficientFunds, "amount exceeds the account balance")
)

// Account is a user bank account.
type Account struct {
	ID        int32           `json:"id"`
	UserID    int32           `json:"user_id"`
	Name      string          `json:"name"`
	Number    int64           `json:"number"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateAccountParams is the input data to open an account.
type CreateAccountParams struct {
	UserID  int32           `json:"user_id"`
	Name    string          `json:"name"`
	Number  int64           `json:"number"`
	Balance decimal.Decimal `json:"balance"`
}
