package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ErrLoanRequestNotFound indicates that the loan request is not found.
var ErrLoanRequestNotFound = classed(ErrNotFound, "loan request not found")

// LoanRequest is a pending unfunded ask against a pool.
type LoanRequest struct {
	ID        int64           `json:"id"`
	UserID    int32           `json:"user_id"`
	AccountID int32           `json:"account_id"`
	PoolID    int32           `json:"pool_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateLoanRequestParams is the input data to create a loan request.
type CreateLoanRequestParams struct {
	UserID    int32           `json:"user_id"`
	AccountID int32           `json:"account_id"`
	PoolID    int32           `json:"pool_id"`
	Amount    decimal.Decimal `json:"amount"`
}
