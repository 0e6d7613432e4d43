package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultInterestRate is the annual rate in percent used when none is given.
const DefaultInterestRate = 2

var (
	// ErrLoanNotFound indicates that the loan is not found.
	ErrLoanNotFound = classed(ErrNotFound, "loan not found")
	// ErrInvalidInterestRate indicates a rate that is not a number in [0, 100].
	ErrInvalidInterestRate = classed(ErrValidation, "interest rate must be a number between 0 and 100")
	// ErrBlankDueDate indicates that no due date was given.
	ErrBlankDueDate = classed(ErrValidation, "due date is blank")
	// ErrInvalidDueDate indicates an unparsable due date or one before approval.
	ErrInvalidDueDate = classed(ErrValidation, "due date must be a date not before today")
)

// Loan is an originated debt accruing simple interest per elapsed day.
type Loan struct {
	ID              int64           `json:"id"`
	UserID          int32           `json:"user_id"`
	PoolID          int32           `json:"pool_id"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	AmountAccrued   decimal.Decimal `json:"amount_accrued"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	AmountDue       decimal.Decimal `json:"amount_due"`
	InterestRate    decimal.Decimal `json:"interest_rate"` // percent per annum
	DateApproved    time.Time       `json:"date_approved"`
	DateDue         time.Time       `json:"date_due"`
}

// OriginateLoanParams is the input data for the origination transaction.
type OriginateLoanParams struct {
	LoanRequestID int64           `json:"loan_request_id"`
	InterestRate  decimal.Decimal `json:"interest_rate"`
	DateApproved  time.Time       `json:"date_approved"`
	DateDue       time.Time       `json:"date_due"`
}

// OriginationTxResult is the result of the origination transaction.
type OriginationTxResult struct {
	Loan Loan `json:"loan"`
	Pool Pool `json:"pool"`
}
