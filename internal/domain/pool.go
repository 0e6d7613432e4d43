package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllCategories is the pool filter value that matches every category.
const AllCategories = "All"

var (
	// ErrPoolNotFound indicates that the pool is not found.
	ErrPoolNotFound = classed(ErrNotFound, "pool not found")
	// ErrInsufficientPoolFunds indicates that the pool cannot cover the amount.
	ErrInsufficientPoolFunds = classed(ErrInsufficientFunds, "amount exceeds the pool amount")
)

// Pool is a named fund that users contribute to and borrow from.
type Pool struct {
	ID        int32           `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreatePoolParams is the input data to create a pool.
type CreatePoolParams struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}
