package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contribution is an immutable record of money moved from an account into a pool.
type Contribution struct {
	ID        int64           `json:"id"`
	UserID    int32           `json:"user_id"`
	PoolID    int32           `json:"pool_id"`
	AccountID int32           `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateContributionParams is the input data for the contribution transaction.
type CreateContributionParams struct {
	UserID    int32           `json:"user_id"`
	PoolID    int32           `json:"pool_id"`
	AccountID int32           `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// ContributionTxResult is the result of the contribution transaction.
type ContributionTxResult struct {
	Contribution Contribution `json:"contribution"`
	Pool         Pool         `json:"pool"`
	Account      Account      `json:"account"`
}
