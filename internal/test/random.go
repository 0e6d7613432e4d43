package test

import (
	"time"

	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/pkg/randompkg"
	"github.com/shopspring/decimal"
)

// RandomUser returns random user.
func RandomUser() domain.User {
	return domain.User{
		ID:        randompkg.IntBetween(1, 1000),
		FirstName: randompkg.String(6),
		LastName:  randompkg.String(8),
		Username:  randompkg.Username(),
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

// RandomAccount returns random account owned by the given user.
func RandomAccount(userID int32) domain.Account {
	return domain.Account{
		ID:        randompkg.IntBetween(1, 100),
		UserID:    userID,
		Name:      domain.DefaultAccountName,
		Number:    randompkg.AccountNumber(),
		Balance:   randompkg.MoneyBetween(1000, 10_000),
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

// RandomPool returns random pool.
func RandomPool() domain.Pool {
	return domain.Pool{
		ID:        randompkg.IntBetween(1, 100),
		Name:      randompkg.String(10),
		Category:  randompkg.Category(),
		Amount:    randompkg.MoneyBetween(1000, 10_000),
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

// RandomLoanRequest returns random loan request from the given account to the given pool.
func RandomLoanRequest(account domain.Account, poolID int32) domain.LoanRequest {
	return domain.LoanRequest{
		ID:        int64(randompkg.IntBetween(1, 100)),
		UserID:    account.UserID,
		AccountID: account.ID,
		PoolID:    poolID,
		Amount:    randompkg.MoneyBetween(1, 1000),
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

// RandomLoan returns random fresh loan of the given user.
func RandomLoan(userID, poolID int32) domain.Loan {
	p := randompkg.MoneyBetween(1, 1000)
	approved := time.Now().Truncate(time.Second).UTC()

	return domain.Loan{
		ID:              int64(randompkg.IntBetween(1, 100)),
		UserID:          userID,
		PoolID:          poolID,
		PrincipalAmount: p,
		AmountAccrued:   decimal.Zero,
		AmountPaid:      decimal.Zero,
		AmountDue:       p,
		InterestRate:    decimal.NewFromInt(domain.DefaultInterestRate),
		DateApproved:    approved,
		DateDue:         approved.AddDate(1, 0, 0),
	}
}
