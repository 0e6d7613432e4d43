// Package test provides shared test helpers.
package test

import (
	"context"
	"testing"
	"time"

	"github.com/go-petr/microlend/internal/accountrepo"
	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/internal/loanrepo"
	"github.com/go-petr/microlend/internal/loanrequestrepo"
	"github.com/go-petr/microlend/internal/poolrepo"
	"github.com/go-petr/microlend/internal/userrepo"
	"github.com/go-petr/microlend/pkg/dbpkg"
	"github.com/go-petr/microlend/pkg/passpkg"
	"github.com/go-petr/microlend/pkg/randompkg"
	"github.com/shopspring/decimal"
)

// SeedUser creates random User inside a test transaction.
func SeedUser(t *testing.T, tx dbpkg.SQLInterface) domain.User {
	t.Helper()

	hashedPassword, err := passpkg.Hash(randompkg.String(32))
	if err != nil {
		t.Fatalf("passpkg.Hash(randompkg.String(10)) returned error: %v", err)
	}

	arg := domain.CreateUserParams{
		FirstName:      randompkg.String(6),
		LastName:       randompkg.String(8),
		Username:       randompkg.Username(),
		HashedPassword: hashedPassword,
	}

	userRepo := userrepo.NewTxRepoPGS(tx)
	user, err := userRepo.Create(context.Background(), arg)

	if err != nil {
		t.Fatalf("userRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return user
}

// SeedAccount creates Account with the given balance inside a test transaction.
func SeedAccount(t *testing.T, tx dbpkg.SQLInterface, userID int32, balance string) domain.Account {
	t.Helper()

	accountRepo := accountrepo.NewRepoPGS(tx)

	arg := domain.CreateAccountParams{
		UserID:  userID,
		Name:    domain.DefaultAccountName,
		Number:  randompkg.AccountNumber(),
		Balance: decimal.RequireFromString(balance),
	}

	account, err := accountRepo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("accountRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return account
}

// SeedPool creates Pool of random category with the given amount inside a test transaction.
func SeedPool(t *testing.T, tx dbpkg.SQLInterface, amount string) domain.Pool {
	t.Helper()

	poolRepo := poolrepo.NewRepoPGS(tx)

	arg := domain.CreatePoolParams{
		Name:     randompkg.String(10),
		Category: randompkg.Category(),
		Amount:   decimal.RequireFromString(amount),
	}

	pool, err := poolRepo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("poolRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return pool
}

// SeedLoanRequest creates pending LoanRequest inside a test transaction.
func SeedLoanRequest(t *testing.T, tx dbpkg.SQLInterface, account domain.Account, poolID int32, amount string) domain.LoanRequest {
	t.Helper()

	requestRepo := loanrequestrepo.NewRepoPGS(tx)

	arg := domain.CreateLoanRequestParams{
		UserID:    account.UserID,
		AccountID: account.ID,
		PoolID:    poolID,
		Amount:    decimal.RequireFromString(amount),
	}

	lr, err := requestRepo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("requestRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return lr
}

// SeedLoan creates Loan approved at the given time inside a test transaction.
func SeedLoan(t *testing.T, tx dbpkg.SQLInterface, userID, poolID int32, principal string, approved time.Time) domain.Loan {
	t.Helper()

	loanRepo := loanrepo.NewTxRepoPGS(tx)

	p := decimal.RequireFromString(principal)

	arg := domain.Loan{
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

	loan, err := loanRepo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("loanRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return loan
}
