// Package accountrepo manages repository layer of bank accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/pkg/dbpkg"
	"github.com/go-petr/microlend/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const columns = `id, user_id, name, number, balance, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner, a *domain.Account) error {
	return row.Scan(
		&a.ID,
		&a.UserID,
		&a.Name,
		&a.Number,
		&a.Balance,
		&a.CreatedAt,
	)
}

const addBalanceQuery = `
UPDATE bank_accounts
SET balance = balance + $1
WHERE id = $2
RETURNING ` + columns

// AddBalance changes the account's balance and returns the changed account.
//
// A negative amount that would take the balance below zero is rejected by
// the bank_accounts_balance_check constraint.
func (r *RepoPGS) AddBalance(ctx context.Context, amount decimal.Decimal, id int32) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addBalanceQuery, amount, id)

	var a domain.Account

	err := scan(row, &a)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "bank_accounts_balance_check" {
				return a, domain.ErrInsufficientBalance
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const createQuery = `
INSERT INTO
    bank_accounts (user_id, name, number, balance)
VALUES
    ($1, $2, $3, $4)
RETURNING ` + columns

// Create creates the account and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.UserID, arg.Name, arg.Number, arg.Balance)

	var a domain.Account

	err := scan(row, &a)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "bank_accounts_user_id_fkey":
				return a, domain.ErrOwnerNotFound
			case "bank_accounts_number_key":
				return a, domain.ErrAccountNumberExists
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const numberExistsQuery = `
SELECT EXISTS (SELECT 1 FROM bank_accounts WHERE number = $1)
`

// NumberExists reports whether an account with the given number exists.
func (r *RepoPGS) NumberExists(ctx context.Context, number int64) (bool, error) {
	l := zerolog.Ctx(ctx)

	var exists bool

	if err := r.db.QueryRowContext(ctx, numberExistsQuery, number).Scan(&exists); err != nil {
		l.Error().Err(err).Send()
		return false, errorspkg.ErrInternal
	}

	return exists, nil
}

const getQuery = `
SELECT ` + columns + `
FROM bank_accounts
WHERE id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int32) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var a domain.Account

	err := scan(row, &a)
	if err != nil {
		if err == sql.ErrNoRows {
			l.Info().Err(err).Int32("account_id", id).Send()
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listQuery = `
SELECT ` + columns + `
FROM bank_accounts
WHERE user_id = $1
ORDER BY id
`

// List returns all accounts of the given user.
func (r *RepoPGS) List(ctx context.Context, userID int32) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, userID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		var a domain.Account
		if err := scan(rows, &a); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
