// Package loanrequestrepo manages repository layer of loan requests.
package loanrequestrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/pkg/dbpkg"
	"github.com/go-petr/microlend/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates loan request repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns loan request RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const columns = `id, user_id, account_id, pool_id, amount, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner, lr *domain.LoanRequest) error {
	return row.Scan(
		&lr.ID,
		&lr.UserID,
		&lr.AccountID,
		&lr.PoolID,
		&lr.Amount,
		&lr.CreatedAt,
	)
}

const createQuery = `
INSERT INTO
    loan_requests (user_id, account_id, pool_id, amount)
VALUES
    ($1, $2, $3, $4)
RETURNING ` + columns

// Create creates the loan request and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateLoanRequestParams) (domain.LoanRequest, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.UserID, arg.AccountID, arg.PoolID, arg.Amount)

	var lr domain.LoanRequest

	err := scan(row, &lr)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "loan_requests_user_id_fkey":
				return lr, domain.ErrUserNotFound
			case "loan_requests_account_id_fkey":
				return lr, domain.ErrAccountNotFound
			case "loan_requests_pool_id_fkey":
				return lr, domain.ErrPoolNotFound
			case "loan_requests_amount_check":
				return lr, domain.ErrNonPositiveAmount
			}
		}

		return lr, errorspkg.ErrInternal
	}

	return lr, nil
}

const getQuery = `
SELECT ` + columns + `
FROM loan_requests
WHERE id = $1
`

const getForUpdateQuery = getQuery + `FOR UPDATE`

// Get returns the loan request with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.LoanRequest, error) {
	return r.get(ctx, getQuery, id)
}

// GetForUpdate returns the loan request and locks its row until the transaction ends.
func (r *RepoPGS) GetForUpdate(ctx context.Context, id int64) (domain.LoanRequest, error) {
	return r.get(ctx, getForUpdateQuery, id)
}

func (r *RepoPGS) get(ctx context.Context, query string, id int64) (domain.LoanRequest, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, query, id)

	var lr domain.LoanRequest

	err := scan(row, &lr)
	if err != nil {
		if err == sql.ErrNoRows {
			l.Info().Err(err).Int64("loan_request_id", id).Send()
			return lr, domain.ErrLoanRequestNotFound
		}

		l.Error().Err(err).Send()

		return lr, errorspkg.ErrInternal
	}

	return lr, nil
}

const listQuery = `
SELECT ` + columns + `
FROM loan_requests
ORDER BY id
`

const listByUserQuery = `
SELECT ` + columns + `
FROM loan_requests
WHERE user_id = $1
ORDER BY id
`

// List returns every pending loan request.
func (r *RepoPGS) List(ctx context.Context) ([]domain.LoanRequest, error) {
	return r.list(ctx, listQuery)
}

// ListByUser returns the pending loan requests of the given user.
func (r *RepoPGS) ListByUser(ctx context.Context, userID int32) ([]domain.LoanRequest, error) {
	return r.list(ctx, listByUserQuery, userID)
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...any) ([]domain.LoanRequest, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.LoanRequest{}

	for rows.Next() {
		var lr domain.LoanRequest
		if err := scan(rows, &lr); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, lr)
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

const deleteQuery = `
DELETE FROM loan_requests
WHERE id = $1
`

// Delete removes the loan request with the given id.
func (r *RepoPGS) Delete(ctx context.Context, id int64) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if n == 0 {
		return domain.ErrLoanRequestNotFound
	}

	return nil
}
