// Package poolrepo manages repository layer of loan pools.
package poolrepo

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

// RepoPGS facilitates pool repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns pool RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const columns = `id, name, category, amount, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner, p *domain.Pool) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.Amount,
		&p.CreatedAt,
	)
}

const createQuery = `
INSERT INTO
    pools (name, category, amount)
VALUES
    ($1, $2, $3)
RETURNING ` + columns

// Create creates the pool and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreatePoolParams) (domain.Pool, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.Name, arg.Category, arg.Amount)

	var p domain.Pool

	err := scan(row, &p)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "pools_amount_check" {
				return p, domain.ErrNegativeAmount
			}
		}

		return p, errorspkg.ErrInternal
	}

	return p, nil
}

const addAmountQuery = `
UPDATE pools
SET amount = amount + $1
WHERE id = $2
RETURNING ` + columns

// AddAmount changes the pool amount and returns the changed pool.
//
// A debit that would take the amount below zero is rejected by the
// pools_amount_check constraint.
func (r *RepoPGS) AddAmount(ctx context.Context, amount decimal.Decimal, id int32) (domain.Pool, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addAmountQuery, amount, id)

	var p domain.Pool

	err := scan(row, &p)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return p, domain.ErrPoolNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "pools_amount_check" {
				return p, domain.ErrInsufficientPoolFunds
			}
		}

		return p, errorspkg.ErrInternal
	}

	return p, nil
}

const getQuery = `
SELECT ` + columns + `
FROM pools
WHERE id = $1
`

// Get returns the pool with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int32) (domain.Pool, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var p domain.Pool

	err := scan(row, &p)
	if err != nil {
		if err == sql.ErrNoRows {
			l.Info().Err(err).Int32("pool_id", id).Send()
			return p, domain.ErrPoolNotFound
		}

		l.Error().Err(err).Send()

		return p, errorspkg.ErrInternal
	}

	return p, nil
}

const listQuery = `
SELECT ` + columns + `
FROM pools
WHERE $1::varchar = '' OR category = $1
ORDER BY id
`

// List returns the pools of the given category, or every pool when category is empty.
func (r *RepoPGS) List(ctx context.Context, category string) ([]domain.Pool, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, category)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Pool{}

	for rows.Next() {
		var p domain.Pool
		if err := scan(rows, &p); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, p)
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

const listCategoriesQuery = `
SELECT category
FROM pools
GROUP BY category
ORDER BY MIN(id)
`

// ListCategories returns distinct pool categories in the order they first appeared.
func (r *RepoPGS) ListCategories(ctx context.Context) ([]string, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listCategoriesQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []string{}

	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, c)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
