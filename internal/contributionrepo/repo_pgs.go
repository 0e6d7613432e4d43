// Package contributionrepo manages repository layer of pool contributions.
package contributionrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/microlend/internal/accountrepo"
	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/internal/poolrepo"
	"github.com/go-petr/microlend/pkg/dbpkg"
	"github.com/go-petr/microlend/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates contribution repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns contribution RepoPGS bound to a transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns contribution RepoPGS wiht connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const columns = `id, user_id, pool_id, account_id, amount, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner, c *domain.Contribution) error {
	return row.Scan(
		&c.ID,
		&c.UserID,
		&c.PoolID,
		&c.AccountID,
		&c.Amount,
		&c.CreatedAt,
	)
}

const createQuery = `
INSERT INTO
    pool_contributions (user_id, pool_id, account_id, amount)
VALUES
    ($1, $2, $3, $4)
RETURNING ` + columns

// Create records the contribution and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateContributionParams) (domain.Contribution, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.UserID, arg.PoolID, arg.AccountID, arg.Amount)

	var c domain.Contribution

	err := scan(row, &c)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "pool_contributions_user_id_fkey":
				return c, domain.ErrUserNotFound
			case "pool_contributions_pool_id_fkey":
				return c, domain.ErrPoolNotFound
			case "pool_contributions_account_id_fkey":
				return c, domain.ErrAccountNotFound
			case "pool_contributions_amount_check":
				return c, domain.ErrNonPositiveAmount
			}
		}

		return c, errorspkg.ErrInternal
	}

	return c, nil
}

const listByUserQuery = `
SELECT ` + columns + `
FROM pool_contributions
WHERE user_id = $1
ORDER BY id
`

// ListByUser returns the contribution history of the given user.
func (r *RepoPGS) ListByUser(ctx context.Context, userID int32) ([]domain.Contribution, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByUserQuery, userID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Contribution{}

	for rows.Next() {
		var c domain.Contribution
		if err := scan(rows, &c); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, c)
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

// Contribute moves money from a bank account into a pool.
//
// It debits the account, credits the pool and records the contribution
// within a single db transaction. The debit is checked against the balance
// under the row lock taken by the update.
func (r *RepoPGS) Contribute(ctx context.Context, arg domain.CreateContributionParams) (domain.ContributionTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.ContributionTxResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	accountRepo := accountrepo.NewRepoPGS(tx)
	poolRepo := poolrepo.NewRepoPGS(tx)
	contributionRepo := NewTxRepoPGS(tx)

	// Accounts are always locked before pools to keep lock order consistent.
	result.Account, err = accountRepo.AddBalance(ctx, arg.Amount.Neg(), arg.AccountID)
	if err != nil {
		return domain.ContributionTxResult{}, err
	}

	result.Pool, err = poolRepo.AddAmount(ctx, arg.Amount, arg.PoolID)
	if err != nil {
		return domain.ContributionTxResult{}, err
	}

	result.Contribution, err = contributionRepo.Create(ctx, arg)
	if err != nil {
		return domain.ContributionTxResult{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.ContributionTxResult{}, errorspkg.ErrInternal
	}

	return result, nil
}
