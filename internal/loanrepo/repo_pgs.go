// Package loanrepo manages repository layer of loans.
package loanrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/internal/loanrequestrepo"
	"github.com/go-petr/microlend/internal/poolrepo"
	"github.com/go-petr/microlend/pkg/dbpkg"
	"github.com/go-petr/microlend/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RepoPGS facilitates loan repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns loan RepoPGS bound to a transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns loan RepoPGS wiht connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const columns = `id, user_id, pool_id, principal_amount, amount_accrued, amount_paid, amount_due,
    interest_rate, date_approved, date_due`

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner, ln *domain.Loan) error {
	return row.Scan(
		&ln.ID,
		&ln.UserID,
		&ln.PoolID,
		&ln.PrincipalAmount,
		&ln.AmountAccrued,
		&ln.AmountPaid,
		&ln.AmountDue,
		&ln.InterestRate,
		&ln.DateApproved,
		&ln.DateDue,
	)
}

const createQuery = `
INSERT INTO
    loans (user_id, pool_id, principal_amount, amount_accrued, amount_paid, amount_due,
        interest_rate, date_approved, date_due)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + columns

// Create inserts the loan and then returns it.
func (r *RepoPGS) Create(ctx context.Context, ln domain.Loan) (domain.Loan, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		ln.UserID,
		ln.PoolID,
		ln.PrincipalAmount,
		ln.AmountAccrued,
		ln.AmountPaid,
		ln.AmountDue,
		ln.InterestRate,
		ln.DateApproved,
		ln.DateDue,
	)

	var created domain.Loan

	err := scan(row, &created)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %+v)", ln)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "loans_user_id_fkey":
				return created, domain.ErrUserNotFound
			case "loans_pool_id_fkey":
				return created, domain.ErrPoolNotFound
			case "loans_interest_rate_check":
				return created, domain.ErrInvalidInterestRate
			}
		}

		return created, errorspkg.ErrInternal
	}

	return created, nil
}

const listQuery = `
SELECT ` + columns + `
FROM loans
ORDER BY id
`

const listByUserQuery = `
SELECT ` + columns + `
FROM loans
WHERE user_id = $1
ORDER BY id
`

// List returns every loan.
func (r *RepoPGS) List(ctx context.Context) ([]domain.Loan, error) {
	return r.list(ctx, listQuery)
}

// ListByUser returns the loans of the given user.
func (r *RepoPGS) ListByUser(ctx context.Context, userID int32) ([]domain.Loan, error) {
	return r.list(ctx, listByUserQuery, userID)
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...any) ([]domain.Loan, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Loan{}

	for rows.Next() {
		var ln domain.Loan
		if err := scan(rows, &ln); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, ln)
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

// amount_accrued never decreases, even if a stale writer races a newer one.
const updateAccrualQuery = `
UPDATE loans
SET amount_accrued = GREATEST(amount_accrued, $1),
    amount_due = principal_amount + GREATEST(amount_accrued, $1) - amount_paid
WHERE id = $2
RETURNING ` + columns

// UpdateAccrual stores the accrued interest of the loan and returns the changed loan.
func (r *RepoPGS) UpdateAccrual(ctx context.Context, ln domain.Loan) (domain.Loan, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, updateAccrualQuery, ln.AmountAccrued, ln.ID)

	var updated domain.Loan

	err := scan(row, &updated)
	if err != nil {
		l.Error().Err(err).Int64("loan_id", ln.ID).Send()

		if err == sql.ErrNoRows {
			return updated, domain.ErrLoanNotFound
		}

		return updated, errorspkg.ErrInternal
	}

	return updated, nil
}

// SaveAccruals stores accrued interest of all given loans within a single db transaction.
func (r *RepoPGS) SaveAccruals(ctx context.Context, loans []domain.Loan) ([]domain.Loan, error) {
	l := zerolog.Ctx(ctx)

	if len(loans) == 0 {
		return []domain.Loan{}, nil
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	loanRepo := NewTxRepoPGS(tx)

	saved := make([]domain.Loan, 0, len(loans))

	for _, ln := range loans {
		updated, err := loanRepo.UpdateAccrual(ctx, ln)
		if err != nil {
			return nil, err
		}

		saved = append(saved, updated)
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return saved, nil
}

// Originate turns a pending loan request into a loan.
//
// Within a single db transaction it locks the request, debits the pool by the
// requested amount, inserts the loan and deletes the request. A request that
// was already approved or denied is reported as not found, and a pool that
// cannot cover the amount leaves everything unchanged.
func (r *RepoPGS) Originate(ctx context.Context, arg domain.OriginateLoanParams) (domain.OriginationTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.OriginationTxResult

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

	requestRepo := loanrequestrepo.NewRepoPGS(tx)
	poolRepo := poolrepo.NewRepoPGS(tx)
	loanRepo := NewTxRepoPGS(tx)

	req, err := requestRepo.GetForUpdate(ctx, arg.LoanRequestID)
	if err != nil {
		return domain.OriginationTxResult{}, err
	}

	result.Pool, err = poolRepo.AddAmount(ctx, req.Amount.Neg(), req.PoolID)
	if err != nil {
		return domain.OriginationTxResult{}, err
	}

	result.Loan, err = loanRepo.Create(ctx, domain.Loan{
		UserID:          req.UserID,
		PoolID:          req.PoolID,
		PrincipalAmount: req.Amount,
		AmountAccrued:   decimal.Zero,
		AmountPaid:      decimal.Zero,
		AmountDue:       req.Amount,
		InterestRate:    arg.InterestRate,
		DateApproved:    arg.DateApproved,
		DateDue:         arg.DateDue,
	})
	if err != nil {
		return domain.OriginationTxResult{}, err
	}

	if err := requestRepo.Delete(ctx, req.ID); err != nil {
		return domain.OriginationTxResult{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.OriginationTxResult{}, errorspkg.ErrInternal
	}

	return result, nil
}
