// Package userrepo manages repository layer of users.
package userrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/microlend/internal/accountrepo"
	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/pkg/dbpkg"
	"github.com/go-petr/microlend/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RepoPGS facilitates user repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns user RepoPGS bound to a transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns user RepoPGS wiht connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const columns = `id, first_name, last_name, username, hashed_password, is_bank_manager,
    password_changed_at, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner, u *domain.User) error {
	return row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Username,
		&u.HashedPassword,
		&u.IsBankManager,
		&u.PasswordChangedAt,
		&u.CreatedAt,
	)
}

// uniqueErr maps unique violations on users to domain errors.
func uniqueErr(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == "users_username_key" {
			return domain.ErrUsernameAlreadyExists
		}
	}

	return errorspkg.ErrInternal
}

// CreateQuery inserts into users table.
const CreateQuery = `
INSERT INTO users (
    first_name,
    last_name,
    username,
    hashed_password,
    is_bank_manager
) VALUES (
    $1, $2, $3, $4, $5
) RETURNING ` + columns

// Create creates the user and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, CreateQuery,
		arg.FirstName,
		arg.LastName,
		arg.Username,
		arg.HashedPassword,
		arg.IsBankManager,
	)

	var u domain.User

	if err := scan(row, &u); err != nil {
		l.Error().Err(err).Send()
		return u, uniqueErr(err)
	}

	return u, nil
}

// SignUp creates the user together with the default checking account
// within a single db transaction.
func (r *RepoPGS) SignUp(ctx context.Context, arg domain.CreateUserParams, accountNumber int64) (domain.SignUpResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.SignUpResult

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

	result.User, err = NewTxRepoPGS(tx).Create(ctx, arg)
	if err != nil {
		return domain.SignUpResult{}, err
	}

	result.Account, err = accountrepo.NewRepoPGS(tx).Create(ctx, domain.CreateAccountParams{
		UserID:  result.User.ID,
		Name:    domain.DefaultAccountName,
		Number:  accountNumber,
		Balance: decimal.Zero,
	})
	if err != nil {
		return domain.SignUpResult{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.SignUpResult{}, errorspkg.ErrInternal
	}

	return result, nil
}

const getQuery = `
SELECT ` + columns + `
FROM users
WHERE id = $1
`

const getByUsernameQuery = `
SELECT ` + columns + `
FROM users
WHERE username = $1
`

// Get returns the user with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int32) (domain.User, error) {
	return r.get(ctx, getQuery, id)
}

// GetByUsername returns the user with the given username.
func (r *RepoPGS) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.get(ctx, getByUsernameQuery, username)
}

func (r *RepoPGS) get(ctx context.Context, query string, arg any) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, query, arg)

	var u domain.User

	if err := scan(row, &u); err != nil {
		if err == sql.ErrNoRows {
			l.Info().Err(err).Interface("user", arg).Send()
			return u, domain.ErrUserNotFound
		}

		l.Error().Err(err).Send()

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const updateQuery = `
UPDATE users
SET first_name = $2,
    last_name = $3,
    username = $4
WHERE id = $1
RETURNING ` + columns

// Update changes the profile fields of the user and returns the changed user.
func (r *RepoPGS) Update(ctx context.Context, arg domain.UpdateUserParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, updateQuery, arg.ID, arg.FirstName, arg.LastName, arg.Username)

	var u domain.User

	if err := scan(row, &u); err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return u, domain.ErrUserNotFound
		}

		return u, uniqueErr(err)
	}

	return u, nil
}

const updatePasswordQuery = `
UPDATE users
SET hashed_password = $2,
    password_changed_at = NOW()
WHERE id = $1
RETURNING ` + columns

// UpdatePassword replaces the password hash of the user.
func (r *RepoPGS) UpdatePassword(ctx context.Context, id int32, hashedPassword string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, updatePasswordQuery, id, hashedPassword)

	var u domain.User

	if err := scan(row, &u); err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return u, domain.ErrUserNotFound
		}

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const setBankManagerQuery = `
UPDATE users
SET is_bank_manager = TRUE
WHERE id = $1
RETURNING ` + columns

// SetBankManager grants the bank manager role to the user.
func (r *RepoPGS) SetBankManager(ctx context.Context, id int32) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, setBankManagerQuery, id)

	var u domain.User

	if err := scan(row, &u); err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return u, domain.ErrUserNotFound
		}

		return u, errorspkg.ErrInternal
	}

	return u, nil
}
