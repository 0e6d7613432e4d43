// Package sessionrepo manages repository layer of refresh sessions.
package sessionrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/pkg/dbpkg"
	"github.com/go-petr/microlend/pkg/errorspkg"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS stores refresh sessions in postgres.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns session RepoPGS bound to db, which may be a *sql.DB or a *sql.Tx.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const columns = `id, user_id, username, refresh_token, user_agent, client_ip, is_blocked, expires_at, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner, s *domain.Session) error {
	return row.Scan(
		&s.ID,
		&s.UserID,
		&s.Username,
		&s.RefreshToken,
		&s.UserAgent,
		&s.ClientIP,
		&s.IsBlocked,
		&s.ExpiresAt,
		&s.CreatedAt,
	)
}

const createQuery = `
INSERT INTO
    sessions (id, user_id, username, refresh_token, user_agent, client_ip, is_blocked, expires_at)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + columns

// Create creates the session and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateSessionParams) (domain.Session, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.ID,
		arg.UserID,
		arg.Username,
		arg.RefreshToken,
		arg.UserAgent,
		arg.ClientIP,
		arg.IsBlocked,
		arg.ExpiresAt,
	)

	var s domain.Session

	if err := scan(row, &s); err != nil {
		l.Error().Err(err).Str("session_id", arg.ID.String()).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "sessions_user_id_fkey" {
				return s, domain.ErrUserNotFound
			}
		}

		return s, errorspkg.ErrInternal
	}

	return s, nil
}

const getQuery = `
SELECT ` + columns + `
FROM sessions
WHERE id = $1
`

// Get returns the session with the given id.
func (r *RepoPGS) Get(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var s domain.Session

	if err := scan(row, &s); err != nil {
		if err == sql.ErrNoRows {
			l.Info().Err(err).Str("session_id", id.String()).Send()
			return s, domain.ErrSessionNotFound
		}

		l.Error().Err(err).Send()

		return s, errorspkg.ErrInternal
	}

	return s, nil
}

const blockQuery = `
UPDATE sessions
SET is_blocked = true
WHERE id = $1 AND user_id = $2
`

// Block marks the session of the given user as blocked. Blocking twice is not an error.
func (r *RepoPGS) Block(ctx context.Context, id uuid.UUID, userID int32) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, blockQuery, id, userID)
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
		l.Info().Str("session_id", id.String()).Int32("user_id", userID).Msg("no session to block")
		return domain.ErrSessionNotFound
	}

	return nil
}
