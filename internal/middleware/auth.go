// Package middleware provides gin middlewares shared by every route group.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/pkg/errorspkg"
	"github.com/go-petr/microlend/pkg/tokenpkg"
	"github.com/go-petr/microlend/pkg/web"
	"github.com/rs/zerolog"
)

// Authorization header and context keys.
const (
	AuthHeaderKey  = "authorization"
	AuthTypeBearer = "bearer"
	AuthPayloadKey = "authorization_payload"
	ActorKey       = "actor"
)

var (
	// ErrAuthHeaderNotFound indicates a request without the authorization header.
	ErrAuthHeaderNotFound = errors.New("authorization header is not provided")
	// ErrBadAuthHeaderFormat indicates an authorization header without a token.
	ErrBadAuthHeaderFormat = errors.New("invalid authorization header format")
	// ErrUnsupportedAuthType indicates an authorization type other than bearer.
	ErrUnsupportedAuthType = errors.New("unsupported authorization type")
	// ErrUnknownActor indicates a valid token of a user that no longer exists.
	ErrUnknownActor = errors.New("token user does not exist")
)

// AddAuthorization creates a token and sets it as the request authorization header.
func AddAuthorization(r *http.Request, tokenMaker tokenpkg.Maker, authType string,
	userID int32, username string, duration time.Duration,
) error {
	token, _, err := tokenMaker.CreateToken(userID, username, duration)
	if err != nil {
		return err
	}

	r.Header.Set(AuthHeaderKey, fmt.Sprintf("%s %s", authType, token))

	return nil
}

// AuthMiddleware verifies the bearer token and stores its payload in the gin context.
func AuthMiddleware(tokenMaker tokenpkg.Maker) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		l := zerolog.Ctx(gctx.Request.Context())

		authHeader := gctx.GetHeader(AuthHeaderKey)
		if len(authHeader) == 0 {
			l.Info().Err(ErrAuthHeaderNotFound).Send()
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrAuthHeaderNotFound))

			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 {
			l.Info().Err(ErrBadAuthHeaderFormat).Send()
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrBadAuthHeaderFormat))

			return
		}

		if strings.ToLower(fields[0]) != AuthTypeBearer {
			l.Info().Err(ErrUnsupportedAuthType).Str("type", fields[0]).Send()
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrUnsupportedAuthType))

			return
		}

		payload, err := tokenMaker.VerifyToken(fields[1])
		if err != nil {
			l.Info().Err(err).Send()
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(err))

			return
		}

		gctx.Set(AuthPayloadKey, payload)
		gctx.Next()
	}
}

// UserGetter returns users by id.
type UserGetter interface {
	Get(ctx context.Context, id int32) (domain.User, error)
}

// ActorMiddleware resolves the token payload into the acting user.
//
// Manager status is read from the stored user on every request, so a
// promotion takes effect without a new token. Must run after AuthMiddleware.
func ActorMiddleware(users UserGetter) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		ctx := gctx.Request.Context()
		l := zerolog.Ctx(ctx)

		payload, ok := gctx.MustGet(AuthPayloadKey).(*tokenpkg.Payload)
		if !ok {
			gctx.AbortWithStatusJSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
			return
		}

		user, err := users.Get(ctx, payload.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				l.Info().Err(err).Int32("user_id", payload.UserID).Send()
				gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrUnknownActor))

				return
			}

			gctx.AbortWithStatusJSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

			return
		}

		gctx.Set(ActorKey, domain.Actor{
			UserID:        user.ID,
			Username:      user.Username,
			IsBankManager: user.IsBankManager,
		})
		gctx.Next()
	}
}

// GetActor returns the acting user stored by ActorMiddleware.
func GetActor(gctx *gin.Context) domain.Actor {
	actor, _ := gctx.MustGet(ActorKey).(domain.Actor)
	return actor
}

// RequireBankManager rejects actors without the bank manager role.
// Must run after ActorMiddleware.
func RequireBankManager() gin.HandlerFunc {
	return func(gctx *gin.Context) {
		actor := GetActor(gctx)
		if !actor.IsBankManager {
			zerolog.Ctx(gctx.Request.Context()).Info().Int32("user_id", actor.UserID).Msg("not a bank manager")
			gctx.AbortWithStatusJSON(http.StatusForbidden, web.Error(domain.ErrNotBankManager))

			return
		}

		gctx.Next()
	}
}
