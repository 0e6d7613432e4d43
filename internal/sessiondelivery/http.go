// Package sessiondelivery serves refresh session endpoints.
package sessiondelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/internal/middleware"
	"github.com/go-petr/microlend/pkg/tokenpkg"
	"github.com/go-petr/microlend/pkg/web"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by session delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package sessiondelivery
type Service interface {
	RenewAccessToken(ctx context.Context, refreshToken string) (string, time.Time, error)
	Logout(ctx context.Context, actor domain.Actor, refreshToken string) error
}

// Handler serves session requests.
type Handler struct {
	service Service
}

// NewHandler returns session handler.
func NewHandler(ss Service) *Handler {
	return &Handler{
		service: ss,
	}
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// unauthorized reports whether err means the refresh token cannot be used.
func unauthorized(err error) bool {
	return errors.Is(err, tokenpkg.ErrInvalidToken) ||
		errors.Is(err, tokenpkg.ErrExpiredToken) ||
		errors.Is(err, domain.ErrBlockedSession) ||
		errors.Is(err, domain.ErrMismatchedRefreshToken) ||
		errors.Is(err, domain.ErrInvalidUser) ||
		errors.Is(err, domain.ErrExpiredSession)
}

func respondSessionError(gctx *gin.Context, err error) {
	if unauthorized(err) {
		zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()
		gctx.JSON(http.StatusUnauthorized, web.Error(err))

		return
	}

	middleware.RespondError(gctx, err)
}

// RenewAccessToken handles http request to renew access token.
func (h *Handler) RenewAccessToken(gctx *gin.Context) {
	var req refreshTokenRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	accessToken, accessTokenExpiresAt, err := h.service.RenewAccessToken(gctx.Request.Context(), req.RefreshToken)
	if err != nil {
		respondSessionError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: accessTokenExpiresAt,
	})
}

// Logout blocks the session of the given refresh token.
func (h *Handler) Logout(gctx *gin.Context) {
	var req refreshTokenRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	err := h.service.Logout(gctx.Request.Context(), middleware.GetActor(gctx), req.RefreshToken)
	if err != nil {
		respondSessionError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Message: "You have been logged out.",
	})
}
