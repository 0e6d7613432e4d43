// Package userdelivery manages delivery layer of users.
package userdelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/internal/middleware"
	"github.com/go-petr/microlend/pkg/web"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by user delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package userdelivery
type Service interface {
	SignUp(ctx context.Context, firstName, lastName, username, password string) (domain.UserWihtoutPassword, domain.Account, error)
	CheckPassword(ctx context.Context, username, password string) (domain.UserWihtoutPassword, error)
	GetProfile(ctx context.Context, actor domain.Actor) (domain.UserWihtoutPassword, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, firstName, lastName, username string) (domain.UserWihtoutPassword, error)
	ChangePassword(ctx context.Context, actor domain.Actor, current, newPassword, confirmation string) error
	Promote(ctx context.Context, actor domain.Actor, userID int32) (domain.UserWihtoutPassword, error)
}

// SessionMaker facilitates session creation.
type SessionMaker interface {
	Create(ctx context.Context, arg domain.CreateSessionParams) (string, time.Time, domain.Session, error)
}

// Handler facilitates user delivery layer logic.
type Handler struct {
	service      Service
	sessionMaker SessionMaker
}

// NewHandler returns user handler.
func NewHandler(us Service, sm SessionMaker) *Handler {
	return &Handler{
		service:      us,
		sessionMaker: sm,
	}
}

type userData struct {
	User domain.UserWihtoutPassword `json:"user"`
}

type signUpData struct {
	User    domain.UserWihtoutPassword `json:"user"`
	Account domain.Account             `json:"account"`
}

// startSession creates the session for the authenticated user and writes the token response.
func (h *Handler) startSession(gctx *gin.Context, status int, user domain.UserWihtoutPassword, data any) {
	ctx := gctx.Request.Context()

	arg := domain.CreateSessionParams{
		UserID:    user.ID,
		Username:  user.Username,
		UserAgent: gctx.Request.UserAgent(),
		ClientIP:  gctx.ClientIP(),
	}

	accessToken, accessTokenExpiresAt, session, err := h.sessionMaker.Create(ctx, arg)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(status, web.Response{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessTokenExpiresAt,
		RefreshToken:          session.RefreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt,
		Data:                  data,
	})
}

type signUpRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Username  string `json:"username" binding:"required,alphanum"`
	Password  string `json:"password" binding:"required,min=6"`
}

// SignUp handles http request to register the user with a checking account.
func (h *Handler) SignUp(gctx *gin.Context) {
	var req signUpRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	user, account, err := h.service.SignUp(gctx.Request.Context(), req.FirstName, req.LastName, req.Username, req.Password)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	h.startSession(gctx, http.StatusCreated, user, signUpData{User: user, Account: account})
}

type loginRequest struct {
	Username string `json:"username" binding:"required,alphanum"`
	Password string `json:"password" binding:"required,min=6"`
}

// Login handles http login request and returns user and session data.
func (h *Handler) Login(gctx *gin.Context) {
	l := zerolog.Ctx(gctx.Request.Context())

	var req loginRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	user, err := h.service.CheckPassword(gctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrWrongPassword) {
			l.Info().Err(err).Str("username", req.Username).Send()
			gctx.JSON(http.StatusUnauthorized, web.Error(err))

			return
		}

		middleware.RespondError(gctx, err)

		return
	}

	h.startSession(gctx, http.StatusOK, user, userData{User: user})
}

// GetProfile handles http request to get the acting user.
func (h *Handler) GetProfile(gctx *gin.Context) {
	user, err := h.service.GetProfile(gctx.Request.Context(), middleware.GetActor(gctx))
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: userData{User: user}})
}

type updateProfileRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Username  string `json:"username" binding:"required,alphanum"`
}

// UpdateProfile handles http request to change the acting user's name fields.
func (h *Handler) UpdateProfile(gctx *gin.Context) {
	var req updateProfileRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	user, err := h.service.UpdateProfile(gctx.Request.Context(), middleware.GetActor(gctx),
		req.FirstName, req.LastName, req.Username)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Message: "Your profile has been updated.",
		Data:    userData{User: user},
	})
}

type changePasswordRequest struct {
	CurrentPassword      string `json:"current_password" binding:"required"`
	NewPassword          string `json:"new_password" binding:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required"`
}

// ChangePassword handles http request to change the acting user's password.
func (h *Handler) ChangePassword(gctx *gin.Context) {
	var req changePasswordRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	err := h.service.ChangePassword(gctx.Request.Context(), middleware.GetActor(gctx),
		req.CurrentPassword, req.NewPassword, req.PasswordConfirmation)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Message: "Your password has been changed."})
}

type userURI struct {
	ID int32 `uri:"id" binding:"required,min=1"`
}

// Promote handles http request to make the user a bank manager.
func (h *Handler) Promote(gctx *gin.Context) {
	var uri userURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	user, err := h.service.Promote(gctx.Request.Context(), middleware.GetActor(gctx), uri.ID)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Message: user.Username + " is now a bank manager.",
		Data:    userData{User: user},
	})
}
