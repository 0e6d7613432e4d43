// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/internal/middleware"
	"github.com/go-petr/microlend/pkg/moneypkg"
	"github.com/go-petr/microlend/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Open(ctx context.Context, actor domain.Actor, name string) (domain.Account, error)
	Get(ctx context.Context, actor domain.Actor, id int32) (domain.Account, error)
	List(ctx context.Context, actor domain.Actor) ([]domain.Account, error)
	AddFunds(ctx context.Context, actor domain.Actor, id int32, amount string) (domain.Account, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) *Handler {
	return &Handler{service: as}
}

type accountData struct {
	Account domain.Account `json:"account"`
}

type accountsData struct {
	Accounts []domain.Account `json:"accounts"`
}

type openRequest struct {
	Name string `json:"name" binding:"required,max=64"`
}

// Open handles http request to open an account.
func (h *Handler) Open(gctx *gin.Context) {
	var req openRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	account, err := h.service.Open(gctx.Request.Context(), middleware.GetActor(gctx), req.Name)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: accountData{Account: account}})
}

type accountURI struct {
	ID int32 `uri:"id" binding:"required,min=1"`
}

// Get handles http request to get the actor's account.
func (h *Handler) Get(gctx *gin.Context) {
	var uri accountURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	account, err := h.service.Get(gctx.Request.Context(), middleware.GetActor(gctx), uri.ID)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: accountData{Account: account}})
}

// List handles http request to list the actor's accounts.
func (h *Handler) List(gctx *gin.Context) {
	accounts, err := h.service.List(gctx.Request.Context(), middleware.GetActor(gctx))
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: accountsData{Accounts: accounts}})
}

type addFundsRequest struct {
	Amount string `json:"amount"`
}

// AddFunds handles http request to credit the actor's account.
func (h *Handler) AddFunds(gctx *gin.Context) {
	var uri accountURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	var req addFundsRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	account, err := h.service.AddFunds(gctx.Request.Context(), middleware.GetActor(gctx), uri.ID, req.Amount)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	// The service accepted the amount, so it parses.
	amount, _ := moneypkg.Parse(req.Amount)

	gctx.JSON(http.StatusOK, web.Response{
		Message: fmt.Sprintf("You have added %s to %s!", moneypkg.Format(amount), account.Name),
		Data:    accountData{Account: account},
	})
}
