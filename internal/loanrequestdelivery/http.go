// Package loanrequestdelivery manages delivery layer of loan requests.
package loanrequestdelivery

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

// Service provides service layer interface needed by loan request delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package loanrequestdelivery
type Service interface {
	Request(ctx context.Context, actor domain.Actor, poolID, accountID int32, amount string) (domain.LoanRequest, error)
	ListOwn(ctx context.Context, actor domain.Actor) ([]domain.LoanRequest, error)
	ListAll(ctx context.Context, actor domain.Actor) ([]domain.LoanRequest, error)
	Deny(ctx context.Context, actor domain.Actor, id int64) error
}

// Handler facilitates loan request delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns loan request handler.
func NewHandler(ls Service) *Handler {
	return &Handler{service: ls}
}

type loanRequestData struct {
	LoanRequest domain.LoanRequest `json:"loan_request"`
}

type loanRequestsData struct {
	LoanRequests []domain.LoanRequest `json:"loan_requests"`
}

type poolURI struct {
	ID int32 `uri:"id" binding:"required,min=1"`
}

type requestRequest struct {
	AccountID int32  `json:"account_id" binding:"required,min=1"`
	Amount    string `json:"amount"`
}

// Request handles http request to ask the pool for a loan.
func (h *Handler) Request(gctx *gin.Context) {
	var uri poolURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	var req requestRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	lr, err := h.service.Request(gctx.Request.Context(), middleware.GetActor(gctx), uri.ID, req.AccountID, req.Amount)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{
		Message: fmt.Sprintf("Your loan request for %s has been submitted.", moneypkg.Format(lr.Amount)),
		Data:    loanRequestData{LoanRequest: lr},
	})
}

// ListOwn handles http request to list the actor's pending loan requests.
func (h *Handler) ListOwn(gctx *gin.Context) {
	items, err := h.service.ListOwn(gctx.Request.Context(), middleware.GetActor(gctx))
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: loanRequestsData{LoanRequests: items}})
}

// ListAll handles http request to list every pending loan request.
func (h *Handler) ListAll(gctx *gin.Context) {
	items, err := h.service.ListAll(gctx.Request.Context(), middleware.GetActor(gctx))
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: loanRequestsData{LoanRequests: items}})
}

type loanRequestURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Deny handles http request to reject the pending loan request.
func (h *Handler) Deny(gctx *gin.Context) {
	var uri loanRequestURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	if err := h.service.Deny(gctx.Request.Context(), middleware.GetActor(gctx), uri.ID); err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Message: fmt.Sprintf("Loan request %d has been denied.", uri.ID)})
}
