// Package loandelivery manages delivery layer of loans.
package loandelivery

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

// Service provides service layer interface needed by loan delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package loandelivery
type Service interface {
	Originate(ctx context.Context, actor domain.Actor, requestID int64, rate, dueDate string) (domain.OriginationTxResult, error)
	ListLoans(ctx context.Context, actor domain.Actor) ([]domain.Loan, error)
}

// Handler facilitates loan delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns loan handler.
func NewHandler(ls Service) *Handler {
	return &Handler{service: ls}
}

type loansData struct {
	Loans []domain.Loan `json:"loans"`
}

type loanRequestURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type approveRequest struct {
	InterestRate string `json:"interest_rate"`
	DueDate      string `json:"due_date"`
}

// Approve handles http request to originate a loan from the pending request.
func (h *Handler) Approve(gctx *gin.Context) {
	var uri loanRequestURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	var req approveRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	result, err := h.service.Originate(gctx.Request.Context(), middleware.GetActor(gctx), uri.ID, req.InterestRate, req.DueDate)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{
		Message: fmt.Sprintf("A loan of %s from %s has been approved at %s%%.",
			moneypkg.Format(result.Loan.PrincipalAmount), result.Pool.Name, result.Loan.InterestRate.String()),
		Data: result,
	})
}

// List handles http request to list the actor's loans with up to date interest.
func (h *Handler) List(gctx *gin.Context) {
	loans, err := h.service.ListLoans(gctx.Request.Context(), middleware.GetActor(gctx))
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: loansData{Loans: loans}})
}
