// Package pooldelivery manages delivery layer of loan pools and contributions.
package pooldelivery

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

// Service provides service layer interface needed by pool delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package pooldelivery
type Service interface {
	Create(ctx context.Context, actor domain.Actor, name, category, amount string) (domain.Pool, error)
	Get(ctx context.Context, id int32) (domain.Pool, error)
	List(ctx context.Context, category string) ([]domain.Pool, error)
	ListCategories(ctx context.Context) ([]string, error)
	Contribute(ctx context.Context, actor domain.Actor, poolID, accountID int32, amount string) (domain.ContributionTxResult, error)
	ListContributions(ctx context.Context, actor domain.Actor) ([]domain.Contribution, error)
}

// Handler facilitates pool delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns pool handler.
func NewHandler(ps Service) *Handler {
	return &Handler{service: ps}
}

type poolData struct {
	Pool domain.Pool `json:"pool"`
}

type poolsData struct {
	Pools []domain.Pool `json:"pools"`
}

type categoriesData struct {
	Categories []string `json:"categories"`
}

type contributionsData struct {
	Contributions []domain.Contribution `json:"contributions"`
}

type createRequest struct {
	Name     string `json:"name" binding:"required,max=128"`
	Category string `json:"category" binding:"required,max=64"`
	Amount   string `json:"amount" binding:"required,money"`
}

// Create handles http request to create a pool.
func (h *Handler) Create(gctx *gin.Context) {
	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	pool, err := h.service.Create(gctx.Request.Context(), middleware.GetActor(gctx), req.Name, req.Category, req.Amount)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{
		Message: fmt.Sprintf("Pool %s has been created with %s.", pool.Name, moneypkg.Format(pool.Amount)),
		Data:    poolData{Pool: pool},
	})
}

type poolURI struct {
	ID int32 `uri:"id" binding:"required,min=1"`
}

// Get handles http request to get a pool.
func (h *Handler) Get(gctx *gin.Context) {
	var uri poolURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	pool, err := h.service.Get(gctx.Request.Context(), uri.ID)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: poolData{Pool: pool}})
}

type listQuery struct {
	Category string `form:"category"`
}

// List handles http request to list pools, optionally of one category.
func (h *Handler) List(gctx *gin.Context) {
	var q listQuery
	if err := gctx.ShouldBindQuery(&q); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	pools, err := h.service.List(gctx.Request.Context(), q.Category)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: poolsData{Pools: pools}})
}

// ListCategories handles http request to list pool categories.
func (h *Handler) ListCategories(gctx *gin.Context) {
	categories, err := h.service.ListCategories(gctx.Request.Context())
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: categoriesData{Categories: categories}})
}

type contributeRequest struct {
	AccountID int32  `json:"account_id" binding:"required,min=1"`
	Amount    string `json:"amount"`
}

// Contribute handles http request to move money from the actor's account into the pool.
func (h *Handler) Contribute(gctx *gin.Context) {
	var uri poolURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	var req contributeRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(gctx, err)
		return
	}

	result, err := h.service.Contribute(gctx.Request.Context(), middleware.GetActor(gctx), uri.ID, req.AccountID, req.Amount)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{
		Message: fmt.Sprintf("You have contributed %s to %s!",
			moneypkg.Format(result.Contribution.Amount), result.Pool.Name),
		Data: result,
	})
}

// ListContributions handles http request to list the actor's contributions.
func (h *Handler) ListContributions(gctx *gin.Context) {
	contributions, err := h.service.ListContributions(gctx.Request.Context(), middleware.GetActor(gctx))
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: contributionsData{Contributions: contributions}})
}
