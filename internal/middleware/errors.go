package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/pkg/errorspkg"
	"github.com/go-petr/microlend/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ErrorStatus maps a domain error to its HTTP status code.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountOwnerMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// RespondError writes the error response for a service error. Unclassified
// errors are hidden behind errorspkg.ErrInternal.
func RespondError(gctx *gin.Context, err error) {
	status := ErrorStatus(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(gctx.Request.Context()).Error().Err(err).Send()
		err = errorspkg.ErrInternal
	}

	gctx.JSON(status, web.Error(err))
}

// RespondBindError writes 400 for a request that failed binding.
func RespondBindError(gctx *gin.Context, err error) {
	zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})
		return
	}

	gctx.JSON(http.StatusBadRequest, web.Error(err))
}
