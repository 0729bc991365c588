package handlers

import (
	"errors"
	"net/http"

	"mortality-valuation/internal/api/models"
	"mortality-valuation/internal/model"
	"mortality-valuation/internal/store"

	"github.com/gin-gonic/gin"
)

// statusFor maps a pipeline error kind to an HTTP status. Bad input is the
// caller's fault; divergence and domain failures mean the inputs were well
// formed but the model cannot be evaluated on them.
func statusFor(kind model.ErrorKind) int {
	switch kind {
	case model.KindConfiguration, model.KindInputData:
		return http.StatusBadRequest
	case model.KindDivergence, model.KindDomain:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: err.Error()},
		})
		return
	}

	var me *model.Error
	if errors.As(err, &me) {
		c.JSON(statusFor(me.Kind), models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    string(me.Kind),
				Message: me.Error(),
				Details: me.Context,
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: models.ErrorDetail{Code: "INTERNAL_ERROR", Message: err.Error()},
	})
}

func badRequest(c *gin.Context, code string, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: err.Error()},
	})
}
