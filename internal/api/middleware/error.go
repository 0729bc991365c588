package middleware

import (
	"fmt"
	"net/http"

	"mortality-valuation/internal/api/models"
	"mortality-valuation/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler recovers from panics in handlers and answers with a 500.
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error(c.Request.Context(), "handler panic",
			logger.String("path", c.Request.URL.Path),
			logger.String("panic", fmt.Sprint(recovered)),
		)
		message := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			message = s
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: message,
			},
		})
	})
}
