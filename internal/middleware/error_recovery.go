// Package middleware provides gin middleware shared across the gateway routes.
package middleware

import (
	"net/http"
	"runtime/debug"

	"translategw/internal/observability"
	contextutils "translategw/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorRecovery returns middleware that converts panics into structured 500
// responses. Nothing propagates far enough to crash the process.
func ErrorRecovery(logger *observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(c.Request.Context(), "Panic recovered", nil, map[string]interface{}{
					"panic":       r,
					"stack_trace": string(debug.Stack()),
					"http.method": c.Request.Method,
					"http.path":   c.Request.URL.Path,
				})

				appErr := contextutils.NewAppError(
					contextutils.ErrorCodeInternalError,
					contextutils.SeverityFatal,
					"Internal server error",
					"",
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, appErr.ToJSON())
			}
		}()

		c.Next()
	}
}
