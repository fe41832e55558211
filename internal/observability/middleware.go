package observability

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	contextutils "translategw/internal/utils"
)

// GinMiddleware creates OpenTelemetry middleware for Gin HTTP requests
func GinMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// GinMiddlewareWithErrorHandling wraps the OpenTelemetry middleware and adds
// error attributes to the request span for 4xx/5xx responses.
func GinMiddlewareWithErrorHandling(serviceName string) gin.HandlerFunc {
	otel := otelgin.Middleware(serviceName)
	return func(c *gin.Context) {
		otel(c)
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if span == nil {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode < 400 {
			return
		}

		errorMsg := "client error"
		if statusCode >= 500 {
			errorMsg = "server error"
		}

		// Prefer a structured error message from the Gin error context
		for _, err := range c.Errors {
			if appErr, ok := err.Err.(*contextutils.AppError); ok {
				errorMsg = appErr.Message
				span.SetAttributes(attribute.String("error.code", string(appErr.Code)))
				break
			}
			errorMsg = err.Error()
		}

		span.SetAttributes(
			attribute.Int("http.status_code", statusCode),
			attribute.String("error.message", errorMsg),
		)
		if statusCode >= 500 {
			span.SetStatus(codes.Error, errorMsg)
		}
	}
}
