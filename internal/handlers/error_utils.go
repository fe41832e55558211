package handlers

import (
	"net/http"

	contextutils "translategw/internal/utils"

	"github.com/gin-gonic/gin"
)

// HandleAppError handles any error and sends the appropriate HTTP response
func HandleAppError(c *gin.Context, err error) {
	if appErr, ok := err.(*contextutils.AppError); ok {
		StandardizeAppError(c, appErr)
		return
	}

	// Fallback for non-AppError types; the raw message stays server-side
	StandardizeAppError(c, contextutils.NewAppErrorWithCause(
		contextutils.ErrorCodeInternalError,
		contextutils.SeverityError,
		"Internal server error",
		"",
		err,
	))
}

// StandardizeAppError sends a structured error response using AppError
func StandardizeAppError(c *gin.Context, err *contextutils.AppError) {
	statusCode := mapErrorCodeToHTTPStatus(err.Code)
	_ = c.Error(err)
	c.JSON(statusCode, err.ToJSON())
}

// mapErrorCodeToHTTPStatus maps AppError codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code contextutils.ErrorCode) int {
	switch code {
	// 4xx Client Errors
	case contextutils.ErrorCodeInvalidInput, contextutils.ErrorCodeMissingRequired,
		contextutils.ErrorCodeInvalidLanguageTag:
		return http.StatusBadRequest

	// 5xx Server Errors
	case contextutils.ErrorCodeClientInit, contextutils.ErrorCodeServiceUnavailable:
		return http.StatusServiceUnavailable

	case contextutils.ErrorCodeUpstreamCall:
		return http.StatusBadGateway

	case contextutils.ErrorCodeTimeout:
		return http.StatusGatewayTimeout

	// Default to internal server error for unknown codes
	default:
		return http.StatusInternalServerError
	}
}
