package contextutils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name: "without details",
			err: &AppError{
				Code:    ErrorCodeUpstreamCall,
				Message: "Upstream translation call failed",
			},
			expected: "UPSTREAM_CALL_ERROR: Upstream translation call failed",
		},
		{
			name: "with details",
			err: &AppError{
				Code:    ErrorCodeInvalidLanguageTag,
				Message: "Invalid language tag",
				Details: "source_lang",
			},
			expected: "INVALID_LANGUAGE_TAG: Invalid language tag - source_lang",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Is(t *testing.T) {
	err := NewAppError(ErrorCodeClientInit, SeverityError, "init failed", "")
	assert.True(t, errors.Is(err, ErrClientInit))
	assert.False(t, errors.Is(err, ErrUpstreamCall))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewAppErrorWithCause(ErrorCodeClientInit, SeverityError, "init failed", "", cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestWrapError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		assert.NoError(t, WrapError(nil, "context"))
	})

	t.Run("preserves app error code", func(t *testing.T) {
		wrapped := WrapError(ErrUpstreamCall, "predict failed")
		var appErr *AppError
		require.ErrorAs(t, wrapped, &appErr)
		assert.Equal(t, ErrorCodeUpstreamCall, appErr.Code)
		assert.Equal(t, "predict failed", appErr.Message)
	})

	t.Run("wraps plain error as internal", func(t *testing.T) {
		wrapped := WrapError(fmt.Errorf("boom"), "something broke")
		assert.Equal(t, ErrorCodeInternalError, GetErrorCode(wrapped))
	})
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrorCodeClientInit, GetErrorCode(ErrClientInit))
	assert.Equal(t, ErrorCodeInternalError, GetErrorCode(fmt.Errorf("plain")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrClientInit))
	assert.True(t, IsRetryable(ErrTimeout))
	assert.True(t, IsRetryable(ErrServiceUnavailable))
	assert.False(t, IsRetryable(ErrInvalidLanguageTag))
	assert.False(t, IsRetryable(ErrUpstreamCall))
	assert.False(t, IsRetryable(fmt.Errorf("plain")))
}

func TestAppError_ToJSON_RedactsDetails(t *testing.T) {
	err := NewAppErrorWithCause(
		ErrorCodeUpstreamCall,
		SeverityError,
		"Upstream translation call failed",
		"POST https://internal.example/predict: 500 stack trace here",
		fmt.Errorf("raw upstream exception"),
	)

	payload := err.ToJSON()
	assert.Equal(t, "UPSTREAM_CALL_ERROR", payload["code"])
	assert.Equal(t, "Upstream translation call failed", payload["message"])
	assert.NotContains(t, payload, "details")
	assert.NotContains(t, payload, "cause")
}
