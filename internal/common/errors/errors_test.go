package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable error keeps retry budget", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewConcurrentModificationError("g-1", "2024-03-01", 3))

		assert.Equal(t, "CONCURRENT_MODIFICATION", bpmn.Code)
		assert.True(t, bpmn.Retryable)
		assert.Equal(t, 3, bpmn.Retries)
		assert.Equal(t, "CONCURRENT_MODIFICATION", bpmn.ErrorVariables["originalErrorCode"])
	})

	t.Run("business error has no retries", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewInvalidCriteriaError("durationHours must be positive"))

		assert.Equal(t, "INVALID_CRITERIA", bpmn.Code)
		assert.False(t, bpmn.Retryable)
		assert.Zero(t, bpmn.Retries)
		assert.Equal(t, "durationHours must be positive", bpmn.Details)
	})

	t.Run("metadata flows into error variables", func(t *testing.T) {
		stdErr := NewBookingNotFoundError("b-9").WithMetadata("bookingId", "b-9")
		vars := ConvertToBPMNError(stdErr).ToErrorVariables()

		assert.Equal(t, "b-9", vars["bookingId"])
		assert.Equal(t, "BOOKING_NOT_FOUND", vars["errorCode"])
		assert.Equal(t, false, vars["retryable"])
	})

	t.Run("unmapped code falls back to itself", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewTimeoutError("zeebe", fmt.Errorf("deadline exceeded")))
		assert.Equal(t, "TIMEOUT_ERROR", bpmn.Code)
		assert.Equal(t, 1, bpmn.Retries)
	})
}

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeQueryExecutionFailed, 3},
		{ErrCodeEventPublishFailed, 3},
		{ErrCodeSearchTimeout, 2},
		{ErrCodeCacheOperationFailed, 2},
		{ErrCodeGuardNotFound, 0},
		{ErrCodeInputValidationFailed, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetRetryCount(tt.code))
			assert.Equal(t, tt.want > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryTimeout))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeIndexNotFound))
	assert.Equal(t, "CACHE", GetErrorCategory(ErrCodeCacheOperationFailed))
	assert.Equal(t, "MESSAGING", GetErrorCategory(ErrCodeEventPublishFailed))
	assert.Equal(t, "NOT_FOUND", GetErrorCategory(ErrCodeAvailabilityNotFound))
	assert.Equal(t, "CONCURRENCY", GetErrorCategory(ErrCodeConcurrentModification))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidFilterFormat))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestNormalize(t *testing.T) {
	wrapped := fmt.Errorf("book slot: %w", NewGuardNotFoundError("g-2"))

	stdErr := Normalize(wrapped)
	require.NotNil(t, stdErr)
	assert.Equal(t, ErrCodeGuardNotFound, stdErr.Code)

	plain := Normalize(fmt.Errorf("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
	assert.False(t, plain.Retryable)
}
