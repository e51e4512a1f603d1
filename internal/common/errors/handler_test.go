package errors

import (
	"context"
	"fmt"
	"testing"

	"guard-matching/internal/common/camunda/camundatest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Error(msg string, _ map[string]interface{}) {
	l.messages = append(l.messages, msg)
}

func TestHandleJobError_RetryableFailsWithRetries(t *testing.T) {
	client := camundatest.NewJobClient()
	h := NewErrorHandler(&recordingLogger{})

	h.HandleJobError(context.Background(), client, camundatest.Job(1, "{}", 3),
		NewConcurrentModificationError("g-1", "2026-03-02", 3))

	failed := client.Gateway.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, int64(1), failed[0].JobKey)
	assert.Equal(t, int32(2), failed[0].Retries)
	assert.Empty(t, client.Gateway.Thrown())
}

func TestHandleJobError_BusinessErrorThrows(t *testing.T) {
	client := camundatest.NewJobClient()
	h := NewErrorHandler(&recordingLogger{})

	h.HandleJobError(context.Background(), client, camundatest.Job(2, "{}", 3),
		NewGuardNotFoundError("g-404"))

	thrown := client.Gateway.Thrown()
	require.Len(t, thrown, 1)
	assert.Equal(t, "GUARD_NOT_FOUND", thrown[0].ErrorCode)
	assert.Empty(t, client.Gateway.Failed())
}

func TestHandleJobError_LogsRejectedCommand(t *testing.T) {
	client := camundatest.NewJobClient()
	log := &recordingLogger{}
	h := NewErrorHandler(log)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.HandleJobError(ctx, client, camundatest.Job(3, "{}", 0), NewGuardNotFoundError("g-1"))

	assert.Equal(t, 1, client.Gateway.Rejected())
	assert.Contains(t, log.messages, "failed to send job command")
}

func TestNormalize_DeadlineIsRetryable(t *testing.T) {
	stdErr := Normalize(fmt.Errorf("check slot: %w", context.DeadlineExceeded))
	assert.Equal(t, ErrorCode("TIMEOUT_ERROR"), stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Equal(t, 1, ConvertToBPMNError(stdErr).Retries)

	assert.Equal(t, ErrCodeInternal, Normalize(fmt.Errorf("boom")).Code)
}
