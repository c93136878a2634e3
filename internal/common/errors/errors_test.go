// internal/common/errors/errors_test.go
package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardError_Error(t *testing.T) {
	err := NewValidationError("query missing")
	assert.Equal(t, "StandardError[VALIDATION_FAILED]: Request validation failed", err.Error())
	assert.False(t, err.Retryable)
	assert.False(t, err.Timestamp.IsZero())
}

func TestNewProviderSearchError(t *testing.T) {
	err := NewProviderSearchError("Amazon", fmt.Errorf("status 500"))
	assert.Equal(t, ErrCodeProviderSearchFailed, err.Code)
	assert.Equal(t, "status 500", err.Details)
	assert.True(t, err.Retryable)
	assert.Equal(t, "Amazon", err.Metadata["provider"])
}

func TestNewCompletionBadOutputError(t *testing.T) {
	err := NewCompletionBadOutputError("recommend", fmt.Errorf("no JSON payload"))
	assert.Equal(t, ErrCodeCompletionBadOutput, err.Code)
	assert.Equal(t, "recommend", err.Metadata["stage"])
	assert.False(t, err.Retryable)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeCompletionTimeout, CodeOf(NewCompletionTimeoutError("analyze-query")))
	assert.Equal(t, ErrCodePipelineFailed, CodeOf(fmt.Errorf("plain error")))
}
