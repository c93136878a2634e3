// Package errors provides standardized error handling for the
// recommendation pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Inbound request errors.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Catalog provider errors. These are always isolated to one provider's
	// contribution and never surface to the caller.
	ErrCodeProviderSearchFailed ErrorCode = "PROVIDER_SEARCH_FAILED"
	ErrCodeProviderTimeout      ErrorCode = "PROVIDER_TIMEOUT"
	ErrCodeProviderBadResponse  ErrorCode = "PROVIDER_BAD_RESPONSE"

	// Completion service errors. Each AI-backed stage degrades to its
	// deterministic fallback on any of these.
	ErrCodeCompletionFailed    ErrorCode = "COMPLETION_FAILED"
	ErrCodeCompletionTimeout   ErrorCode = "COMPLETION_TIMEOUT"
	ErrCodeCompletionBadOutput ErrorCode = "COMPLETION_BAD_OUTPUT"

	// Anything else caught at the orchestrator boundary.
	ErrCodePipelineFailed ErrorCode = "PIPELINE_FAILED"
)

// StandardError carries a machine-readable code alongside the human message.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewValidationError creates a non-retryable inbound validation error.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderSearchError wraps a single provider's transport or schema
// failure.
func NewProviderSearchError(provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderSearchFailed,
		Message:   fmt.Sprintf("Catalog search failed for %s", provider),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"provider": provider},
		Timestamp: time.Now().UTC(),
	}
}

// NewCompletionTimeoutError creates a retryable completion timeout error.
func NewCompletionTimeoutError(stage string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCompletionTimeout,
		Message:   "Completion service timeout",
		Details:   fmt.Sprintf("call from stage %q exceeded its deadline", stage),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCompletionBadOutputError marks a completion response that could not be
// coerced into the expected structured shape.
func NewCompletionBadOutputError(stage string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCompletionBadOutput,
		Message:   "Completion service returned unusable output",
		Details:   err.Error(),
		Retryable: false,
		Metadata:  map[string]interface{}{"stage": stage},
		Timestamp: time.Now().UTC(),
	}
}

// NewPipelineError wraps an unexpected failure caught at the orchestrator
// boundary.
func NewPipelineError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePipelineFailed,
		Message:   "Pipeline execution failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf extracts the ErrorCode from an error, defaulting to PIPELINE_FAILED.
func CodeOf(err error) ErrorCode {
	if se, ok := err.(*StandardError); ok {
		return se.Code
	}
	return ErrCodePipelineFailed
}
