// Package errors provides standardized error handling for the engine.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	ErrCodeSearchUnavailable    ErrorCode = "SEARCH_UNAVAILABLE"
	ErrCodeSearchQueryFailed    ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeWarehouseUnavailable ErrorCode = "WAREHOUSE_UNAVAILABLE"
	ErrCodeWarehouseQueryFailed ErrorCode = "WAREHOUSE_QUERY_FAILED"
	ErrCodeGenerationFailed     ErrorCode = "GENERATION_FAILED"
	ErrCodeGenerationTimeout    ErrorCode = "GENERATION_TIMEOUT"
	ErrCodeQuerylogUnavailable  ErrorCode = "QUERYLOG_UNAVAILABLE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
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

// NewInvalidInputError creates a non-retryable client error. This is the only
// error the /ask endpoint ever surfaces to callers.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Query text is required",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchUnavailableError marks the document-search collaborator as down.
// Recovered locally by the orchestrator; never surfaced to callers.
func NewSearchUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchUnavailable,
		Message:   "Document search collaborator unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError wraps a failed search request.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Document search query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWarehouseUnavailableError marks the analytics collaborator as down.
func NewWarehouseUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeWarehouseUnavailable,
		Message:   "Analytics warehouse unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWarehouseQueryFailedError wraps a failed indicator query.
func NewWarehouseQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeWarehouseQueryFailed,
		Message:   "Economic indicator query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationFailedError wraps a failed generation call. The orchestrator
// substitutes the apology text instead of propagating this.
func NewGenerationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Text generation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationTimeoutError wraps a generation deadline overrun.
func NewGenerationTimeoutError(modelID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationTimeout,
		Message:   "Text generation timed out",
		Details:   fmt.Sprintf("model: %s", modelID),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuerylogUnavailableError wraps a failed query-log write. Best effort
// only; never affects the response.
func NewQuerylogUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuerylogUnavailable,
		Message:   "Query log write failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// IsClientError reports whether the code maps to a 4xx response.
func IsClientError(code ErrorCode) bool {
	return code == ErrCodeInvalidInput
}

// GetErrorCategory groups codes for logging and metrics.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeInvalidInput:
		return "client"
	case ErrCodeSearchUnavailable, ErrCodeSearchQueryFailed:
		return "search"
	case ErrCodeWarehouseUnavailable, ErrCodeWarehouseQueryFailed:
		return "warehouse"
	case ErrCodeGenerationFailed, ErrCodeGenerationTimeout:
		return "generation"
	case ErrCodeQuerylogUnavailable:
		return "querylog"
	default:
		return "internal"
	}
}
