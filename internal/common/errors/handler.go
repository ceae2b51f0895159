// internal/common/errors/handler.go
package errors

import (
	"net/http"
	"time"
)

// HTTPError is the JSON body written for surfaced errors.
type HTTPError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps an error code to a response status. The engine favors
// availability: collaborator failures are recovered before reaching the HTTP
// layer, so in practice only InvalidInput and Internal map here.
func HTTPStatus(code ErrorCode) int {
	if IsClientError(code) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ToHTTP converts any error into a (status, body) pair.
func ToHTTP(err error) (int, HTTPError) {
	stdErr := Normalize(err)
	return HTTPStatus(stdErr.Code), HTTPError{
		Code:    stdErr.Code,
		Message: stdErr.Message,
		Details: stdErr.Details,
	}
}
