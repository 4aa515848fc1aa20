package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes. Domain codes come through unchanged from the
// workflow taxonomy; these cover failures that never reach the domain.
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps workflow and transport error codes to HTTP status.
// Business-rule rejections are 422: the request was well formed, the workflow
// refused it. State conflicts are 409. Storage outages are 503 so clients
// can distinguish retryable failures.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeInternal:     http.StatusInternalServerError,

	"VALIDATION_FAILED": http.StatusBadRequest,
	"INVALID_INPUT":     http.StatusBadRequest,

	"NOT_FOUND": http.StatusNotFound,

	"ALREADY_EXISTS":       http.StatusConflict,
	"DUPLICATE_REQUEST":    http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"INVALID_TRANSITION":   http.StatusConflict,
	"INVALID_STATE":        http.StatusConflict,

	"PREREQUISITE_NOT_MET":  http.StatusUnprocessableEntity,
	"BUDGET_EXCEEDED":       http.StatusUnprocessableEntity,
	"RECONCILIATION_FAILED": http.StatusUnprocessableEntity,
	"NOT_READY":             http.StatusUnprocessableEntity,

	"STORAGE_UNAVAILABLE": http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for an error code. Unmapped
// INVALID_* codes (malformed domain input) are 400; anything else is 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
