package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// WithDetails returns a copy of the error carrying structured details
// (e.g. a full conformity checklist or the available/requested amounts)
func (e *DomainError) WithDetails(details any) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// HasErrorCode reports whether err is a DomainError carrying the given code
func HasErrorCode(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

// Error codes for the execution-document workflow taxonomy.
// All of these are expected, recoverable conditions returned as values.
const (
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodePrerequisiteNotMet   = "PREREQUISITE_NOT_MET"
	CodeBudgetExceeded       = "BUDGET_EXCEEDED"
	CodeReconciliationFailed = "RECONCILIATION_FAILED"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeNotReady             = "NOT_READY"
	CodeStorageUnavailable   = "STORAGE_UNAVAILABLE"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrStorageUnavailable  = NewDomainError(CodeStorageUnavailable, "Persistence layer unavailable")
)
