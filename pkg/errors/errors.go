package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an error into one of the closed set of kinds the
// system distinguishes. Batch callers branch on these kinds to decide
// whether to continue or abort, instead of matching error strings.
type ErrorType string

const (
	// ErrorTypeValidation covers edge-type, table-pair and confidence-range
	// violations. The offending write is rejected with no partial state.
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeNotFound covers lookups of absent nodes, including edge
	// creation referencing a nonexistent endpoint.
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeProvider covers an external collaborator being unreachable,
	// timing out, or returning a non-success status.
	ErrorTypeProvider ErrorType = "PROVIDER"

	// ErrorTypeExtraction covers responses that were received but do not
	// match the expected schema (malformed JSON, missing required keys).
	ErrorTypeExtraction ErrorType = "EXTRACTION"

	// Infrastructure errors
	ErrorTypeDatabase ErrorType = "DATABASE"
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError is the application-specific error carried across component
// boundaries.
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// Constructor functions for the error kinds

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a not found error for the named resource
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewProviderError wraps a failure to reach or get a success response from
// an external collaborator.
func NewProviderError(operation string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeProvider,
		Message:    fmt.Sprintf("provider call '%s' failed", operation),
		Cause:      cause,
		HTTPStatus: http.StatusBadGateway,
	}
}

// NewExtractionError marks a provider response that arrived but failed
// schema validation.
func NewExtractionError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeExtraction,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeDatabase,
		Message:    fmt.Sprintf("database operation '%s' failed", operation),
		Cause:      cause,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// isType reports whether err is an AppError of the given type anywhere in
// its chain.
func isType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// IsValidation checks whether err is a validation error
func IsValidation(err error) bool { return isType(err, ErrorTypeValidation) }

// IsNotFound checks whether err is a not-found error
func IsNotFound(err error) bool { return isType(err, ErrorTypeNotFound) }

// IsProvider checks whether err is a provider error
func IsProvider(err error) bool { return isType(err, ErrorTypeProvider) }

// IsExtraction checks whether err is an extraction error
func IsExtraction(err error) bool { return isType(err, ErrorTypeExtraction) }

// HTTPStatusOf resolves the HTTP status an error should map to, defaulting
// to 500 for unclassified errors.
func HTTPStatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
