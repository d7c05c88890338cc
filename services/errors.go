package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	// ErrorTypeValidation: client input violates a field rule. Never retried.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNotFound: target record absent or already soft-deleted.
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeRepository: the local store failed before any remote call.
	// Fully safe to retry; no remote side effect occurred.
	ErrorTypeRepository ErrorType = "repository"
	// ErrorTypeSyncFailed: the remote call failed after a local write
	// succeeded. Compensation has already been attempted.
	ErrorTypeSyncFailed ErrorType = "sync_failed"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeInternal     ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// NewValidationError creates a validation error carrying the ordered
// violation messages under the "errors" detail key.
func NewValidationError(messages []string) *DomainError {
	return NewDomainError(ErrorTypeValidation, "validation failed", nil).
		WithDetail("errors", messages)
}

var (
	ErrProductNotFound = NewDomainError(ErrorTypeNotFound, "product not found", nil)
	ErrUserNotFound    = NewDomainError(ErrorTypeNotFound, "user not found", nil)

	ErrNoFieldsToUpdate = NewDomainError(ErrorTypeValidation, "no fields to update", nil)

	ErrInvalidCredentials = NewDomainError(ErrorTypeUnauthorized, "invalid credentials", nil)
	ErrInvalidToken       = NewDomainError(ErrorTypeUnauthorized, "invalid authentication token", nil)

	ErrDuplicateEmail = NewDomainError(ErrorTypeConflict, "email already registered", nil)

	ErrRepositoryFailure = NewDomainError(ErrorTypeRepository, "repository write failed", nil)
	ErrSyncFailed        = NewDomainError(ErrorTypeSyncFailed, "remote mirror write failed", nil)
	ErrInternal          = NewDomainError(ErrorTypeInternal, "internal server error", nil)
)

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return hasType(err, ErrorTypeNotFound)
}

// IsRepositoryError checks if an error is a local-store error
func IsRepositoryError(err error) bool {
	return hasType(err, ErrorTypeRepository)
}

// IsSyncFailedError checks if an error is a failed-mirror error
func IsSyncFailedError(err error) bool {
	return hasType(err, ErrorTypeSyncFailed)
}

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	return hasType(err, ErrorTypeUnauthorized)
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return hasType(err, ErrorTypeConflict)
}

// GetErrorType returns the error type, or ErrorTypeInternal for plain errors
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ErrorTypeInternal
}

// GetErrorDetails extracts details from a domain error, or nil
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

func hasType(err error, t ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == t
	}
	return false
}
