package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode classifies a DomainError for transport mapping.
type ErrorCode string

const (
	CodeUnauthenticated   ErrorCode = "UNAUTHENTICATED"
	CodeForbidden         ErrorCode = "FORBIDDEN"
	CodeValidation        ErrorCode = "VALIDATION_ERROR"
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	CodeStorage           ErrorCode = "STORAGE_ERROR"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeConflict          ErrorCode = "CONFLICT"
)

// DomainError is the error type returned by services and repositories.
type DomainError struct {
	Code    ErrorCode
	Message string
	Fields  map[string]string
	cause   error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// Unwrap returns the underlying cause, if any.
func (e *DomainError) Unwrap() error { return e.cause }

// NewUnauthenticatedError is returned when no session identity exists.
func NewUnauthenticatedError(message string) *DomainError {
	return &DomainError{Code: CodeUnauthenticated, Message: message}
}

// NewForbiddenError is returned when the identity does not own the resource.
func NewForbiddenError(message string) *DomainError {
	return &DomainError{Code: CodeForbidden, Message: message}
}

// NewValidationError creates a validation error without field details.
func NewValidationError(message string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: message}
}

// NewFieldValidationError creates a validation error carrying per-field messages.
func NewFieldValidationError(fields map[string]string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: "validation failed", Fields: fields}
}

// NewInvalidStateError is returned when a status change is not permitted.
func NewInvalidStateError(from, to string) *DomainError {
	return &DomainError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

// NewStorageError wraps a backend failure.
func NewStorageError(message string, cause error) *DomainError {
	return &DomainError{Code: CodeStorage, Message: message, cause: cause}
}

// NewNotFoundError is returned when the referenced entity is missing.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: fmt.Sprintf("%s not found: %s", entity, id)}
}

// NewConflictError is returned on uniqueness violations.
func NewConflictError(message string) *DomainError {
	return &DomainError{Code: CodeConflict, Message: message}
}

// CodeOf returns the DomainError code of err, or "" when err is not a DomainError.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsCode reports whether err is a DomainError with the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
