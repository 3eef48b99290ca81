package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every DomainError belongs to exactly one kind; the HTTP layer
// maps kinds to status codes.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUpstream     = errors.New("upstream service error")
	ErrPersistence  = errors.New("persistence error")
)

// DomainError is the typed error returned by services and repositories.
type DomainError struct {
	Kind    error
	Code    string
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *DomainError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Is reports whether target is a DomainError carrying the same code, so that
// package-level sentinels match instances created with WithCause.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithCause returns a copy of e wrapping cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// NewValidationError creates a client-correctable error.
func NewValidationError(code, message string) *DomainError {
	return &DomainError{Kind: ErrValidation, Code: code, Message: message}
}

// NewNotFoundError creates an error for a missing entity.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{Kind: ErrNotFound, Code: "NOT_FOUND", Message: fmt.Sprintf("%s %q not found", entity, id)}
}

// NewConflictError creates an error for a request that clashes with the
// current state of an entity.
func NewConflictError(code, message string) *DomainError {
	return &DomainError{Kind: ErrConflict, Code: code, Message: message}
}

// NewUpstreamError creates an error for a failing external dependency.
func NewUpstreamError(code, message string, cause error) *DomainError {
	return &DomainError{Kind: ErrUpstream, Code: code, Message: message, Cause: cause}
}

// NewPersistenceError creates an error for a failed storage operation.
func NewPersistenceError(op string, cause error) *DomainError {
	return &DomainError{Kind: ErrPersistence, Code: "PERSISTENCE_ERROR", Message: op, Cause: cause}
}
