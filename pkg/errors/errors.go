package errors

import (
	"fmt"
	"net/http"
)

// Error codes carried in the JSON error envelope
const (
	CodeValidation   = "validation_error"
	CodeConflict     = "conflict"
	CodeUnauthorized = "unauthorized"
	CodeNotFound     = "not_found"
	CodeInternal     = "internal_error"
)

// HTTPStatuser is implemented by errors that know how they should be
// presented to an HTTP client.
type HTTPStatuser interface {
	error
	HTTPStatus() int
	Code() string
}

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// HTTPStatus returns 400
func (e *ValidationError) HTTPStatus() int { return http.StatusBadRequest }

// Code returns the envelope code
func (e *ValidationError) Code() string { return CodeValidation }

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns 404
func (e *NotFoundError) HTTPStatus() int { return http.StatusNotFound }

// Code returns the envelope code
func (e *NotFoundError) Code() string { return CodeNotFound }

// ConflictError represents a unique constraint style conflict
type ConflictError struct {
	Resource string
	Message  string
}

// NewConflictError creates a new conflict error
func NewConflictError(resource, message string) *ConflictError {
	return &ConflictError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// HTTPStatus returns 409
func (e *ConflictError) HTTPStatus() int { return http.StatusConflict }

// Code returns the envelope code
func (e *ConflictError) Code() string { return CodeConflict }

// AuthenticationError represents an unknown principal or a bad credential
type AuthenticationError struct {
	Message string
}

// NewAuthenticationError creates a new authentication error
func NewAuthenticationError(message string) *AuthenticationError {
	return &AuthenticationError{Message: message}
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	return e.Message
}

// HTTPStatus returns 401
func (e *AuthenticationError) HTTPStatus() int { return http.StatusUnauthorized }

// Code returns the envelope code
func (e *AuthenticationError) Code() string { return CodeUnauthorized }

// InternalError represents an internal server error with context.
// Only Message is meant for clients; Err stays server side.
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns 500
func (e *InternalError) HTTPStatus() int { return http.StatusInternalServerError }

// Code returns the envelope code
func (e *InternalError) Code() string { return CodeInternal }

// PublicMessage returns the message that is safe to hand to a client.
func PublicMessage(err HTTPStatuser) string {
	switch e := err.(type) {
	case *InternalError:
		return e.Message
	case *ValidationError:
		return e.Message
	default:
		return err.Error()
	}
}
