// Package apperrors defines the typed errors returned across the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application-specific error
type AppError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Cause     error  `json:"-"`
	Operation string `json:"operation,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new application error
func New(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// WithOperation adds operation context to the error
func (e *AppError) WithOperation(operation string) *AppError {
	e.Operation = operation
	return e
}

// WithDetails adds additional details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// Common error codes
const (
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeValidationError = "VALIDATION_ERROR"
	CodeDatabaseError   = "DATABASE_ERROR"
	CodeServiceError    = "SERVICE_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)

func NotFound(message string, cause error) *AppError {
	return New(CodeNotFound, message, cause)
}

func InvalidInput(message string, cause error) *AppError {
	return New(CodeInvalidInput, message, cause)
}

func ValidationError(message string, cause error) *AppError {
	return New(CodeValidationError, message, cause)
}

func DatabaseError(message string, cause error) *AppError {
	return New(CodeDatabaseError, message, cause)
}

func ServiceError(message string, cause error) *AppError {
	return New(CodeServiceError, message, cause)
}

func InternalError(message string, cause error) *AppError {
	return New(CodeInternalError, message, cause)
}

// HTTPStatus maps an error to the response status code. Errors that are not
// an AppError are treated as internal.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidInput, CodeValidationError:
		return http.StatusBadRequest
	case CodeServiceError:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
