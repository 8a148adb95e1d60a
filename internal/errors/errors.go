package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/vytor/torii/internal/study"
)

// Error codes
const (
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeConflict   = "CONFLICT"
	ErrCodeUpstream   = "UPSTREAM_ERROR"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusBadRequest,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewConflictError creates a CONFLICT error for operations the current state does not allow.
func NewConflictError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  http.StatusConflict,
		Err:     err,
	}
}

// As extracts an *AppError from err, wrapping anything else as internal.
func As(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

// FromStudyError maps study engine errors onto the HTTP taxonomy.
func FromStudyError(err error) *AppError {
	var fetchErr *study.FetchError
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, study.ErrUnknownStudySet):
		return &AppError{Code: ErrCodeNotFound, Message: err.Error(), Status: http.StatusNotFound, Err: err}
	case stderrors.As(err, &fetchErr):
		return &AppError{Code: ErrCodeUpstream, Message: "failed to load vocabulary", Status: http.StatusBadGateway, Err: err}
	case stderrors.Is(err, study.ErrEmptySet), stderrors.Is(err, study.ErrInsufficientDistractors):
		return &AppError{Code: ErrCodeValidation, Message: err.Error(), Status: http.StatusUnprocessableEntity, Err: err}
	case stderrors.Is(err, study.ErrInvalidOption):
		return NewValidationError("answer", "not one of the offered options")
	case stderrors.Is(err, study.ErrNotReady), stderrors.Is(err, study.ErrNotRestartable),
		stderrors.Is(err, study.ErrSuperseded), stderrors.Is(err, study.ErrClosed):
		return NewConflictError(err.Error(), err)
	default:
		return As(err)
	}
}
