package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInternal      = errors.New("internal error")
	ErrUnavailable   = errors.New("service unavailable")
	ErrTimeout       = errors.New("operation timed out")
)

// Stable machine-readable error codes. Clients branch on Code, never on the
// human-readable message.
const (
	CodeInvalidID             = "INVALID_ID"
	CodeValidationError       = "VALIDATION_ERROR"
	CodeMissingRating         = "MISSING_RATING"
	CodeInvalidRating         = "INVALID_RATING"
	CodeCommentTooShort       = "COMMENT_TOO_SHORT"
	CodeCommentTooLong        = "COMMENT_TOO_LONG"
	CodeInvalidCommentContent = "INVALID_COMMENT_CONTENT"
	CodeAuthFailed            = "AUTH_FAILED"
	CodeProductNotFound       = "PRODUCT_NOT_FOUND"
	CodeUserNotFound          = "USER_NOT_FOUND"
	CodeTypeNotFound          = "TYPE_NOT_FOUND"
	CodeProductInactive       = "PRODUCT_INACTIVE"
	CodeProductIDMismatch     = "PRODUCT_ID_MISMATCH"
	CodeDBConnectionError     = "DB_CONNECTION_ERROR"
	CodeTimeout               = "TIMEOUT"
	CodeInternalError         = "INTERNAL_ERROR"
)

// AppError is a structured application error with a stable code and an HTTP
// status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// InvalidID creates a 400 error for a malformed identifier.
func InvalidID(raw string) *AppError {
	return &AppError{
		Code:    CodeInvalidID,
		Message: fmt.Sprintf("invalid identifier format: %q", raw),
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Validation creates a 400 error with a field-specific code from the
// validation taxonomy (MISSING_RATING, COMMENT_TOO_SHORT, ...).
func Validation(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// AuthFailed creates a 401 error for a missing or invalid session.
func AuthFailed(message string) *AppError {
	return &AppError{
		Code:    CodeAuthFailed,
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// ProductNotFound creates a 404 error for a missing product.
func ProductNotFound(id string) *AppError {
	return &AppError{
		Code:    CodeProductNotFound,
		Message: fmt.Sprintf("product %s not found", id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// UserNotFound creates a 404 error for a missing user.
func UserNotFound(id string) *AppError {
	return &AppError{
		Code:    CodeUserNotFound,
		Message: fmt.Sprintf("user %s not found", id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// TypeNotFound creates a 404 error for a missing or inactive catalog type.
func TypeNotFound(slug string) *AppError {
	return &AppError{
		Code:    CodeTypeNotFound,
		Message: fmt.Sprintf("type %q not found or inactive", slug),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// ProductInactive creates a 400 error: the business rule rejects writes
// against inactive products. A client fault, not a server one.
func ProductInactive(id string) *AppError {
	return &AppError{
		Code:    CodeProductInactive,
		Message: fmt.Sprintf("product %s is not active", id),
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// ProductIDMismatch creates a 400 error for a body/path identifier mismatch.
func ProductIDMismatch(pathID, bodyID string) *AppError {
	return &AppError{
		Code:    CodeProductIDMismatch,
		Message: fmt.Sprintf("body product id %s does not match path id %s", bodyID, pathID),
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// DBConnection creates a 503 error for an unreachable store. Retryable.
func DBConnection(err error) *AppError {
	return &AppError{
		Code:    CodeDBConnectionError,
		Message: "store temporarily unavailable",
		Status:  http.StatusServiceUnavailable,
		Err:     errors.Join(ErrUnavailable, err),
	}
}

// Timeout creates a 504 error for an operation that exceeded its budget. Retryable.
func Timeout(operation string) *AppError {
	return &AppError{
		Code:    CodeTimeout,
		Message: fmt.Sprintf("%s exceeded its time budget", operation),
		Status:  http.StatusGatewayTimeout,
		Err:     ErrTimeout,
	}
}

// Internal creates a 500 error with a generic message.
func Internal(err error) *AppError {
	return &AppError{
		Code:    CodeInternalError,
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// FromContextErr maps a context deadline error from a store or upstream call
// to the retryable taxonomy. Returns nil if err carries no deadline error.
func FromContextErr(err error, operation string) *AppError {
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout(operation)
	}
	return nil
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the stable machine code for the given error, falling back to
// INTERNAL_ERROR for uncategorized failures.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	switch {
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case errors.Is(err, ErrUnavailable):
		return CodeDBConnectionError
	case errors.Is(err, ErrUnauthorized):
		return CodeAuthFailed
	case errors.Is(err, ErrInvalidInput):
		return CodeValidationError
	default:
		return CodeInternalError
	}
}
