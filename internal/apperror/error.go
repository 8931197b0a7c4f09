// Package apperror provides structured, code-based error handling shared by
// every protocol client and the HTTP boundary.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// AppError implements the error interface and carries a stable code,
// an HTTP status, and the wrapped upstream cause.
type AppError struct {
	Code       Code      `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"statusCode"`
	Context    string    `json:"context,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	cause      error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (context: %s)", e.Code, e.Message, e.Context)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is compares AppErrors by code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// ToResponse serializes the error for an HTTP response body.
func (e *AppError) ToResponse() map[string]interface{} {
	body := map[string]interface{}{
		"code":      e.Code,
		"message":   e.Message,
		"timestamp": e.Timestamp.Format(time.RFC3339),
	}
	if e.Context != "" {
		body["context"] = e.Context
	}
	return map[string]interface{}{"error": body}
}

// Option is a functional option for AppError.
type Option func(*AppError)

// WithMessage sets a custom message.
func WithMessage(message string) Option {
	return func(e *AppError) {
		e.Message = message
	}
}

// WithContext adds context information.
func WithContext(context string) Option {
	return func(e *AppError) {
		e.Context = context
	}
}

// WithStatusCode sets a custom HTTP status code.
func WithStatusCode(statusCode int) Option {
	return func(e *AppError) {
		e.StatusCode = statusCode
	}
}

// WithCause wraps an underlying error.
func WithCause(cause error) Option {
	return func(e *AppError) {
		e.cause = cause
	}
}

// New creates a new AppError with the given code and options.
func New(code Code, opts ...Option) *AppError {
	err := &AppError{
		Code:       code,
		Message:    messages[code],
		StatusCode: defaultStatusCode(code),
		Timestamp:  time.Now(),
	}

	for _, opt := range opts {
		opt(err)
	}

	if err.Message == "" {
		err.Message = string(code)
	}

	return err
}

// Validation creates a bad-request error.
func Validation(code Code, context string) *AppError {
	return New(code, WithContext(context), WithStatusCode(http.StatusBadRequest))
}

// Internal creates an internal server error wrapping a cause.
func Internal(code Code, context string, cause error) *AppError {
	return New(code, WithContext(context), WithCause(cause), WithStatusCode(http.StatusInternalServerError))
}

// External creates an external service error wrapping a cause. The upstream
// detail message is preserved in the error context so the caller-facing
// message stays stable.
func External(code Code, context string, cause error) *AppError {
	opts := []Option{WithContext(context), WithStatusCode(http.StatusServiceUnavailable)}
	if cause != nil {
		opts = append(opts, WithCause(cause))
	}
	return New(code, opts...)
}

// Wrap wraps a standard error into an AppError. Existing AppErrors pass
// through unchanged apart from gaining context.
func Wrap(err error, code Code, context string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if context != "" && appErr.Context == "" {
			appErr.Context = context
		}
		return appErr
	}

	return Internal(code, context, err)
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error.
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknownError
}

func defaultStatusCode(code Code) int {
	switch {
	case strings.Contains(string(code), "UNAUTHORIZED"):
		return http.StatusUnauthorized

	case strings.Contains(string(code), "NOT_FOUND"):
		return http.StatusNotFound

	case strings.Contains(string(code), "INVALID"),
		strings.Contains(string(code), "UNSUPPORTED"),
		code == CodeRequiredField:
		return http.StatusBadRequest

	case strings.Contains(string(code), "TIMEOUT"),
		strings.Contains(string(code), "UNAVAILABLE"),
		code == CodeCircuitOpen:
		return http.StatusServiceUnavailable

	case code == CodeRateLimitExceeded, code == CodeAggregatorRateLimited:
		return http.StatusTooManyRequests

	default:
		return http.StatusInternalServerError
	}
}
