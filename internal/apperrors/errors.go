// Package apperrors defines the error kinds surfaced by the store services.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeTransient    = "TRANSIENT_DATABASE_ERROR"
	CodeDegraded     = "DEGRADED_METRIC"
	CodeInternal     = "INTERNAL_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
)

// AppError is a structured application error with HTTP status and code.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError.
func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// Wrap wraps err into an AppError.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Err: err}
}

// Validation reports malformed or out-of-domain input.
func Validation(format string, args ...interface{}) *AppError {
	return New(CodeValidation, fmt.Sprintf(format, args...), http.StatusBadRequest)
}

// NotFound reports a missing document or row.
func NotFound(format string, args ...interface{}) *AppError {
	return New(CodeNotFound, fmt.Sprintf(format, args...), http.StatusNotFound)
}

// Transient wraps a database failure the caller may retry.
func Transient(err error) *AppError {
	return Wrap(err, CodeTransient, "database temporarily unavailable", http.StatusServiceUnavailable)
}

// Degraded marks a best-effort metric that fell back to zero.
func Degraded(metric string, err error) *AppError {
	return Wrap(err, CodeDegraded, "metric "+metric+" unavailable", http.StatusOK)
}

// Internal wraps an unexpected failure.
func Internal(err error) *AppError {
	return Wrap(err, CodeInternal, "internal server error", http.StatusInternalServerError)
}

// Unauthorized reports failed authentication.
func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

// As returns the AppError in err's chain, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func hasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

func IsValidation(err error) bool { return hasCode(err, CodeValidation) }

func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

func IsTransient(err error) bool { return hasCode(err, CodeTransient) }

func IsDegraded(err error) bool { return hasCode(err, CodeDegraded) }

// HTTPStatus maps any error to a response status. Unknown errors are 500.
func HTTPStatus(err error) int {
	if appErr, ok := As(err); ok && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message safe to send to clients.
func PublicMessage(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Message
	}
	return "internal server error"
}
