package delve

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyQuery is returned when a research run is started without a question.
	ErrEmptyQuery = errors.New("empty query")

	// ErrGatewayFailure matches any error raised by a language model gateway call.
	ErrGatewayFailure = errors.New("gateway failure")
)

// GatewayError wraps a failed gateway call made on behalf of a workflow step.
type GatewayError struct {
	Step string // step that issued the call
	Err  error  // underlying provider error
}

// Error returns a message naming the step and the provider failure.
func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway call from %q failed: %v", e.Step, e.Err)
}

// Unwrap returns the underlying provider error.
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrGatewayFailure.
func (e *GatewayError) Is(target error) bool {
	return target == ErrGatewayFailure
}

// ErrorCategory classifies errors by how they should be handled.
type ErrorCategory string

const (
	// ErrorTransient indicates the error is temporary and the operation could succeed later.
	// Examples: rate limits, temporary network issues, server overload.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent indicates the error is not recoverable through retry.
	// Examples: invalid API key, insufficient permissions, model not found.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput indicates the request itself was invalid.
	// Examples: malformed request, invalid parameters, content policy violation.
	ErrorUserInput ErrorCategory = "user_input"
)

// CategorizedError is an error that provides information about how it should be handled.
type CategorizedError interface {
	error
	Category() ErrorCategory
	Retryable() bool           // convenience: returns true if Category == ErrorTransient
	StatusCode() int           // HTTP status code if applicable, 0 otherwise
	RetryAfter() time.Duration // suggested retry delay from server, 0 if not available
}

// Error is a categorized provider error.
type Error struct {
	Msg        string
	Cat        ErrorCategory
	Code       int           // HTTP status code, 0 if not applicable
	RetryDelay time.Duration // from Retry-After header, 0 if not available
	Cause      error         // underlying error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Category returns the error category.
func (e *Error) Category() ErrorCategory {
	return e.Cat
}

// Retryable returns true if the error is transient.
func (e *Error) Retryable() bool {
	return e.Cat == ErrorTransient
}

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int {
	return e.Code
}

// RetryAfter returns the suggested retry delay, or 0 if not available.
func (e *Error) RetryAfter() time.Duration {
	return e.RetryDelay
}

// NewTransientError creates a transient error.
func NewTransientError(msg string, statusCode int, cause error) *Error {
	return &Error{
		Msg:   msg,
		Cat:   ErrorTransient,
		Code:  statusCode,
		Cause: cause,
	}
}

// NewTransientErrorWithRetry creates a transient error with a suggested retry delay.
func NewTransientErrorWithRetry(msg string, statusCode int, retryAfter time.Duration, cause error) *Error {
	return &Error{
		Msg:        msg,
		Cat:        ErrorTransient,
		Code:       statusCode,
		RetryDelay: retryAfter,
		Cause:      cause,
	}
}

// NewPermanentError creates a permanent error.
func NewPermanentError(msg string, statusCode int, cause error) *Error {
	return &Error{
		Msg:   msg,
		Cat:   ErrorPermanent,
		Code:  statusCode,
		Cause: cause,
	}
}

// NewUserInputError creates an error indicating an invalid request.
func NewUserInputError(msg string, statusCode int, cause error) *Error {
	return &Error{
		Msg:   msg,
		Cat:   ErrorUserInput,
		Code:  statusCode,
		Cause: cause,
	}
}

// CategorizeStatusCode maps an HTTP status code returned by a provider API
// to an error category.
func CategorizeStatusCode(code int) ErrorCategory {
	switch {
	case code == 429:
		return ErrorTransient // Rate limited
	case code >= 500 && code < 600:
		return ErrorTransient // Server error
	case code == 401 || code == 403:
		return ErrorPermanent // Authentication/authorization
	case code == 400 || code == 404 || code == 422:
		return ErrorUserInput // Bad request or not found
	default:
		return ErrorPermanent
	}
}

// NewStatusError builds a categorized error from a provider status code.
func NewStatusError(msg string, statusCode int, retryAfter time.Duration, cause error) *Error {
	if retryAfter > 0 {
		return NewTransientErrorWithRetry(msg, statusCode, retryAfter, cause)
	}
	switch CategorizeStatusCode(statusCode) {
	case ErrorTransient:
		return NewTransientError(msg, statusCode, cause)
	case ErrorUserInput:
		return NewUserInputError(msg, statusCode, cause)
	default:
		return NewPermanentError(msg, statusCode, cause)
	}
}

// IsTransient returns true if the error is categorized as transient.
// It checks if the error or any wrapped error implements CategorizedError.
func IsTransient(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorTransient
	}
	return false
}

// IsPermanent returns true if the error is categorized as permanent.
func IsPermanent(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorPermanent
	}
	return false
}

// IsUserInput returns true if the error is categorized as a user input error.
func IsUserInput(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorUserInput
	}
	return false
}

// StatusCodeOf returns the HTTP status code from a categorized error, or 0.
func StatusCodeOf(err error) int {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return 0
}
