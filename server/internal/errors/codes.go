package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a specific error type for insight operations.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeInsufficientData indicates the request lacks enough history.
	ErrCodeInsufficientData ErrorCode = "INSUFFICIENT_DATA"
	// ErrCodeAnalysisFailed indicates the analyzer run failed.
	ErrCodeAnalysisFailed ErrorCode = "ANALYSIS_FAILED"
	// ErrCodeContextCanceled indicates the operation was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeServiceUnavailable indicates the service is not available.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// APIError represents a structured error for insight operations.
type APIError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the error code to an HTTP status code.
func (e *APIError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInvalidArgument, ErrCodeInsufficientData:
		return http.StatusBadRequest
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrCodeContextCanceled:
		return http.StatusRequestTimeout
	case ErrCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *APIError {
	return &APIError{Code: ErrCodeInvalidArgument, Message: msg}
}

// RateLimitExceeded creates a rate limit error.
func RateLimitExceeded(msg string) *APIError {
	return &APIError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// InsufficientData creates an insufficient data error.
func InsufficientData(msg string) *APIError {
	return &APIError{Code: ErrCodeInsufficientData, Message: msg}
}

// AnalysisFailed creates an analysis failure error wrapping the cause.
func AnalysisFailed(msg string, cause error) *APIError {
	return &APIError{Code: ErrCodeAnalysisFailed, Message: msg, Cause: cause}
}

// ContextCanceled creates a canceled error.
func ContextCanceled(msg string) *APIError {
	return &APIError{Code: ErrCodeContextCanceled, Message: msg}
}
