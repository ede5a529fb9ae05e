package errors

import (
	"net/http"
)

// Error codes carried in the error_code extension of every problem response.
const (
	CodeInvalidPeriod     = "INVALID_PERIOD"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeUnknownTable      = "UNKNOWN_TABLE"
	CodeNotFound          = "NOT_FOUND"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeInternal          = "INTERNAL_SERVER_ERROR"
	CodeExportFailed      = "EXPORT_FAILED"
	CodeDatasetNotLoaded  = "DATASET_NOT_LOADED"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined errors. Treat them as read-only; use the helpers below to attach details.
var (
	// 400 Bad Request
	ErrInvalidPeriod     = New(http.StatusBadRequest, CodeInvalidPeriod, "Invalid period: year and month must be given together, month in 1..12")
	ErrUnsupportedFormat = New(http.StatusBadRequest, CodeUnsupportedFormat, "Unsupported export format")
	ErrUnknownTable      = New(http.StatusBadRequest, CodeUnknownTable, "Unknown export table")

	// 404 Not Found
	ErrNotFound = New(http.StatusNotFound, CodeNotFound, "The requested resource was not found")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, CodeRateLimitExceeded, "Rate limit exceeded. Please retry later")

	// 500 Internal Server Error
	ErrInternalServer = New(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred while processing your request")
	ErrExportFailed   = New(http.StatusInternalServerError, CodeExportFailed, "Export failed")

	// 503 Service Unavailable
	ErrDatasetNotLoaded = New(http.StatusServiceUnavailable, CodeDatasetNotLoaded, "Dataset is not loaded")
)

// InvalidPeriodError reports a rejected year/month query with the offending fields.
func InvalidPeriodError(fields []ValidationError) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidPeriod, ErrInvalidPeriod.Message, ValidationErrors{Errors: fields})
}
