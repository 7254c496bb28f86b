// Package error defines domain-specific errors for the Fleet Console backend.
package error

import "errors"

// ErrUnknownChart is returned when the requested chart kind does not exist.
var ErrUnknownChart = errors.New("unknown chart")

// ChartErrorCode defines error codes for chart errors.
// Format: CHT-XXYYYY where XX is category and YYYY is specific error.
type ChartErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeUnknownChart ChartErrorCode = "CHT-010001"

	// Internal errors (99XXXX)
	ErrCodeChartInternalError ChartErrorCode = "CHT-990001"
)

// ChartError represents a chart error with code and message.
type ChartError struct {
	Code    ChartErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ChartError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ChartError) Unwrap() error {
	return e.Err
}

// NewChartError creates a new ChartError with the given code and message.
func NewChartError(code ChartErrorCode, message string, err error) *ChartError {
	return &ChartError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
