package error

import "errors"

// Upstream GraphQL API errors.
var (
	// ErrUpstreamUnavailable is returned when the upstream API cannot be reached.
	ErrUpstreamUnavailable = errors.New("upstream API unavailable")

	// ErrUpstreamCircuitOpen is returned when the circuit breaker rejects the call.
	ErrUpstreamCircuitOpen = errors.New("upstream circuit breaker is open")

	// ErrUpstreamGraphQL is returned when the response carries GraphQL errors.
	ErrUpstreamGraphQL = errors.New("upstream returned GraphQL errors")

	// ErrUpstreamBadResponse is returned when the response cannot be decoded.
	ErrUpstreamBadResponse = errors.New("upstream returned a malformed response")
)

// UpstreamErrorCode defines error codes for upstream errors.
// Format: UPS-XXYYYY where XX is category and YYYY is specific error.
type UpstreamErrorCode string

const (
	// Transport errors (01XXXX)
	ErrCodeUpstreamUnavailable UpstreamErrorCode = "UPS-010001"
	ErrCodeUpstreamStatus      UpstreamErrorCode = "UPS-010002"

	// Resilience errors (02XXXX)
	ErrCodeUpstreamCircuitOpen UpstreamErrorCode = "UPS-020001"

	// Payload errors (03XXXX)
	ErrCodeUpstreamGraphQL     UpstreamErrorCode = "UPS-030001"
	ErrCodeUpstreamBadResponse UpstreamErrorCode = "UPS-030002"
)

// UpstreamError represents an upstream error with code and message.
type UpstreamError struct {
	Code      UpstreamErrorCode
	Message   string
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	msg := e.Message
	if e.Operation != "" {
		msg = e.Operation + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError creates a new UpstreamError for the given GraphQL operation.
func NewUpstreamError(code UpstreamErrorCode, operation, message string, err error) *UpstreamError {
	return &UpstreamError{
		Code:      code,
		Message:   message,
		Operation: operation,
		Err:       err,
	}
}
