package error

import "errors"

// Dashboard settings domain errors.
var (
	// ErrSettingsNotFound is returned when an organization has no stored settings.
	ErrSettingsNotFound = errors.New("dashboard settings not found")

	// ErrInvalidTimezone is returned when the timezone is not a known IANA zone.
	ErrInvalidTimezone = errors.New("timezone must be a valid IANA zone name")

	// ErrInvalidTimeframe is returned when the default timeframe is not known.
	ErrInvalidTimeframe = errors.New("default_timeframe must be: daily, weekly, or monthly")

	// ErrInvalidHiddenChart is returned when hidden_charts names an unknown chart.
	ErrInvalidHiddenChart = errors.New("hidden_charts contains an unknown chart")
)

// SettingsErrorCode defines error codes for settings errors.
// Format: SET-XXYYYY where XX is category and YYYY is specific error.
type SettingsErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidTimezone    SettingsErrorCode = "SET-010001"
	ErrCodeInvalidTimeframe   SettingsErrorCode = "SET-010002"
	ErrCodeInvalidHiddenChart SettingsErrorCode = "SET-010003"
	ErrCodeInvalidSettings    SettingsErrorCode = "SET-010004"

	// Not found errors (02XXXX)
	ErrCodeSettingsNotFound SettingsErrorCode = "SET-020001"

	// Internal errors (99XXXX)
	ErrCodeSettingsInternalError SettingsErrorCode = "SET-990001"
)

// SettingsError represents a settings error with code and message.
type SettingsError struct {
	Code    SettingsErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *SettingsError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *SettingsError) Unwrap() error {
	return e.Err
}

// NewSettingsError creates a new SettingsError with the given code and message.
func NewSettingsError(code SettingsErrorCode, message string, err error) *SettingsError {
	return &SettingsError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
