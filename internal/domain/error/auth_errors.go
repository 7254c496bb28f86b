package error

import "errors"

// Authentication domain errors.
var (
	// ErrInvalidToken is returned when a token is invalid or malformed.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token has expired.
	ErrExpiredToken = errors.New("token has expired")

	// ErrMissingOrganization is returned when the token carries no organization claim.
	ErrMissingOrganization = errors.New("token has no organization")
)

// AuthErrorCode defines error codes for authentication errors.
// Format: AUTH-XXYYYY where XX is category and YYYY is specific error.
type AuthErrorCode string

const (
	// Request errors (02XXXX)
	ErrCodeRateLimited AuthErrorCode = "AUTH-020003"

	// Token errors (03XXXX)
	ErrCodeInvalidToken        AuthErrorCode = "AUTH-030001"
	ErrCodeExpiredToken        AuthErrorCode = "AUTH-030002"
	ErrCodeMissingToken        AuthErrorCode = "AUTH-030003"
	ErrCodeMissingOrganization AuthErrorCode = "AUTH-030004"
)
