package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenClaims represents the claims contained in an operator access token.
type TokenClaims struct {
	OperatorID     uuid.UUID
	OrganizationID uuid.UUID
	Email          string
	ExpiresAt      time.Time
}

// TokenService validates access tokens issued by the external auth service.
type TokenService interface {
	// ValidateAccessToken validates an access token and returns its claims.
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)
}
