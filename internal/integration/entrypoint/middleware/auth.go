// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fleet-console/backend/internal/application/adapter"
	domainerror "github.com/fleet-console/backend/internal/domain/error"
	"github.com/fleet-console/backend/internal/integration/entrypoint/dto"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// OperatorIDKey is the context key for the authenticated operator's ID.
	OperatorIDKey ContextKey = "operator_id"
	// OrganizationIDKey is the context key for the operator's organization.
	OrganizationIDKey ContextKey = "organization_id"
	// OperatorEmailKey is the context key for the authenticated operator's email.
	OperatorEmailKey ContextKey = "operator_email"
)

// websocketTokenParam carries the token on websocket upgrades, where browsers cannot set headers.
const websocketTokenParam = "token"

// AuthMiddleware provides JWT authentication middleware.
type AuthMiddleware struct {
	tokenService adapter.TokenService
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(tokenService adapter.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate returns a Gin middleware handler that enforces JWT authentication.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			abortUnauthorized(c, "Authorization header is required", domainerror.ErrCodeMissingToken)
			return
		}
		if token == "" {
			abortUnauthorized(c, "Invalid authorization header format", domainerror.ErrCodeInvalidToken)
			return
		}

		claims, err := m.tokenService.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, domainerror.ErrExpiredToken):
				abortUnauthorized(c, "Token has expired", domainerror.ErrCodeExpiredToken)
			case errors.Is(err, domainerror.ErrMissingOrganization):
				c.JSON(http.StatusForbidden, dto.ErrorResponse{
					Error: "Token is not bound to an organization",
					Code:  string(domainerror.ErrCodeMissingOrganization),
				})
				c.Abort()
			default:
				abortUnauthorized(c, "Invalid or expired token", domainerror.ErrCodeInvalidToken)
			}
			return
		}

		c.Set(string(OperatorIDKey), claims.OperatorID)
		c.Set(string(OrganizationIDKey), claims.OrganizationID)
		c.Set(string(OperatorEmailKey), claims.Email)

		c.Next()
	}
}

// extractToken reads the bearer token. ok is false when no credential was sent at all;
// an empty token with ok set means the header was malformed.
func extractToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if isWebsocketUpgrade(c.Request) {
			if token := c.Query(websocketTokenParam); token != "" {
				return token, true
			}
		}
		return "", false
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", true
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")), true
}

func isWebsocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

func abortUnauthorized(c *gin.Context, message string, code domainerror.AuthErrorCode) {
	c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: message,
		Code:  string(code),
	})
	c.Abort()
}

// GetOperatorIDFromContext extracts the operator ID from the Gin context.
func GetOperatorIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	operatorID, exists := c.Get(string(OperatorIDKey))
	if !exists {
		return uuid.Nil, false
	}
	id, ok := operatorID.(uuid.UUID)
	return id, ok
}

// GetOrganizationIDFromContext extracts the organization ID from the Gin context.
func GetOrganizationIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	orgID, exists := c.Get(string(OrganizationIDKey))
	if !exists {
		return uuid.Nil, false
	}
	id, ok := orgID.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// GetOperatorEmailFromContext extracts the operator email from the Gin context.
func GetOperatorEmailFromContext(c *gin.Context) (string, bool) {
	email, exists := c.Get(string(OperatorEmailKey))
	if !exists {
		return "", false
	}
	emailStr, ok := email.(string)
	return emailStr, ok
}
