package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleet-console/backend/internal/application/adapter"
	domainerror "github.com/fleet-console/backend/internal/domain/error"
	"github.com/fleet-console/backend/internal/integration/entrypoint/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTokenService struct {
	claims *adapter.TokenClaims
	err    error
}

func (s stubTokenService) ValidateAccessToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	if token != "good" {
		return nil, domainerror.ErrInvalidToken
	}
	return s.claims, nil
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthenticate(t *testing.T) {
	operatorID := uuid.New()
	orgID := uuid.New()
	claims := &adapter.TokenClaims{OperatorID: operatorID, OrganizationID: orgID, Email: "ops@fleet.test"}

	tests := []struct {
		name       string
		service    stubTokenService
		header     string
		upgrade    bool
		query      string
		wantStatus int
		wantCode   domainerror.AuthErrorCode
	}{
		{name: "valid token", service: stubTokenService{claims: claims}, header: "Bearer good", wantStatus: http.StatusOK},
		{name: "missing header", service: stubTokenService{claims: claims}, wantStatus: http.StatusUnauthorized, wantCode: domainerror.ErrCodeMissingToken},
		{name: "not bearer", service: stubTokenService{claims: claims}, header: "Basic abc", wantStatus: http.StatusUnauthorized, wantCode: domainerror.ErrCodeInvalidToken},
		{name: "invalid token", service: stubTokenService{claims: claims}, header: "Bearer bad", wantStatus: http.StatusUnauthorized, wantCode: domainerror.ErrCodeInvalidToken},
		{
			name:       "expired token",
			service:    stubTokenService{err: fmt.Errorf("%w: exp", domainerror.ErrExpiredToken)},
			header:     "Bearer good",
			wantStatus: http.StatusUnauthorized,
			wantCode:   domainerror.ErrCodeExpiredToken,
		},
		{
			name:       "no organization",
			service:    stubTokenService{err: domainerror.ErrMissingOrganization},
			header:     "Bearer good",
			wantStatus: http.StatusForbidden,
			wantCode:   domainerror.ErrCodeMissingOrganization,
		},
		{name: "websocket query token", service: stubTokenService{claims: claims}, upgrade: true, query: "?token=good", wantStatus: http.StatusOK},
		{name: "query token ignored without upgrade", service: stubTokenService{claims: claims}, query: "?token=good", wantStatus: http.StatusUnauthorized, wantCode: domainerror.ErrCodeMissingToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(NewAuthMiddleware(tt.service).Authenticate())
			r.GET("/me", func(c *gin.Context) {
				opID, ok := GetOperatorIDFromContext(c)
				require.True(t, ok)
				org, ok := GetOrganizationIDFromContext(c)
				require.True(t, ok)
				email, _ := GetOperatorEmailFromContext(c)
				c.JSON(http.StatusOK, gin.H{"operator": opID.String(), "org": org.String(), "email": email})
			})

			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.upgrade {
				req.Header.Set("Upgrade", "websocket")
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, rec.Body.String(), orgID.String())
				assert.Contains(t, rec.Body.String(), operatorID.String())
				return
			}
			assert.Equal(t, string(tt.wantCode), decodeError(t, rec).Code)
		})
	}
}

func TestGetOrganizationIDFromContext_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetOrganizationIDFromContext(c)
	assert.False(t, ok)

	c.Set(string(OrganizationIDKey), uuid.Nil)
	_, ok = GetOrganizationIDFromContext(c)
	assert.False(t, ok)
}

func newLimitedRouter(t *testing.T, client redis.Cmdable, max int, orgID uuid.UUID) *gin.Engine {
	t.Helper()
	limiter := NewRateLimiterWithConfig(client, max, time.Minute)
	limiter.skip = false

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if orgID != uuid.Nil {
			c.Set(string(OrganizationIDKey), orgID)
		}
		c.Next()
	})
	r.Use(limiter.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestRateLimiter(t *testing.T) {
	t.Run("blocks after the limit within the window", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		r := newLimitedRouter(t, client, 2, uuid.New())

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
			codes = append(codes, rec.Code)
			if i == 2 {
				assert.Equal(t, string(domainerror.ErrCodeRateLimited), decodeError(t, rec).Code)
				assert.Equal(t, "60", rec.Header().Get("Retry-After"))
				assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
			}
		}
		assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
	})

	t.Run("window expiry resets the counter", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		r := newLimitedRouter(t, client, 1, uuid.New())

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusTooManyRequests, rec.Code)

		mr.FastForward(time.Minute + time.Second)

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("organizations are limited independently", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		first := newLimitedRouter(t, client, 1, uuid.New())
		second := newLimitedRouter(t, client, 1, uuid.New())

		rec := httptest.NewRecorder()
		first.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = httptest.NewRecorder()
		second.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("anonymous requests are keyed by client IP", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		r := newLimitedRouter(t, client, 5, uuid.Nil)

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		r.ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, mr.Exists(rateLimitKeyPrefix+"ip:203.0.113.7"))
	})

	t.Run("redis failure fails open", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		r := newLimitedRouter(t, client, 1, uuid.New())
		mr.SetError("unavailable")

		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
			assert.Equal(t, http.StatusNoContent, rec.Code)
		}
	})
}

func TestNewRateLimiterWithConfig_Defaults(t *testing.T) {
	limiter := NewRateLimiterWithConfig(nil, 0, 0)

	assert.Equal(t, defaultMaxRequests, limiter.maxRequests)
	assert.Equal(t, defaultWindowDuration, limiter.windowDuration)
}
