// Package graphql provides the client for the upstream fleet GraphQL API.
package graphql

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/fleet-console/backend/internal/application/adapter"
	domainerror "github.com/fleet-console/backend/internal/domain/error"
)

const (
	breakerName = "fleet-graphql"

	// maxErrorBody bounds how much of a non-200 body ends up in logs.
	maxErrorBody = 512
)

// ClientConfig holds configuration for the GraphQL client.
type ClientConfig struct {
	URL              string
	Token            string
	Timeout          time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// DefaultClientConfig returns the default client configuration.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
	}
}

type request struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []Error         `json:"errors"`
}

// Error is one entry of a GraphQL "errors" array.
type Error struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// payloadError marks failures the upstream answered deliberately; they do not
// count against the circuit breaker.
type payloadError struct {
	err error
}

func (e *payloadError) Error() string { return e.err.Error() }
func (e *payloadError) Unwrap() error { return e.err }

// Client posts GraphQL operations to the upstream API behind a circuit breaker.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[json.RawMessage]
	metrics    adapter.UpstreamMetrics
}

// NewClient creates a new GraphQL client.
func NewClient(config ClientConfig, metrics adapter.UpstreamMetrics) *Client {
	defaults := DefaultClientConfig()
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.FailureThreshold == 0 {
		config.FailureThreshold = defaults.FailureThreshold
	}
	if config.OpenTimeout <= 0 {
		config.OpenTimeout = defaults.OpenTimeout
	}
	if metrics == nil {
		metrics = adapter.NopUpstreamMetrics{}
	}

	c := &Client{
		endpoint: strings.TrimSuffix(config.URL, "/"),
		token:    config.Token,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		metrics: metrics,
	}

	threshold := config.FailureThreshold
	c.breaker = gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			var payloadErr *payloadError
			return err == nil ||
				errors.As(err, &payloadErr) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Upstream circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.SetBreakerState(name, to.String())
		},
	})
	metrics.SetBreakerState(breakerName, gobreaker.StateClosed.String())

	return c
}

// BreakerState returns the circuit breaker state name.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// Do executes one GraphQL operation and decodes its "data" object into out.
func (c *Client) Do(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	started := time.Now()

	data, err := c.breaker.Execute(func() (json.RawMessage, error) {
		return c.post(ctx, operation, query, variables)
	})

	if err != nil {
		var payloadErr *payloadError
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			c.metrics.ObserveUpstreamCall(operation, "rejected", time.Since(started))
			return domainerror.NewUpstreamError(
				domainerror.ErrCodeUpstreamCircuitOpen,
				operation,
				"upstream calls suspended",
				domainerror.ErrUpstreamCircuitOpen,
			)
		case errors.As(err, &payloadErr):
			c.metrics.ObserveUpstreamCall(operation, "failure", time.Since(started))
			return payloadErr.err
		default:
			c.metrics.ObserveUpstreamCall(operation, "failure", time.Since(started))
			return err
		}
	}

	c.metrics.ObserveUpstreamCall(operation, "success", time.Since(started))

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return domainerror.NewUpstreamError(
			domainerror.ErrCodeUpstreamBadResponse,
			operation,
			"failed to decode data",
			fmt.Errorf("%w: %w", domainerror.ErrUpstreamBadResponse, err),
		)
	}
	return nil
}

func (c *Client) post(ctx context.Context, operation, query string, variables map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(request{OperationName: operation, Query: query, Variables: variables})
	if err != nil {
		return nil, &payloadError{fmt.Errorf("failed to encode %s request: %w", operation, err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domainerror.NewUpstreamError(
			domainerror.ErrCodeUpstreamUnavailable,
			operation,
			"request failed",
			fmt.Errorf("%w: %w", domainerror.ErrUpstreamUnavailable, err),
		)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		upstreamErr := domainerror.NewUpstreamError(
			domainerror.ErrCodeUpstreamStatus,
			operation,
			fmt.Sprintf("returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
			domainerror.ErrUpstreamUnavailable,
		)
		if resp.StatusCode < http.StatusInternalServerError {
			return nil, &payloadError{upstreamErr}
		}
		return nil, upstreamErr
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &payloadError{domainerror.NewUpstreamError(
			domainerror.ErrCodeUpstreamBadResponse,
			operation,
			"failed to decode response",
			fmt.Errorf("%w: %w", domainerror.ErrUpstreamBadResponse, err),
		)}
	}

	if len(decoded.Errors) > 0 {
		messages := make([]string, 0, len(decoded.Errors))
		for _, e := range decoded.Errors {
			messages = append(messages, e.Message)
		}
		return nil, &payloadError{domainerror.NewUpstreamError(
			domainerror.ErrCodeUpstreamGraphQL,
			operation,
			strings.Join(messages, "; "),
			domainerror.ErrUpstreamGraphQL,
		)}
	}

	if len(decoded.Data) == 0 || bytes.Equal(decoded.Data, []byte("null")) {
		return nil, &payloadError{domainerror.NewUpstreamError(
			domainerror.ErrCodeUpstreamBadResponse,
			operation,
			"response has no data",
			domainerror.ErrUpstreamBadResponse,
		)}
	}

	return decoded.Data, nil
}
