// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fleet-console/backend/config"
	"github.com/fleet-console/backend/internal/infra/dependency"
	"github.com/fleet-console/backend/internal/integration/persistence/model"
	"github.com/fleet-console/backend/test/integration/mock"
)

const (
	testJWTSecret = "test-jwt-secret-key-for-testing-purposes"
	testJWTIssuer = "fleet-console"
)

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	server   *httptest.Server
	client   *http.Client
	injector *dependency.Injector
	response *response

	// Request building
	headers     map[string]string
	accessToken string

	// Tenant
	organizationID uuid.UUID
	operatorID     uuid.UUID

	// Collaborators
	cfg      *config.Config
	db       *mock.Db
	upstream *mock.GraphQLMock
	timeMock *mock.Time
}

type response struct {
	status int
	body   any
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
		_ = os.Setenv("ENV", "test")
	})
}

// InitializeScenario wires a fresh application per scenario on top of the
// shared SQLite database and miniredis instance.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc, err := newTestContext()
		if err != nil {
			return ctx, err
		}
		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if tc := GetTestContext(ctx); tc != nil {
			tc.close()
		}
		return ctx, nil
	})

	registerSetupSteps(ctx)
	registerUpstreamSteps(ctx)
	registerAPISteps(ctx)
	registerResponseSteps(ctx)
	registerDatabaseSteps(ctx)
}

func newTestContext() (*TestContext, error) {
	db := mock.NewDb("fleet_console", map[string]any{
		"dashboard_settings": &model.DashboardSettingsModel{},
	})
	if err := db.ClearDB(); err != nil {
		return nil, fmt.Errorf("failed to clear database: %w", err)
	}

	redisClient := mock.NewRedis()
	if err := mock.ClearRedis(context.Background(), redisClient); err != nil {
		return nil, fmt.Errorf("failed to clear redis: %w", err)
	}

	upstream := mock.NewGraphQLServer()
	upstream.Start()

	cfg := config.Load()
	cfg.Server.Environment = "test"
	cfg.JWT.Secret = testJWTSecret
	cfg.JWT.Issuer = testJWTIssuer
	cfg.GraphQL.URL = upstream.GetUrl()
	cfg.GraphQL.Token = "upstream-token"
	cfg.GraphQL.Timeout = 2 * time.Second
	cfg.GraphQL.FailureThreshold = 3
	cfg.GraphQL.OpenTimeout = time.Minute
	cfg.Chart.Timezone = "UTC"
	cfg.Chart.DefaultTimeframe = "daily"
	cfg.Chart.LegacyDailySlot = false

	timeMock := mock.NewTime()
	injector := dependency.NewInjector(cfg, db.DbConn, redisClient, timeMock)

	return &TestContext{
		server:         httptest.NewServer(injector.Router.Setup(cfg.Server.Environment)),
		client:         &http.Client{Timeout: 10 * time.Second},
		injector:       injector,
		headers:        make(map[string]string),
		organizationID: uuid.New(),
		operatorID:     uuid.New(),
		cfg:            cfg,
		db:             db,
		upstream:       upstream,
		timeMock:       timeMock,
	}, nil
}

func (tc *TestContext) close() {
	tc.injector.LiveController.Shutdown()
	tc.server.Close()
	tc.upstream.Close()
}
