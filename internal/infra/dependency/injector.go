// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/fleet-console/backend/config"
	"github.com/fleet-console/backend/internal/application/adapter"
	"github.com/fleet-console/backend/internal/application/usecase/chart"
	"github.com/fleet-console/backend/internal/application/usecase/notification"
	"github.com/fleet-console/backend/internal/application/usecase/settings"
	"github.com/fleet-console/backend/internal/domain/valueobject"
	"github.com/fleet-console/backend/internal/infra/metrics"
	"github.com/fleet-console/backend/internal/infra/server/router"
	"github.com/fleet-console/backend/internal/integration/adapters"
	"github.com/fleet-console/backend/internal/integration/cache"
	"github.com/fleet-console/backend/internal/integration/entrypoint/controller"
	"github.com/fleet-console/backend/internal/integration/entrypoint/middleware"
	"github.com/fleet-console/backend/internal/integration/graphql"
	"github.com/fleet-console/backend/internal/integration/live"
	"github.com/fleet-console/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config         *config.Config
	DB             *gorm.DB
	Redis          *redis.Client
	Router         *router.Router
	Metrics        *metrics.Metrics
	GraphQL        *graphql.Client
	Poller         *notification.Poller
	LiveController *controller.LiveController
}

// NewInjector creates a new dependency injector with all dependencies wired.
// A nil clock uses the wall clock.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, clock adapter.Clock) *Injector {
	if clock == nil {
		clock = adapter.SystemClock{}
	}

	appMetrics := metrics.New()

	// Create repositories and stores
	settingsRepo := persistence.NewDashboardSettingsRepository(db)
	notificationStore := cache.NewNotificationCache(redisClient)

	// Create adapters/services
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)
	graphqlClient := graphql.NewClient(graphql.ClientConfig{
		URL:              cfg.GraphQL.URL,
		Token:            cfg.GraphQL.Token,
		Timeout:          cfg.GraphQL.Timeout,
		FailureThreshold: cfg.GraphQL.FailureThreshold,
		OpenTimeout:      cfg.GraphQL.OpenTimeout,
	}, appMetrics)
	dataSource := graphql.NewDataSource(graphqlClient, clock)

	// Create chart use cases
	assembler := chart.NewAssembler(dataSource, settingsRepo, clock, appMetrics, chart.Defaults{
		Location:        cfg.Chart.Location(),
		Timeframe:       valueobject.ParseTimeframe(cfg.Chart.DefaultTimeframe),
		LegacyDailySlot: cfg.Chart.LegacyDailySlot,
	})
	getChartUseCase := chart.NewGetChartUseCase(assembler)
	getOverviewUseCase := chart.NewGetOverviewUseCase(assembler)

	// Create notification use cases
	poller := notification.NewPoller(dataSource, notificationStore, notification.PollerConfig{
		PollInterval: cfg.Notifications.PollInterval,
		CacheTTL:     cfg.Notifications.CacheTTL,
	})
	getCountsUseCase := notification.NewGetCountsUseCase(notificationStore, poller)

	// Create settings use cases
	settingsDefaults := settings.Defaults{
		Timezone:         cfg.Chart.Location().String(),
		DefaultTimeframe: valueobject.ParseTimeframe(cfg.Chart.DefaultTimeframe),
		LegacyDailySlot:  cfg.Chart.LegacyDailySlot,
	}
	getSettingsUseCase := settings.NewGetSettingsUseCase(settingsRepo, settingsDefaults)
	updateSettingsUseCase := settings.NewUpdateSettingsUseCase(settingsRepo, settingsDefaults)

	// Create controllers
	healthController := controller.NewHealthController(
		func() bool {
			sqlDB, err := db.DB()
			if err != nil {
				return false
			}
			return sqlDB.Ping() == nil
		},
		func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
		graphqlClient.BreakerState,
	)

	chartController := controller.NewChartController(getChartUseCase, getOverviewUseCase)
	notificationController := controller.NewNotificationController(getCountsUseCase)
	settingsController := controller.NewSettingsController(getSettingsUseCase, updateSettingsUseCase)
	liveController := controller.NewLiveController(
		getOverviewUseCase,
		getCountsUseCase,
		appMetrics,
		live.Config{PushInterval: cfg.Live.PushInterval},
		cfg.Live.AllowedOrigins,
	)

	// Create middleware
	rateLimiter := middleware.NewRateLimiterWithConfig(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		chartController,
		notificationController,
		settingsController,
		liveController,
		rateLimiter,
		authMiddleware,
		appMetrics,
	)

	return &Injector{
		Config:         cfg,
		DB:             db,
		Redis:          redisClient,
		Router:         r,
		Metrics:        appMetrics,
		GraphQL:        graphqlClient,
		Poller:         poller,
		LiveController: liveController,
	}
}
