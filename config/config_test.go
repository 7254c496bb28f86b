package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "daily", cfg.Chart.DefaultTimeframe)
	assert.False(t, cfg.Chart.LegacyDailySlot)
	assert.Equal(t, 30*time.Second, cfg.Notifications.PollInterval)
	assert.Equal(t, uint32(5), cfg.GraphQL.FailureThreshold)
	assert.Empty(t, cfg.Live.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.Live.PushInterval)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CHART_TIMEZONE", "America/Sao_Paulo")
	t.Setenv("CHART_DAILY_LEGACY_SLOT", "true")
	t.Setenv("NOTIFICATION_POLL_INTERVAL", "5s")
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("LIVE_ALLOWED_ORIGINS", " https://ops.fleet.test, ,https://admin.fleet.test")

	cfg := Load()

	assert.Equal(t, "America/Sao_Paulo", cfg.Chart.Timezone)
	assert.True(t, cfg.Chart.LegacyDailySlot)
	assert.Equal(t, 5*time.Second, cfg.Notifications.PollInterval)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"https://ops.fleet.test", "https://admin.fleet.test"}, cfg.Live.AllowedOrigins)
}

func TestChartConfig_Location(t *testing.T) {
	t.Run("known zone", func(t *testing.T) {
		loc := ChartConfig{Timezone: "Europe/Berlin"}.Location()
		assert.Equal(t, "Europe/Berlin", loc.String())
	})

	t.Run("unknown zone falls back to UTC", func(t *testing.T) {
		loc := ChartConfig{Timezone: "Mars/Olympus"}.Location()
		assert.Equal(t, time.UTC, loc)
	})
}
