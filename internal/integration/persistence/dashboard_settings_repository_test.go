package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fleet-console/backend/internal/domain/entity"
	domainerror "github.com/fleet-console/backend/internal/domain/error"
	"github.com/fleet-console/backend/internal/domain/valueobject"
	"github.com/fleet-console/backend/internal/integration/persistence/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.DashboardSettingsModel{}))
	return db
}

func TestDashboardSettingsRepository_FindByOrganization_NotFound(t *testing.T) {
	repo := NewDashboardSettingsRepository(newTestDB(t))

	_, err := repo.FindByOrganization(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domainerror.ErrSettingsNotFound)
}

func TestDashboardSettingsRepository_Upsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewDashboardSettingsRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	settings := entity.NewDashboardSettings(orgID, "America/Sao_Paulo", valueobject.TimeframeWeekly, true)
	settings.HiddenCharts = []entity.ChartKind{entity.ChartIncome}
	require.NoError(t, repo.Upsert(ctx, settings))

	stored, err := repo.FindByOrganization(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, orgID, stored.OrganizationID)
	assert.Equal(t, "America/Sao_Paulo", stored.Timezone)
	assert.Equal(t, valueobject.TimeframeWeekly, stored.DefaultTimeframe)
	assert.True(t, stored.LegacyDailySlot)
	assert.Equal(t, []entity.ChartKind{entity.ChartIncome}, stored.HiddenCharts)

	createdAt := stored.CreatedAt

	updated := *stored
	updated.Timezone = "UTC"
	updated.DefaultTimeframe = valueobject.TimeframeMonthly
	updated.LegacyDailySlot = false
	updated.HiddenCharts = []entity.ChartKind{}
	updated.CreatedAt = createdAt.Add(time.Hour)
	updated.UpdatedAt = createdAt.Add(time.Hour)
	require.NoError(t, repo.Upsert(ctx, &updated))

	stored, err = repo.FindByOrganization(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, "UTC", stored.Timezone)
	assert.Equal(t, valueobject.TimeframeMonthly, stored.DefaultTimeframe)
	assert.False(t, stored.LegacyDailySlot)
	assert.Empty(t, stored.HiddenCharts)
	assert.True(t, createdAt.Equal(stored.CreatedAt), "creation time is kept")

	var count int64
	require.NoError(t, db.Model(&model.DashboardSettingsModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDashboardSettingsModel_ToEntityDropsUnknownCharts(t *testing.T) {
	m := &model.DashboardSettingsModel{
		OrganizationID:   uuid.New(),
		Timezone:         "UTC",
		DefaultTimeframe: "quarterly",
		HiddenCharts:     []string{"income", "heatmap"},
	}

	settings := m.ToEntity()

	assert.Equal(t, []entity.ChartKind{entity.ChartIncome}, settings.HiddenCharts)
	assert.Equal(t, valueobject.TimeframeDaily, settings.DefaultTimeframe)
}
