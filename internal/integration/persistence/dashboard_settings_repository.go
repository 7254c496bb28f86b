// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fleet-console/backend/internal/application/adapter"
	"github.com/fleet-console/backend/internal/domain/entity"
	domainerror "github.com/fleet-console/backend/internal/domain/error"
	"github.com/fleet-console/backend/internal/integration/persistence/model"
)

// dashboardSettingsRepository implements the adapter.DashboardSettingsRepository interface.
type dashboardSettingsRepository struct {
	db *gorm.DB
}

// NewDashboardSettingsRepository creates a new dashboard settings repository instance.
func NewDashboardSettingsRepository(db *gorm.DB) adapter.DashboardSettingsRepository {
	return &dashboardSettingsRepository{
		db: db,
	}
}

// FindByOrganization retrieves the settings of an organization.
func (r *dashboardSettingsRepository) FindByOrganization(ctx context.Context, orgID uuid.UUID) (*entity.DashboardSettings, error) {
	var settingsModel model.DashboardSettingsModel
	result := r.db.WithContext(ctx).Where("organization_id = ?", orgID).First(&settingsModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrSettingsNotFound
		}
		return nil, result.Error
	}
	return settingsModel.ToEntity(), nil
}

// Upsert inserts the settings or replaces the stored ones, keeping the original creation time.
func (r *dashboardSettingsRepository) Upsert(ctx context.Context, settings *entity.DashboardSettings) error {
	settingsModel := model.DashboardSettingsFromEntity(settings)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "organization_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"timezone",
				"default_timeframe",
				"legacy_daily_slot",
				"hidden_charts",
				"updated_at",
			}),
		}).
		Create(settingsModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}
