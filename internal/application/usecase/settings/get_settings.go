// Package settings contains dashboard settings use cases.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fleet-console/backend/internal/application/adapter"
	"github.com/fleet-console/backend/internal/domain/entity"
	domainerror "github.com/fleet-console/backend/internal/domain/error"
	"github.com/fleet-console/backend/internal/domain/valueobject"
)

// Defaults are the settings reported for organizations that never saved any.
type Defaults struct {
	Timezone         string
	DefaultTimeframe valueobject.Timeframe
	LegacyDailySlot  bool
}

// GetSettingsOutput represents the output of getting dashboard settings.
type GetSettingsOutput struct {
	Settings *entity.DashboardSettings
	// Stored is false when Settings are the unsaved defaults.
	Stored bool
}

// GetSettingsUseCase handles reading the dashboard settings of an organization.
type GetSettingsUseCase struct {
	settingsRepo adapter.DashboardSettingsRepository
	defaults     Defaults
}

// NewGetSettingsUseCase creates a new GetSettingsUseCase instance.
func NewGetSettingsUseCase(settingsRepo adapter.DashboardSettingsRepository, defaults Defaults) *GetSettingsUseCase {
	return &GetSettingsUseCase{
		settingsRepo: settingsRepo,
		defaults:     defaults,
	}
}

// Execute returns the stored settings, or the defaults when none exist.
func (uc *GetSettingsUseCase) Execute(ctx context.Context, orgID uuid.UUID) (*GetSettingsOutput, error) {
	settings, err := uc.settingsRepo.FindByOrganization(ctx, orgID)
	if err != nil {
		if errors.Is(err, domainerror.ErrSettingsNotFound) {
			return &GetSettingsOutput{
				Settings: defaultSettings(orgID, uc.defaults),
				Stored:   false,
			}, nil
		}
		return nil, fmt.Errorf("failed to find dashboard settings: %w", err)
	}

	return &GetSettingsOutput{Settings: settings, Stored: true}, nil
}

func defaultSettings(orgID uuid.UUID, defaults Defaults) *entity.DashboardSettings {
	timezone := defaults.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	return entity.NewDashboardSettings(orgID, timezone, defaults.DefaultTimeframe, defaults.LegacyDailySlot)
}
