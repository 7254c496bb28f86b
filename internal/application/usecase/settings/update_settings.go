package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fleet-console/backend/internal/application/adapter"
	"github.com/fleet-console/backend/internal/domain/entity"
	domainerror "github.com/fleet-console/backend/internal/domain/error"
	"github.com/fleet-console/backend/internal/domain/valueobject"
)

// UpdateSettingsInput represents the input for updating dashboard settings.
// Nil fields keep their current value.
type UpdateSettingsInput struct {
	OrganizationID   uuid.UUID
	Timezone         *string
	DefaultTimeframe *string
	LegacyDailySlot  *bool
	HiddenCharts     []string // Optional; nil keeps, empty clears
}

// UpdateSettingsUseCase handles dashboard settings updates.
type UpdateSettingsUseCase struct {
	settingsRepo adapter.DashboardSettingsRepository
	defaults     Defaults
}

// NewUpdateSettingsUseCase creates a new UpdateSettingsUseCase instance.
func NewUpdateSettingsUseCase(settingsRepo adapter.DashboardSettingsRepository, defaults Defaults) *UpdateSettingsUseCase {
	return &UpdateSettingsUseCase{
		settingsRepo: settingsRepo,
		defaults:     defaults,
	}
}

// Execute validates and stores the settings.
func (uc *UpdateSettingsUseCase) Execute(ctx context.Context, input UpdateSettingsInput) (*entity.DashboardSettings, error) {
	if input.OrganizationID == uuid.Nil {
		return nil, domainerror.NewSettingsError(
			domainerror.ErrCodeInvalidSettings,
			"organization is required",
			domainerror.ErrMissingOrganization,
		)
	}

	settings, err := uc.settingsRepo.FindByOrganization(ctx, input.OrganizationID)
	if err != nil {
		if !errors.Is(err, domainerror.ErrSettingsNotFound) {
			return nil, fmt.Errorf("failed to find dashboard settings: %w", err)
		}
		settings = defaultSettings(input.OrganizationID, uc.defaults)
	}

	if input.Timezone != nil {
		timezone := strings.TrimSpace(*input.Timezone)
		if _, err := time.LoadLocation(timezone); err != nil || timezone == "" || strings.EqualFold(timezone, "local") {
			return nil, domainerror.NewSettingsError(
				domainerror.ErrCodeInvalidTimezone,
				fmt.Sprintf("unknown timezone %q", timezone),
				domainerror.ErrInvalidTimezone,
			)
		}
		settings.Timezone = timezone
	}

	if input.DefaultTimeframe != nil {
		// Stored settings are strict; only the chart query falls back to daily.
		timeframe := valueobject.Timeframe(strings.ToLower(strings.TrimSpace(*input.DefaultTimeframe)))
		if !timeframe.IsValid() {
			return nil, domainerror.NewSettingsError(
				domainerror.ErrCodeInvalidTimeframe,
				fmt.Sprintf("unknown timeframe %q", *input.DefaultTimeframe),
				domainerror.ErrInvalidTimeframe,
			)
		}
		settings.DefaultTimeframe = timeframe
	}

	if input.LegacyDailySlot != nil {
		settings.LegacyDailySlot = *input.LegacyDailySlot
	}

	if input.HiddenCharts != nil {
		hidden, err := parseHiddenCharts(input.HiddenCharts)
		if err != nil {
			return nil, err
		}
		settings.HiddenCharts = hidden
	}

	settings.UpdatedAt = time.Now().UTC()

	if err := uc.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save dashboard settings: %w", err)
	}

	return settings, nil
}

// parseHiddenCharts validates and de-duplicates chart kinds, keeping input order.
func parseHiddenCharts(raw []string) ([]entity.ChartKind, error) {
	hidden := make([]entity.ChartKind, 0, len(raw))
	seen := make(map[entity.ChartKind]bool, len(raw))
	for _, name := range raw {
		kind := entity.ChartKind(strings.ToLower(strings.TrimSpace(name)))
		if !kind.IsValid() {
			return nil, domainerror.NewSettingsError(
				domainerror.ErrCodeInvalidHiddenChart,
				fmt.Sprintf("unknown chart %q", name),
				domainerror.ErrInvalidHiddenChart,
			)
		}
		if seen[kind] {
			continue
		}
		seen[kind] = true
		hidden = append(hidden, kind)
	}
	return hidden, nil
}
