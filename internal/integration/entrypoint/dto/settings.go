package dto

import (
	"time"

	"github.com/fleet-console/backend/internal/domain/entity"
)

// UpdateDashboardSettingsRequest represents the request body for PUT /settings/dashboard.
// Omitted fields keep their current value.
type UpdateDashboardSettingsRequest struct {
	Timezone         *string  `json:"timezone"`
	DefaultTimeframe *string  `json:"default_timeframe"`
	LegacyDailySlot  *bool    `json:"legacy_daily_slot"`
	HiddenCharts     []string `json:"hidden_charts"`
}

// DashboardSettingsResponse represents the response for dashboard settings.
type DashboardSettingsResponse struct {
	Data DashboardSettingsData `json:"data"`
}

// DashboardSettingsData represents the settings of one organization.
type DashboardSettingsData struct {
	OrganizationID   string   `json:"organization_id"`
	Timezone         string   `json:"timezone"`
	DefaultTimeframe string   `json:"default_timeframe"`
	LegacyDailySlot  bool     `json:"legacy_daily_slot"`
	HiddenCharts     []string `json:"hidden_charts"`
	Stored           bool     `json:"stored"`
	UpdatedAt        string   `json:"updated_at,omitempty"`
}

// ToDashboardSettingsResponse converts entity.DashboardSettings to its response DTO.
func ToDashboardSettingsResponse(settings *entity.DashboardSettings, stored bool) DashboardSettingsResponse {
	hidden := make([]string, len(settings.HiddenCharts))
	for i, kind := range settings.HiddenCharts {
		hidden[i] = string(kind)
	}

	data := DashboardSettingsData{
		OrganizationID:   settings.OrganizationID.String(),
		Timezone:         settings.Timezone,
		DefaultTimeframe: string(settings.DefaultTimeframe),
		LegacyDailySlot:  settings.LegacyDailySlot,
		HiddenCharts:     hidden,
		Stored:           stored,
	}
	if stored {
		data.UpdatedAt = settings.UpdatedAt.UTC().Format(time.RFC3339)
	}

	return DashboardSettingsResponse{Data: data}
}
