// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/fleet-console/backend/internal/domain/entity"
	"github.com/fleet-console/backend/internal/domain/valueobject"
)

// DashboardSettingsModel represents the dashboard_settings table in the database.
type DashboardSettingsModel struct {
	OrganizationID   uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Timezone         string         `gorm:"type:varchar(64);not null;default:'UTC'"`
	DefaultTimeframe string         `gorm:"type:varchar(10);not null;default:'daily'"`
	LegacyDailySlot  bool           `gorm:"not null;default:false"`
	HiddenCharts     pq.StringArray `gorm:"type:text[]"`
	CreatedAt        time.Time      `gorm:"not null"`
	UpdatedAt        time.Time      `gorm:"not null"`
}

// TableName returns the table name for the DashboardSettingsModel.
func (DashboardSettingsModel) TableName() string {
	return "dashboard_settings"
}

// ToEntity converts a DashboardSettingsModel to a domain DashboardSettings entity.
// Unknown chart names left over from older releases are dropped.
func (m *DashboardSettingsModel) ToEntity() *entity.DashboardSettings {
	hidden := make([]entity.ChartKind, 0, len(m.HiddenCharts))
	for _, name := range m.HiddenCharts {
		if kind := entity.ChartKind(name); kind.IsValid() {
			hidden = append(hidden, kind)
		}
	}

	return &entity.DashboardSettings{
		OrganizationID:   m.OrganizationID,
		Timezone:         m.Timezone,
		DefaultTimeframe: valueobject.ParseTimeframe(m.DefaultTimeframe),
		LegacyDailySlot:  m.LegacyDailySlot,
		HiddenCharts:     hidden,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// DashboardSettingsFromEntity creates a DashboardSettingsModel from a domain entity.
func DashboardSettingsFromEntity(settings *entity.DashboardSettings) *DashboardSettingsModel {
	hidden := make(pq.StringArray, len(settings.HiddenCharts))
	for i, kind := range settings.HiddenCharts {
		hidden[i] = string(kind)
	}

	return &DashboardSettingsModel{
		OrganizationID:   settings.OrganizationID,
		Timezone:         settings.Timezone,
		DefaultTimeframe: string(settings.DefaultTimeframe.Normalize()),
		LegacyDailySlot:  settings.LegacyDailySlot,
		HiddenCharts:     hidden,
		CreatedAt:        settings.CreatedAt,
		UpdatedAt:        settings.UpdatedAt,
	}
}
