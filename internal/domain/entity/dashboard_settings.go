package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleet-console/backend/internal/domain/valueobject"
)

// ChartKind identifies one dashboard visualization.
type ChartKind string

const (
	ChartRegistrations ChartKind = "registrations"
	ChartIncome        ChartKind = "income"
	ChartRequests      ChartKind = "requests"
)

// AllChartKinds lists the charts in the order the overview renders them.
var AllChartKinds = []ChartKind{ChartRegistrations, ChartIncome, ChartRequests}

// IsValid reports whether k names a known chart.
func (k ChartKind) IsValid() bool {
	for _, known := range AllChartKinds {
		if k == known {
			return true
		}
	}
	return false
}

// DashboardSettings are the per-organization chart preferences.
type DashboardSettings struct {
	OrganizationID   uuid.UUID
	Timezone         string
	DefaultTimeframe valueobject.Timeframe
	LegacyDailySlot  bool
	HiddenCharts     []ChartKind
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewDashboardSettings creates settings for an organization.
func NewDashboardSettings(orgID uuid.UUID, timezone string, timeframe valueobject.Timeframe, legacyDailySlot bool) *DashboardSettings {
	now := time.Now().UTC()

	return &DashboardSettings{
		OrganizationID:   orgID,
		Timezone:         timezone,
		DefaultTimeframe: timeframe.Normalize(),
		LegacyDailySlot:  legacyDailySlot,
		HiddenCharts:     []ChartKind{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Location resolves the settings timezone. ok is false when the zone is unknown.
func (s *DashboardSettings) Location() (loc *time.Location, ok bool) {
	if s == nil || s.Timezone == "" {
		return nil, false
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, false
	}
	return loc, true
}

// IsHidden reports whether the chart is hidden from the overview.
func (s *DashboardSettings) IsHidden(kind ChartKind) bool {
	if s == nil {
		return false
	}
	for _, hidden := range s.HiddenCharts {
		if hidden == kind {
			return true
		}
	}
	return false
}
