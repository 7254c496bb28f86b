package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/fleet-console/backend/internal/domain/entity"
)

// DashboardSettingsRepository defines the interface for dashboard settings persistence.
type DashboardSettingsRepository interface {
	// FindByOrganization returns the organization's settings or domainerror.ErrSettingsNotFound.
	FindByOrganization(ctx context.Context, orgID uuid.UUID) (*entity.DashboardSettings, error)

	// Upsert creates or replaces the organization's settings.
	Upsert(ctx context.Context, settings *entity.DashboardSettings) error
}
