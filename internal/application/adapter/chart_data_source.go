// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/fleet-console/backend/internal/domain/entity"
	"github.com/fleet-console/backend/internal/domain/valueobject"
)

// ChartDataSource fetches raw, sparse series from the upstream API.
// Every call is keyed by the timeframe it was issued for.
type ChartDataSource interface {
	// FetchDriverRegistrations returns driver sign-ups bucketed by the upstream.
	FetchDriverRegistrations(ctx context.Context, timeframe valueobject.Timeframe, window valueobject.TimeWindow) ([]entity.RegistrationPoint, error)

	// FetchRiderRegistrations returns rider sign-ups bucketed by the upstream.
	FetchRiderRegistrations(ctx context.Context, timeframe valueobject.Timeframe, window valueobject.TimeWindow) ([]entity.RegistrationPoint, error)

	// FetchIncomeSeries returns ride income bucketed by the upstream.
	FetchIncomeSeries(ctx context.Context, timeframe valueobject.Timeframe, window valueobject.TimeWindow) ([]entity.IncomePoint, error)

	// FetchRequestsSeries returns successful/total ride requests bucketed by the upstream.
	FetchRequestsSeries(ctx context.Context, timeframe valueobject.Timeframe, window valueobject.TimeWindow) ([]entity.RequestPoint, error)
}
