package chart

import (
	"context"

	"github.com/fleet-console/backend/internal/application/adapter"
)

// Dataset keys of the registrations chart.
const (
	DatasetDrivers = "drivers"
	DatasetRiders  = "riders"
)

// registrationLoaders back the registrations line chart: driver and rider
// sign-ups aligned independently against the same periods.
func registrationLoaders(source adapter.ChartDataSource) []seriesLoader {
	return []seriesLoader{
		{
			name:     DatasetDrivers,
			datasets: []datasetMeta{{Key: DatasetDrivers, Label: "Drivers", EmptyDisplay: "0"}},
			load: func(ctx context.Context, req seriesRequest) ([]Dataset, error) {
				points, err := source.FetchDriverRegistrations(ctx, req.Timeframe, req.Window)
				if err != nil {
					return nil, err
				}
				values := Align(req.Buckets.Periods, req.Timeframe, req.Location, points)
				return []Dataset{countDataset(DatasetDrivers, "Drivers", values)}, nil
			},
		},
		{
			name:     DatasetRiders,
			datasets: []datasetMeta{{Key: DatasetRiders, Label: "Riders", EmptyDisplay: "0"}},
			load: func(ctx context.Context, req seriesRequest) ([]Dataset, error) {
				points, err := source.FetchRiderRegistrations(ctx, req.Timeframe, req.Window)
				if err != nil {
					return nil, err
				}
				values := Align(req.Buckets.Periods, req.Timeframe, req.Location, points)
				return []Dataset{countDataset(DatasetRiders, "Riders", values)}, nil
			},
		},
	}
}
