package chart

import (
	"context"

	"github.com/fleet-console/backend/internal/application/adapter"
	"github.com/fleet-console/backend/internal/domain/entity"
)

// Dataset keys of the requests stacked-bar chart.
const (
	DatasetRequests    = "requests"
	DatasetSuccessRate = "success_rate"
)

// requestLoaders back the requests stacked bar. Both datasets come from one
// fetch: the success rate is derived from the matched record, not aligned separately.
func requestLoaders(source adapter.ChartDataSource) []seriesLoader {
	return []seriesLoader{
		{
			name: DatasetRequests,
			datasets: []datasetMeta{
				{Key: DatasetRequests, Label: "Requests", EmptyDisplay: "0"},
				{Key: DatasetSuccessRate, Label: "Success rate", EmptyDisplay: "0%"},
			},
			load: func(ctx context.Context, req seriesRequest) ([]Dataset, error) {
				points, err := source.FetchRequestsSeries(ctx, req.Timeframe, req.Window)
				if err != nil {
					return nil, err
				}

				periods := req.Buckets.Periods
				counts := Align(periods, req.Timeframe, req.Location, points)
				rates := AlignFunc(periods, req.Timeframe, req.Location, points, entity.RequestPoint.SuccessRate)
				sums := AlignFunc(periods, req.Timeframe, req.Location, points, func(p entity.RequestPoint) float64 {
					return float64(p.Sum)
				})

				return []Dataset{
					countDataset(DatasetRequests, "Requests", counts),
					rateDataset(DatasetSuccessRate, "Success rate", rates, counts, sums),
				}, nil
			},
		},
	}
}
