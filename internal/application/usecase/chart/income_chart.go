package chart

import (
	"context"

	"github.com/fleet-console/backend/internal/application/adapter"
)

// DatasetIncome is the dataset key of the income chart.
const DatasetIncome = "income"

func incomeLoaders(source adapter.ChartDataSource) []seriesLoader {
	return []seriesLoader{
		{
			name:     DatasetIncome,
			datasets: []datasetMeta{{Key: DatasetIncome, Label: "Income", EmptyDisplay: "0.00"}},
			load: func(ctx context.Context, req seriesRequest) ([]Dataset, error) {
				points, err := source.FetchIncomeSeries(ctx, req.Timeframe, req.Window)
				if err != nil {
					return nil, err
				}
				values := Align(req.Buckets.Periods, req.Timeframe, req.Location, points)
				return []Dataset{moneyDataset(DatasetIncome, "Income", values)}, nil
			},
		},
	}
}
