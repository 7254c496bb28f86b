package graphql

import (
	"context"
	"time"

	"github.com/fleet-console/backend/internal/application/adapter"
	"github.com/fleet-console/backend/internal/domain/entity"
	"github.com/fleet-console/backend/internal/domain/valueobject"
)

var (
	_ adapter.ChartDataSource    = (*DataSource)(nil)
	_ adapter.NotificationSource = (*DataSource)(nil)
)

// DataSource implements the chart and notification sources on top of Client.
type DataSource struct {
	client *Client
	now    func() time.Time
}

// NewDataSource creates a new DataSource.
func NewDataSource(client *Client, clock adapter.Clock) *DataSource {
	if clock == nil {
		clock = adapter.SystemClock{}
	}
	return &DataSource{
		client: client,
		now:    clock.Now,
	}
}

// FetchDriverRegistrations implements adapter.ChartDataSource.
func (d *DataSource) FetchDriverRegistrations(ctx context.Context, timeframe valueobject.Timeframe, window valueobject.TimeWindow) ([]entity.RegistrationPoint, error) {
	var data struct {
		Points []entity.RegistrationPoint `json:"driverRegistrations"`
	}
	if err := d.client.Do(ctx, opDriverRegistrations, driverRegistrationsQuery, seriesVariables(timeframe, window), &data); err != nil {
		return nil, err
	}
	return data.Points, nil
}

// FetchRiderRegistrations implements adapter.ChartDataSource.
func (d *DataSource) FetchRiderRegistrations(ctx context.Context, timeframe valueobject.Timeframe, window valueobject.TimeWindow) ([]entity.RegistrationPoint, error) {
	var data struct {
		Points []entity.RegistrationPoint `json:"riderRegistrations"`
	}
	if err := d.client.Do(ctx, opRiderRegistrations, riderRegistrationsQuery, seriesVariables(timeframe, window), &data); err != nil {
		return nil, err
	}
	return data.Points, nil
}

// FetchIncomeSeries implements adapter.ChartDataSource.
func (d *DataSource) FetchIncomeSeries(ctx context.Context, timeframe valueobject.Timeframe, window valueobject.TimeWindow) ([]entity.IncomePoint, error) {
	var data struct {
		Points []entity.IncomePoint `json:"incomeSeries"`
	}
	if err := d.client.Do(ctx, opIncomeSeries, incomeSeriesQuery, seriesVariables(timeframe, window), &data); err != nil {
		return nil, err
	}
	return data.Points, nil
}

// FetchRequestsSeries implements adapter.ChartDataSource.
func (d *DataSource) FetchRequestsSeries(ctx context.Context, timeframe valueobject.Timeframe, window valueobject.TimeWindow) ([]entity.RequestPoint, error) {
	var data struct {
		Points []entity.RequestPoint `json:"requestsSeries"`
	}
	if err := d.client.Do(ctx, opRequestsSeries, requestsSeriesQuery, seriesVariables(timeframe, window), &data); err != nil {
		return nil, err
	}
	return data.Points, nil
}

// FetchNotificationCounts implements adapter.NotificationSource.
func (d *DataSource) FetchNotificationCounts(ctx context.Context) (*entity.NotificationCounts, error) {
	var data struct {
		Counts struct {
			PendingDrivers  int `json:"pendingDrivers"`
			PendingPartners int `json:"pendingPartners"`
			OpenComplaints  int `json:"openComplaints"`
			ActiveRides     int `json:"activeRides"`
		} `json:"notificationCounts"`
	}
	if err := d.client.Do(ctx, opNotificationCounts, notificationCountsQuery, nil, &data); err != nil {
		return nil, err
	}

	return &entity.NotificationCounts{
		PendingDrivers:  data.Counts.PendingDrivers,
		PendingPartners: data.Counts.PendingPartners,
		OpenComplaints:  data.Counts.OpenComplaints,
		ActiveRides:     data.Counts.ActiveRides,
		FetchedAt:       d.now().UTC(),
	}, nil
}

func seriesVariables(timeframe valueobject.Timeframe, window valueobject.TimeWindow) map[string]any {
	return map[string]any{
		"timeframe": timeframe.GraphQLEnum(),
		"from":      window.From.UnixMilli(),
		"to":        window.To.UnixMilli(),
	}
}
