package chart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fleet-console/backend/internal/domain/entity"
	domainerror "github.com/fleet-console/backend/internal/domain/error"
	"github.com/fleet-console/backend/internal/domain/valueobject"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type fakeDataSource struct {
	drivers  []entity.RegistrationPoint
	riders   []entity.RegistrationPoint
	income   []entity.IncomePoint
	requests []entity.RequestPoint

	driversErr  error
	ridersErr   error
	incomeErr   error
	requestsErr error

	// block makes every fetch wait until ctx is done.
	block bool

	mu      sync.Mutex
	windows map[string]valueobject.TimeWindow
	calls   map[string]int
}

func (f *fakeDataSource) record(name string, window valueobject.TimeWindow) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.windows == nil {
		f.windows = make(map[string]valueobject.TimeWindow)
		f.calls = make(map[string]int)
	}
	f.windows[name] = window
	f.calls[name]++
}

func (f *fakeDataSource) wait(ctx context.Context) error {
	if !f.block {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeDataSource) FetchDriverRegistrations(ctx context.Context, _ valueobject.Timeframe, window valueobject.TimeWindow) ([]entity.RegistrationPoint, error) {
	f.record("drivers", window)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.drivers, f.driversErr
}

func (f *fakeDataSource) FetchRiderRegistrations(ctx context.Context, _ valueobject.Timeframe, window valueobject.TimeWindow) ([]entity.RegistrationPoint, error) {
	f.record("riders", window)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.riders, f.ridersErr
}

func (f *fakeDataSource) FetchIncomeSeries(ctx context.Context, _ valueobject.Timeframe, window valueobject.TimeWindow) ([]entity.IncomePoint, error) {
	f.record("income", window)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.income, f.incomeErr
}

func (f *fakeDataSource) FetchRequestsSeries(ctx context.Context, _ valueobject.Timeframe, window valueobject.TimeWindow) ([]entity.RequestPoint, error) {
	f.record("requests", window)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.requests, f.requestsErr
}

func (f *fakeDataSource) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

type fakeSettingsRepository struct {
	settings map[uuid.UUID]*entity.DashboardSettings
	err      error
}

func (r *fakeSettingsRepository) FindByOrganization(_ context.Context, orgID uuid.UUID) (*entity.DashboardSettings, error) {
	if r.err != nil {
		return nil, r.err
	}
	s, ok := r.settings[orgID]
	if !ok {
		return nil, domainerror.ErrSettingsNotFound
	}
	return s, nil
}

func (r *fakeSettingsRepository) Upsert(_ context.Context, settings *entity.DashboardSettings) error {
	if r.settings == nil {
		r.settings = make(map[uuid.UUID]*entity.DashboardSettings)
	}
	r.settings[settings.OrganizationID] = settings
	return nil
}

type recordingMetrics struct {
	mu       sync.Mutex
	observed []entity.ChartKind
	failures []string
	stale    int
}

func (m *recordingMetrics) ObserveAssembly(kind entity.ChartKind, _ valueobject.Timeframe, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observed = append(m.observed, kind)
}

func (m *recordingMetrics) IncFetchFailure(kind entity.ChartKind, dataset string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, string(kind)+"/"+dataset)
}

func (m *recordingMetrics) IncStaleDiscarded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stale++
}

func (m *recordingMetrics) staleCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stale
}
