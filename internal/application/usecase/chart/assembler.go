package chart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fleet-console/backend/internal/application/adapter"
	"github.com/fleet-console/backend/internal/domain/entity"
	domainerror "github.com/fleet-console/backend/internal/domain/error"
	"github.com/fleet-console/backend/internal/domain/valueobject"
)

// Defaults are the chart settings used when an organization has none stored.
type Defaults struct {
	Location        *time.Location
	Timeframe       valueobject.Timeframe
	LegacyDailySlot bool
}

// Profile is the resolved chart configuration of one organization.
type Profile struct {
	Options          BucketOptions
	DefaultTimeframe valueobject.Timeframe
	Settings         *entity.DashboardSettings
}

// seriesRequest is what a loader needs to fetch and align one upstream series.
type seriesRequest struct {
	Timeframe valueobject.Timeframe
	Buckets   BucketSet
	Location  *time.Location
	Window    valueobject.TimeWindow
}

// datasetMeta names one dataset a loader produces.
type datasetMeta struct {
	Key          string
	Label        string
	EmptyDisplay string
}

// seriesLoader fetches one upstream series and turns it into one or more
// datasets. A loader never shares its fetch with another loader.
type seriesLoader struct {
	name     string
	datasets []datasetMeta
	load     func(ctx context.Context, req seriesRequest) ([]Dataset, error)
}

// Assembler builds render-ready charts from upstream series.
type Assembler struct {
	settingsRepo adapter.DashboardSettingsRepository
	clock        adapter.Clock
	metrics      adapter.ChartMetrics
	defaults     Defaults
	loaders      map[entity.ChartKind][]seriesLoader
}

// NewAssembler creates a new Assembler instance.
func NewAssembler(
	source adapter.ChartDataSource,
	settingsRepo adapter.DashboardSettingsRepository,
	clock adapter.Clock,
	metrics adapter.ChartMetrics,
	defaults Defaults,
) *Assembler {
	if clock == nil {
		clock = adapter.SystemClock{}
	}
	if metrics == nil {
		metrics = adapter.NopChartMetrics{}
	}
	if defaults.Location == nil {
		defaults.Location = time.UTC
	}
	defaults.Timeframe = defaults.Timeframe.Normalize()

	return &Assembler{
		settingsRepo: settingsRepo,
		clock:        clock,
		metrics:      metrics,
		defaults:     defaults,
		loaders: map[entity.ChartKind][]seriesLoader{
			entity.ChartRegistrations: registrationLoaders(source),
			entity.ChartIncome:        incomeLoaders(source),
			entity.ChartRequests:      requestLoaders(source),
		},
	}
}

// ResolveProfile loads the organization's settings and merges them over the defaults.
// Lookup failures are logged and fall back to the defaults.
func (a *Assembler) ResolveProfile(ctx context.Context, orgID uuid.UUID) Profile {
	profile := Profile{
		Options: BucketOptions{
			Location:        a.defaults.Location,
			LegacyDailySlot: a.defaults.LegacyDailySlot,
		},
		DefaultTimeframe: a.defaults.Timeframe,
	}

	if a.settingsRepo == nil || orgID == uuid.Nil {
		return profile
	}

	settings, err := a.settingsRepo.FindByOrganization(ctx, orgID)
	if err != nil {
		if !errors.Is(err, domainerror.ErrSettingsNotFound) {
			slog.Warn("Failed to load dashboard settings, using defaults",
				"organization_id", orgID,
				"error", err,
			)
		}
		return profile
	}

	profile.Settings = settings
	profile.Options.LegacyDailySlot = settings.LegacyDailySlot
	profile.DefaultTimeframe = settings.DefaultTimeframe.Normalize()
	if loc, ok := settings.Location(); ok {
		profile.Options.Location = loc
	}
	return profile
}

// Assemble fetches, buckets and aligns every dataset of one chart.
// Failed fetches produce zero-filled degraded datasets; only cancellation of
// ctx is returned as an error.
func (a *Assembler) Assemble(
	ctx context.Context,
	kind entity.ChartKind,
	timeframe valueobject.Timeframe,
	profile Profile,
) (*Chart, error) {
	loaders, ok := a.loaders[kind]
	if !ok {
		return nil, domainerror.NewChartError(
			domainerror.ErrCodeUnknownChart,
			fmt.Sprintf("unknown chart %q", kind),
			domainerror.ErrUnknownChart,
		)
	}

	started := time.Now()
	timeframe = timeframe.Normalize()
	now := a.clock.Now()
	loc := profile.Options.location(now)

	req := seriesRequest{
		Timeframe: timeframe,
		Buckets:   GenerateBuckets(timeframe, now, profile.Options),
		Location:  loc,
		Window:    BucketWindow(timeframe, now, loc),
	}

	results := make([][]Dataset, len(loaders))
	g, gctx := errgroup.WithContext(ctx)
	for i, loader := range loaders {
		g.Go(func() error {
			datasets, err := loader.load(gctx, req)
			if err != nil {
				if ctx.Err() == nil {
					slog.Warn("Chart dataset fetch failed, rendering zeros",
						"chart", kind,
						"dataset", loader.name,
						"timeframe", timeframe,
						"error", err,
					)
					a.metrics.IncFetchFailure(kind, loader.name)
				}
				datasets = zeroDatasets(loader, req.Buckets.Len())
			}
			results[i] = datasets
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("chart assembly cancelled: %w", err)
	}

	chart := &Chart{
		Kind:        kind,
		Timeframe:   timeframe,
		Labels:      req.Buckets.Labels,
		Periods:     req.Buckets.Periods,
		Datasets:    make([]Dataset, 0, len(loaders)),
		GeneratedAt: now,
	}
	for _, datasets := range results {
		chart.Datasets = append(chart.Datasets, datasets...)
	}

	a.metrics.ObserveAssembly(kind, timeframe, time.Since(started))
	return chart, nil
}

func zeroDatasets(loader seriesLoader, size int) []Dataset {
	datasets := make([]Dataset, len(loader.datasets))
	for i, meta := range loader.datasets {
		datasets[i] = Dataset{
			Key:          meta.Key,
			Label:        meta.Label,
			Values:       make([]float64, size),
			TotalDisplay: meta.EmptyDisplay,
			Degraded:     true,
		}
	}
	return datasets
}
