package adapter

import (
	"time"

	"github.com/fleet-console/backend/internal/domain/entity"
	"github.com/fleet-console/backend/internal/domain/valueobject"
)

// ChartMetrics records chart assembly telemetry.
type ChartMetrics interface {
	ObserveAssembly(kind entity.ChartKind, timeframe valueobject.Timeframe, duration time.Duration)
	IncFetchFailure(kind entity.ChartKind, dataset string)
	IncStaleDiscarded()
}

// NopChartMetrics discards all telemetry.
type NopChartMetrics struct{}

// ObserveAssembly implements ChartMetrics.
func (NopChartMetrics) ObserveAssembly(entity.ChartKind, valueobject.Timeframe, time.Duration) {}

// IncFetchFailure implements ChartMetrics.
func (NopChartMetrics) IncFetchFailure(entity.ChartKind, string) {}

// IncStaleDiscarded implements ChartMetrics.
func (NopChartMetrics) IncStaleDiscarded() {}
