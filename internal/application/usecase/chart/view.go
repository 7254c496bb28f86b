package chart

import (
	"context"
	"sync"

	"github.com/fleet-console/backend/internal/application/adapter"
	"github.com/fleet-console/backend/internal/domain/valueobject"
)

// OverviewLoader assembles the overview for one timeframe.
type OverviewLoader func(ctx context.Context, timeframe valueobject.Timeframe) (*Overview, error)

// View is the server-side state of one live dashboard: the selected
// timeframe and the last committed overview.
//
// Every Select bumps a generation counter and cancels the previous in-flight
// load. A load commits only when its generation is still current, so a slow
// response for an old timeframe can never overwrite a newer one.
type View struct {
	load    OverviewLoader
	metrics adapter.ChartMetrics

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	timeframe  valueobject.Timeframe
	current    *Overview
}

// NewView creates a View with the given initial timeframe.
func NewView(load OverviewLoader, initial valueobject.Timeframe, metrics adapter.ChartMetrics) *View {
	if metrics == nil {
		metrics = adapter.NopChartMetrics{}
	}
	return &View{
		load:      load,
		metrics:   metrics,
		timeframe: initial.Normalize(),
	}
}

// Select switches the view to timeframe and loads it.
// committed is false when a newer Select superseded this one; the result is then nil.
func (v *View) Select(ctx context.Context, timeframe valueobject.Timeframe) (overview *Overview, committed bool, err error) {
	timeframe = timeframe.Normalize()

	v.mu.Lock()
	v.generation++
	generation := v.generation
	if v.cancel != nil {
		v.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.timeframe = timeframe
	v.mu.Unlock()
	defer cancel()

	result, loadErr := v.load(loadCtx, timeframe)

	v.mu.Lock()
	defer v.mu.Unlock()

	if generation != v.generation {
		v.metrics.IncStaleDiscarded()
		return nil, false, nil
	}
	if loadErr != nil {
		return nil, false, loadErr
	}

	v.current = result
	return result, true, nil
}

// Timeframe returns the selected timeframe.
func (v *View) Timeframe() valueobject.Timeframe {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.timeframe
}

// Current returns the last committed overview, or nil.
func (v *View) Current() *Overview {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Close cancels any in-flight load.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.generation++
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}
