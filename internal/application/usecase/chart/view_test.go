package chart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleet-console/backend/internal/domain/valueobject"
)

type selectResult struct {
	overview  *Overview
	committed bool
	err       error
}

func TestView_SelectCommits(t *testing.T) {
	view := NewView(func(_ context.Context, tf valueobject.Timeframe) (*Overview, error) {
		return &Overview{Timeframe: tf}, nil
	}, valueobject.TimeframeDaily, nil)

	assert.Equal(t, valueobject.TimeframeDaily, view.Timeframe())
	assert.Nil(t, view.Current())

	overview, committed, err := view.Select(context.Background(), valueobject.TimeframeMonthly)

	require.NoError(t, err)
	assert.True(t, committed)
	assert.Equal(t, valueobject.TimeframeMonthly, overview.Timeframe)
	assert.Same(t, overview, view.Current())
	assert.Equal(t, valueobject.TimeframeMonthly, view.Timeframe())
}

func TestView_StaleResponseIsDiscarded(t *testing.T) {
	slowStarted := make(chan struct{})
	metrics := &recordingMetrics{}

	view := NewView(func(ctx context.Context, tf valueobject.Timeframe) (*Overview, error) {
		if tf == valueobject.TimeframeWeekly {
			close(slowStarted)
			<-ctx.Done()
			// Respond anyway, as a slow upstream would.
			return &Overview{Timeframe: tf}, nil
		}
		return &Overview{Timeframe: tf}, nil
	}, valueobject.TimeframeDaily, metrics)

	slow := make(chan selectResult, 1)
	go func() {
		overview, committed, err := view.Select(context.Background(), valueobject.TimeframeWeekly)
		slow <- selectResult{overview, committed, err}
	}()
	<-slowStarted

	overview, committed, err := view.Select(context.Background(), valueobject.TimeframeMonthly)
	require.NoError(t, err)
	require.True(t, committed)
	assert.Equal(t, valueobject.TimeframeMonthly, overview.Timeframe)

	select {
	case res := <-slow:
		assert.NoError(t, res.err)
		assert.False(t, res.committed)
		assert.Nil(t, res.overview)
	case <-time.After(2 * time.Second):
		t.Fatal("superseded select did not return")
	}

	assert.Equal(t, valueobject.TimeframeMonthly, view.Current().Timeframe)
	assert.Equal(t, valueobject.TimeframeMonthly, view.Timeframe())
	assert.Equal(t, 1, metrics.staleCount())
}

func TestView_LoadError(t *testing.T) {
	loadErr := errors.New("assembly failed")
	calls := 0
	view := NewView(func(_ context.Context, tf valueobject.Timeframe) (*Overview, error) {
		calls++
		if calls > 1 {
			return nil, loadErr
		}
		return &Overview{Timeframe: tf}, nil
	}, valueobject.TimeframeDaily, nil)

	first, _, err := view.Select(context.Background(), valueobject.TimeframeDaily)
	require.NoError(t, err)

	_, committed, err := view.Select(context.Background(), valueobject.TimeframeWeekly)

	assert.ErrorIs(t, err, loadErr)
	assert.False(t, committed)
	assert.Same(t, first, view.Current())
}

func TestView_CloseCancelsInFlightLoad(t *testing.T) {
	started := make(chan struct{})
	view := NewView(func(ctx context.Context, _ valueobject.Timeframe) (*Overview, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}, valueobject.TimeframeDaily, nil)

	done := make(chan selectResult, 1)
	go func() {
		overview, committed, err := view.Select(context.Background(), valueobject.TimeframeWeekly)
		done <- selectResult{overview, committed, err}
	}()
	<-started

	view.Close()

	select {
	case res := <-done:
		assert.NoError(t, res.err)
		assert.False(t, res.committed)
	case <-time.After(2 * time.Second):
		t.Fatal("close did not cancel the load")
	}
	assert.Nil(t, view.Current())
}

func TestView_NormalizesTimeframe(t *testing.T) {
	view := NewView(func(_ context.Context, tf valueobject.Timeframe) (*Overview, error) {
		return &Overview{Timeframe: tf}, nil
	}, valueobject.Timeframe("hourly"), nil)

	assert.Equal(t, valueobject.TimeframeDaily, view.Timeframe())

	overview, _, err := view.Select(context.Background(), valueobject.Timeframe("yearly"))
	require.NoError(t, err)
	assert.Equal(t, valueobject.TimeframeDaily, overview.Timeframe)
}
