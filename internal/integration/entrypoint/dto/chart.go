// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/fleet-console/backend/internal/application/usecase/chart"
)

// ChartResponse represents the response for a single chart.
type ChartResponse struct {
	Data ChartData `json:"data"`
}

// OverviewResponse represents the response for the dashboard overview.
type OverviewResponse struct {
	Data OverviewData `json:"data"`
}

// OverviewData represents the data section of the overview response.
type OverviewData struct {
	Timeframe   string      `json:"timeframe"`
	Charts      []ChartData `json:"charts"`
	GeneratedAt string      `json:"generated_at"`
}

// ChartData is one render-ready chart.
// Labels and every dataset's values are index-aligned with periods.
type ChartData struct {
	Kind        string            `json:"kind"`
	Timeframe   string            `json:"timeframe"`
	Labels      []string          `json:"labels"`
	Periods     []string          `json:"periods"`
	Datasets    []DatasetResponse `json:"datasets"`
	Degraded    bool              `json:"degraded"`
	GeneratedAt string            `json:"generated_at"`
}

// DatasetResponse represents one chart series.
type DatasetResponse struct {
	Key          string    `json:"key"`
	Label        string    `json:"label"`
	Values       []float64 `json:"values"`
	Total        float64   `json:"total"`
	TotalDisplay string    `json:"total_display"`
	Degraded     bool      `json:"degraded,omitempty"`
}

// ToChartData converts a chart.Chart to its DTO.
func ToChartData(c *chart.Chart) ChartData {
	datasets := make([]DatasetResponse, len(c.Datasets))
	for i, ds := range c.Datasets {
		datasets[i] = DatasetResponse{
			Key:          ds.Key,
			Label:        ds.Label,
			Values:       ds.Values,
			Total:        ds.Total,
			TotalDisplay: ds.TotalDisplay,
			Degraded:     ds.Degraded,
		}
	}

	return ChartData{
		Kind:        string(c.Kind),
		Timeframe:   string(c.Timeframe),
		Labels:      c.Labels,
		Periods:     c.Periods,
		Datasets:    datasets,
		Degraded:    c.Degraded(),
		GeneratedAt: c.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

// ToChartResponse converts a chart.Chart to ChartResponse DTO.
func ToChartResponse(c *chart.Chart) ChartResponse {
	return ChartResponse{Data: ToChartData(c)}
}

// ToOverviewData converts a chart.Overview to its DTO.
func ToOverviewData(o *chart.Overview) OverviewData {
	charts := make([]ChartData, len(o.Charts))
	for i, c := range o.Charts {
		charts[i] = ToChartData(c)
	}

	return OverviewData{
		Timeframe:   string(o.Timeframe),
		Charts:      charts,
		GeneratedAt: o.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

// ToOverviewResponse converts a chart.Overview to OverviewResponse DTO.
func ToOverviewResponse(o *chart.Overview) OverviewResponse {
	return OverviewResponse{Data: ToOverviewData(o)}
}
