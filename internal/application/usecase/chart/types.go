package chart

import (
	"time"

	"github.com/fleet-console/backend/internal/domain/entity"
	"github.com/fleet-console/backend/internal/domain/valueobject"
)

// Dataset is one named series of a chart.
type Dataset struct {
	Key          string
	Label        string
	Values       []float64
	Total        float64
	TotalDisplay string
	// Degraded marks a zero-filled series whose upstream fetch failed.
	Degraded bool
}

// Chart is the render-ready payload of one visualization.
type Chart struct {
	Kind        entity.ChartKind
	Timeframe   valueobject.Timeframe
	Labels      []string
	Periods     []string
	Datasets    []Dataset
	GeneratedAt time.Time
}

// Dataset returns the dataset with the given key.
func (c *Chart) Dataset(key string) (Dataset, bool) {
	for _, ds := range c.Datasets {
		if ds.Key == key {
			return ds, true
		}
	}
	return Dataset{}, false
}

// Degraded reports whether any dataset of the chart is degraded.
func (c *Chart) Degraded() bool {
	for _, ds := range c.Datasets {
		if ds.Degraded {
			return true
		}
	}
	return false
}

// Overview bundles every visible chart for one timeframe.
type Overview struct {
	Timeframe   valueobject.Timeframe
	Charts      []*Chart
	GeneratedAt time.Time
}
