package chart

import (
	"time"

	"github.com/fleet-console/backend/internal/domain/entity"
	"github.com/fleet-console/backend/internal/domain/valueobject"
)

// Align maps every period to the value of the first record whose bucket key
// equals it, or 0 when no record matches. The result is index-aligned with periods.
func Align[R entity.SeriesRecord](
	periods []string,
	timeframe valueobject.Timeframe,
	loc *time.Location,
	records []R,
) []float64 {
	return AlignFunc(periods, timeframe, loc, records, func(r R) float64 {
		return r.RecordValue()
	})
}

// AlignFunc is Align with an explicit value extractor, used for derived
// series such as success rates.
func AlignFunc[R entity.SeriesRecord](
	periods []string,
	timeframe valueobject.Timeframe,
	loc *time.Location,
	records []R,
	value func(R) float64,
) []float64 {
	index := indexByBucketKey(timeframe, loc, records)

	series := make([]float64, len(periods))
	for i, period := range periods {
		if pos, ok := index[period]; ok {
			series[i] = value(records[pos])
		}
	}
	return series
}

// indexByBucketKey maps each bucket key to the position of the first record
// that formats to it. Records with a malformed time are skipped.
func indexByBucketKey[R entity.SeriesRecord](
	timeframe valueobject.Timeframe,
	loc *time.Location,
	records []R,
) map[string]int {
	index := make(map[string]int, len(records))
	for i, record := range records {
		t, ok := record.RecordTime().Time(loc)
		if !ok {
			continue
		}
		key := BucketKey(t, timeframe, loc)
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}
	return index
}

// Sum adds up a series.
func Sum(series []float64) float64 {
	var total float64
	for _, v := range series {
		total += v
	}
	return total
}
