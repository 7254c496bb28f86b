package chart

import (
	"strconv"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleet-console/backend/internal/domain/entity"
	"github.com/fleet-console/backend/internal/domain/valueobject"
)

func at(year int, month time.Month, day, hour, minute int) entity.EpochMillis {
	return entity.EpochMillisFromTime(time.Date(year, month, day, hour, minute, 0, 0, time.UTC))
}

func TestAlign_DailyScenario(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	set := GenerateBuckets(valueobject.TimeframeDaily, now, utcOpts())
	records := []entity.RegistrationPoint{{Time: at(2024, 1, 1, 8, 0), Count: 5}}

	series := Align(set.Periods, set.Timeframe, time.UTC, records)

	require.Len(t, series, 24)
	for i, v := range series {
		if i == 8 {
			assert.Equal(t, 5.0, v)
		} else {
			assert.Zero(t, v, "index %d", i)
		}
	}
}

func TestAlign_WeeklyScenario(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	set := GenerateBuckets(valueobject.TimeframeWeekly, now, utcOpts())
	records := []entity.RegistrationPoint{{Time: at(2024, 1, 3, 0, 0), Count: 12}}

	series := Align(set.Periods, set.Timeframe, time.UTC, records)

	assert.Equal(t, []float64{0, 0, 12, 0, 0, 0, 0}, series)
}

func TestAlign_MonthlyLastDay(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	set := GenerateBuckets(valueobject.TimeframeMonthly, now, utcOpts())
	records := []entity.RegistrationPoint{
		{Time: at(2024, 1, 31, 23, 30), Count: 4},
		{Time: at(2024, 1, 1, 0, 0), Count: 1},
	}

	series := Align(set.Periods, set.Timeframe, time.UTC, records)

	require.Len(t, series, 31)
	assert.Equal(t, 1.0, series[0])
	assert.Equal(t, 4.0, series[30])
	assert.Equal(t, 5.0, Sum(series))
}

func TestAlign_EmptyRecords(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	for _, tf := range []valueobject.Timeframe{valueobject.TimeframeDaily, valueobject.TimeframeWeekly, valueobject.TimeframeMonthly} {
		set := GenerateBuckets(tf, now, utcOpts())
		series := Align[entity.RegistrationPoint](set.Periods, tf, time.UTC, nil)

		require.Len(t, series, len(set.Periods))
		assert.Zero(t, Sum(series))
	}
}

func TestAlign_FirstMatchWins(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	set := GenerateBuckets(valueobject.TimeframeDaily, now, utcOpts())
	records := []entity.RegistrationPoint{
		{Time: at(2024, 1, 1, 14, 5), Count: 3},
		{Time: at(2024, 1, 1, 14, 50), Count: 9},
	}

	series := Align(set.Periods, set.Timeframe, time.UTC, records)

	assert.Equal(t, 3.0, series[14])
}

func TestAlign_MalformedTimeIsSkipped(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	set := GenerateBuckets(valueobject.TimeframeDaily, now, utcOpts())
	records := []entity.RegistrationPoint{
		{Time: entity.ParseEpochMillis("not-a-number"), Count: 7},
		{Time: at(2024, 1, 1, 0, 0), Count: 2},
	}

	series := Align(set.Periods, set.Timeframe, time.UTC, records)

	assert.Equal(t, 2.0, series[0])
	assert.Equal(t, 2.0, Sum(series))
}

func TestAlign_NumericStringTime(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	set := GenerateBuckets(valueobject.TimeframeDaily, now, utcOpts())
	ms := time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC).UnixMilli()
	records := []entity.RegistrationPoint{{Time: entity.ParseEpochMillis(strconv.FormatInt(ms, 10)), Count: 6}}

	series := Align(set.Periods, set.Timeframe, time.UTC, records)

	assert.Equal(t, 6.0, series[17])
}

func TestAlign_DecodedMixedNumericCounts(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	set := GenerateBuckets(valueobject.TimeframeDaily, now, utcOpts())
	var records []entity.RegistrationPoint
	payload := `[{"time":"1704096000000","count":5},{"time":1704099600000,"count":3.0}]`
	require.NoError(t, json.Unmarshal([]byte(payload), &records))

	series := Align(set.Periods, set.Timeframe, time.UTC, records)

	assert.Equal(t, 5.0, series[8])
	assert.Equal(t, 3.0, series[9])
	assert.Equal(t, 8.0, Sum(series))
}

func TestAlign_UsesLocalHour(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*3600)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, saoPaulo)
	set := GenerateBuckets(valueobject.TimeframeDaily, now, BucketOptions{Location: saoPaulo})
	records := []entity.RegistrationPoint{{Time: at(2024, 1, 1, 11, 0), Count: 8}}

	series := Align(set.Periods, set.Timeframe, saoPaulo, records)

	assert.Equal(t, 8.0, series[8])
	assert.Zero(t, series[11])
}

func TestAlign_LegacyDailySlotRepeatsLastHour(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	set := GenerateBuckets(valueobject.TimeframeDaily, now, BucketOptions{Location: time.UTC, LegacyDailySlot: true})
	records := []entity.RegistrationPoint{{Time: at(2024, 1, 1, 23, 10), Count: 4}}

	series := Align(set.Periods, set.Timeframe, time.UTC, records)

	require.Len(t, series, 25)
	assert.Equal(t, 4.0, series[23])
	assert.Equal(t, 4.0, series[24])
}

func TestAlignFunc_SuccessRateScenario(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	set := GenerateBuckets(valueobject.TimeframeDaily, now, utcOpts())
	records := []entity.RequestPoint{
		{Time: at(2024, 1, 1, 9, 0), Count: 25, Sum: 100},
		{Time: at(2024, 1, 1, 10, 0), Count: 3, Sum: 0},
	}

	rates := AlignFunc(set.Periods, set.Timeframe, time.UTC, records, entity.RequestPoint.SuccessRate)
	counts := Align(set.Periods, set.Timeframe, time.UTC, records)

	assert.Equal(t, 25.0, rates[9])
	assert.Equal(t, 0.0, rates[10])
	assert.Equal(t, 25.0, counts[9])
	assert.Equal(t, 3.0, counts[10])
}

func TestAlign_MatchesLinearScan(t *testing.T) {
	now := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	set := GenerateBuckets(valueobject.TimeframeMonthly, now, utcOpts())

	var records []entity.RegistrationPoint
	for i := 0; i < 60; i++ {
		ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i*13) * time.Hour)
		records = append(records, entity.RegistrationPoint{Time: entity.EpochMillisFromTime(ts), Count: entity.Quantity(i + 1)})
	}

	got := Align(set.Periods, set.Timeframe, time.UTC, records)

	want := make([]float64, len(set.Periods))
	for i, period := range set.Periods {
		for _, r := range records {
			ts, _ := r.Time.Time(time.UTC)
			if BucketKey(ts, set.Timeframe, time.UTC) == period {
				want[i] = float64(r.Count)
				break
			}
		}
	}
	assert.Equal(t, want, got)
}
