// Package chart contains the dashboard chart use cases: bucket generation,
// series alignment and per-chart assembly.
package chart

import (
	"fmt"
	"time"

	"github.com/fleet-console/backend/internal/domain/valueobject"
)

const (
	hoursPerDay  = 24
	daysPerWeek  = 7
	dailyTickGap = 4

	// monthlyTickDivisor splits a month into six gaps, giving seven labeled checkpoints.
	monthlyTickDivisor = 6
)

// Bucket key layouts. Weekday abbreviations are always English.
const (
	dailyKeyLayout   = "15"
	weeklyKeyLayout  = "Mon 02"
	monthlyKeyLayout = "Mon 2"
)

// BucketSet is the fixed slot layout of a chart.
// Periods is dense and used for matching; Labels is the axis text, blank for
// unlabeled slots. Both always have the same length.
type BucketSet struct {
	Timeframe valueobject.Timeframe
	Labels    []string
	Periods   []string
}

// Len returns the number of buckets.
func (b BucketSet) Len() int {
	return len(b.Periods)
}

// BucketOptions parameterize bucket generation for an organization.
type BucketOptions struct {
	// Location is the timezone buckets are computed in. Nil uses now's location.
	Location *time.Location
	// LegacyDailySlot reproduces the historical 25-slot daily layout, whose
	// last period repeats "23" under a blank label.
	LegacyDailySlot bool
}

func (o BucketOptions) location(now time.Time) *time.Location {
	if o.Location != nil {
		return o.Location
	}
	return now.Location()
}

// GenerateBuckets builds the bucket set for timeframe around now.
// Unknown timeframes fall back to daily.
func GenerateBuckets(timeframe valueobject.Timeframe, now time.Time, opts BucketOptions) BucketSet {
	now = now.In(opts.location(now))

	switch timeframe.Normalize() {
	case valueobject.TimeframeWeekly:
		return weeklyBuckets(now)
	case valueobject.TimeframeMonthly:
		return monthlyBuckets(now)
	default:
		return dailyBuckets(opts.LegacyDailySlot)
	}
}

// BucketKey formats t into the canonical key of its bucket.
// Generation and alignment both go through here so keys always compare equal.
func BucketKey(t time.Time, timeframe valueobject.Timeframe, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}

	switch timeframe.Normalize() {
	case valueobject.TimeframeWeekly:
		return t.Format(weeklyKeyLayout)
	case valueobject.TimeframeMonthly:
		return t.Format(monthlyKeyLayout)
	default:
		return t.Format(dailyKeyLayout)
	}
}

// BucketWindow returns the instant range covered by the bucket set of now.
func BucketWindow(timeframe valueobject.Timeframe, now time.Time, loc *time.Location) valueobject.TimeWindow {
	if loc != nil {
		now = now.In(loc)
	}
	midnight := startOfDay(now)

	switch timeframe.Normalize() {
	case valueobject.TimeframeWeekly:
		start := getWeekStartDate(now)
		return valueobject.TimeWindow{From: start, To: start.AddDate(0, 0, daysPerWeek)}
	case valueobject.TimeframeMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return valueobject.TimeWindow{From: start, To: start.AddDate(0, 1, 0)}
	default:
		return valueobject.TimeWindow{From: midnight, To: midnight.AddDate(0, 0, 1)}
	}
}

func dailyBuckets(legacySlot bool) BucketSet {
	size := hoursPerDay
	if legacySlot {
		size++
	}

	labels := make([]string, 0, size)
	periods := make([]string, 0, size)
	for hour := 0; hour < hoursPerDay; hour++ {
		key := fmt.Sprintf("%02d", hour)
		periods = append(periods, key)
		if hour%dailyTickGap == 0 || hour == hoursPerDay-1 {
			labels = append(labels, key)
		} else {
			labels = append(labels, "")
		}
	}

	if legacySlot {
		periods = append(periods, periods[hoursPerDay-1])
		labels = append(labels, "")
	}

	return BucketSet{
		Timeframe: valueobject.TimeframeDaily,
		Labels:    labels,
		Periods:   periods,
	}
}

func weeklyBuckets(now time.Time) BucketSet {
	monday := getWeekStartDate(now)

	labels := make([]string, daysPerWeek)
	periods := make([]string, daysPerWeek)
	for i := 0; i < daysPerWeek; i++ {
		key := monday.AddDate(0, 0, i).Format(weeklyKeyLayout)
		periods[i] = key
		labels[i] = key
	}

	return BucketSet{
		Timeframe: valueobject.TimeframeWeekly,
		Labels:    labels,
		Periods:   periods,
	}
}

func monthlyBuckets(now time.Time) BucketSet {
	days := daysInMonth(now)
	checkpoints := monthlyCheckpoints(days)

	labels := make([]string, days)
	periods := make([]string, days)
	for day := 1; day <= days; day++ {
		key := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, now.Location()).Format(monthlyKeyLayout)
		periods[day-1] = key
		if checkpoints[day] {
			labels[day-1] = key
		}
	}

	return BucketSet{
		Timeframe: valueobject.TimeframeMonthly,
		Labels:    labels,
		Periods:   periods,
	}
}

// monthlyCheckpoints picks the labeled days: 1, 1+step, ..., 1+5*step and
// the last day of the month, with step = floor(days/6).
func monthlyCheckpoints(days int) map[int]bool {
	step := days / monthlyTickDivisor
	if step < 1 {
		step = 1
	}

	checkpoints := make(map[int]bool, monthlyTickDivisor+1)
	for k := 0; k < monthlyTickDivisor; k++ {
		day := 1 + k*step
		if day > days {
			break
		}
		checkpoints[day] = true
	}
	checkpoints[days] = true
	return checkpoints
}

// getWeekStartDate returns the Monday of the week containing the given date.
func getWeekStartDate(date time.Time) time.Time {
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday is 7
	}
	daysFromMonday := weekday - 1
	return time.Date(date.Year(), date.Month(), date.Day()-daysFromMonday, 0, 0, 0, 0, date.Location())
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
