// Package valueobject defines immutable value types shared across the domain.
package valueobject

import "strings"

// Timeframe selects the bucket granularity of a dashboard chart.
type Timeframe string

const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
)

// ParseTimeframe converts user input into a Timeframe.
// Unrecognized input falls back to TimeframeDaily.
func ParseTimeframe(s string) Timeframe {
	switch Timeframe(strings.ToLower(strings.TrimSpace(s))) {
	case TimeframeWeekly:
		return TimeframeWeekly
	case TimeframeMonthly:
		return TimeframeMonthly
	default:
		return TimeframeDaily
	}
}

// IsValid reports whether t is one of the known timeframes.
func (t Timeframe) IsValid() bool {
	return t == TimeframeDaily || t == TimeframeWeekly || t == TimeframeMonthly
}

// Normalize returns t when valid and TimeframeDaily otherwise.
func (t Timeframe) Normalize() Timeframe {
	if t.IsValid() {
		return t
	}
	return TimeframeDaily
}

// GraphQLEnum returns the upstream enum spelling (DAILY, WEEKLY, MONTHLY).
func (t Timeframe) GraphQLEnum() string {
	return strings.ToUpper(string(t.Normalize()))
}
