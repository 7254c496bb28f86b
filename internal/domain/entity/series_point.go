// Package entity defines the core business entities for the domain layer.
package entity

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EpochMillis is an upstream timestamp in epoch milliseconds.
// The upstream API sends it either as a JSON number or as a numeric string;
// anything else decodes into an invalid value instead of failing the payload.
type EpochMillis struct {
	millis int64
	valid  bool
}

// NewEpochMillis wraps a millisecond timestamp.
func NewEpochMillis(ms int64) EpochMillis {
	return EpochMillis{millis: ms, valid: true}
}

// EpochMillisFromTime converts t into epoch milliseconds.
func EpochMillisFromTime(t time.Time) EpochMillis {
	return NewEpochMillis(t.UnixMilli())
}

// ParseEpochMillis coerces a numeric string (integer, float or exponent form).
func ParseEpochMillis(raw string) EpochMillis {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return EpochMillis{}
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return NewEpochMillis(ms)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return EpochMillis{}
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return EpochMillis{}
	}
	return NewEpochMillis(int64(f))
}

// Valid reports whether the timestamp was numeric.
func (e EpochMillis) Valid() bool {
	return e.valid
}

// Millis returns the raw millisecond value; zero when invalid.
func (e EpochMillis) Millis() int64 {
	return e.millis
}

// Time returns the timestamp as a time.Time in loc.
func (e EpochMillis) Time(loc *time.Location) (time.Time, bool) {
	if !e.valid {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(e.millis).In(loc), true
}

// UnmarshalJSON accepts a number, a numeric string or null.
func (e *EpochMillis) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*e = EpochMillis{}
		return nil
	}
	if data[0] == '"' {
		unquoted, err := strconv.Unquote(string(data))
		if err != nil {
			*e = EpochMillis{}
			return nil
		}
		*e = ParseEpochMillis(unquoted)
		return nil
	}
	*e = ParseEpochMillis(string(data))
	return nil
}

// MarshalJSON writes the timestamp as a number, or null when invalid.
func (e EpochMillis) MarshalJSON() ([]byte, error) {
	if !e.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(e.millis, 10)), nil
}

// Quantity is a whole-number count that decodes from a JSON number in any
// notation ("3", "3.0", "3e0") or from a numeric string. Anything else is 0.
type Quantity int64

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(bytes.Trim(data, `"`)))
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*q = 0
		return nil
	}
	*q = Quantity(math.Round(f))
	return nil
}

// SeriesRecord is implemented by every raw point shape the upstream returns.
type SeriesRecord interface {
	RecordTime() EpochMillis
	RecordValue() float64
}

// RegistrationPoint is one bucket of driver or rider sign-ups.
type RegistrationPoint struct {
	Time  EpochMillis `json:"time"`
	Count Quantity    `json:"count"`
}

// RecordTime implements SeriesRecord.
func (p RegistrationPoint) RecordTime() EpochMillis { return p.Time }

// RecordValue implements SeriesRecord.
func (p RegistrationPoint) RecordValue() float64 { return float64(p.Count) }

// IncomePoint is one bucket of ride income. The upstream names the amount "count".
type IncomePoint struct {
	Time   EpochMillis     `json:"time"`
	Amount decimal.Decimal `json:"count"`
}

// RecordTime implements SeriesRecord.
func (p IncomePoint) RecordTime() EpochMillis { return p.Time }

// RecordValue implements SeriesRecord.
func (p IncomePoint) RecordValue() float64 {
	f, _ := p.Amount.Float64()
	return f
}

// RequestPoint is one bucket of ride requests: Count succeeded out of Sum.
type RequestPoint struct {
	Time  EpochMillis `json:"time"`
	Count Quantity    `json:"count"`
	Sum   Quantity    `json:"sum"`
}

// RecordTime implements SeriesRecord.
func (p RequestPoint) RecordTime() EpochMillis { return p.Time }

// RecordValue implements SeriesRecord.
func (p RequestPoint) RecordValue() float64 { return float64(p.Count) }

// SuccessRate returns round(count/sum*100), or 0 when sum is not positive.
func (p RequestPoint) SuccessRate() float64 {
	if p.Sum <= 0 {
		return 0
	}
	return math.Round(float64(p.Count) / float64(p.Sum) * 100)
}
