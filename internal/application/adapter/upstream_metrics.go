package adapter

import "time"

// UpstreamMetrics records upstream API telemetry.
type UpstreamMetrics interface {
	// ObserveUpstreamCall records one call; outcome is "success", "failure" or "rejected".
	ObserveUpstreamCall(operation, outcome string, duration time.Duration)
	SetBreakerState(name, state string)
}

// NopUpstreamMetrics discards all telemetry.
type NopUpstreamMetrics struct{}

// ObserveUpstreamCall implements UpstreamMetrics.
func (NopUpstreamMetrics) ObserveUpstreamCall(string, string, time.Duration) {}

// SetBreakerState implements UpstreamMetrics.
func (NopUpstreamMetrics) SetBreakerState(string, string) {}
