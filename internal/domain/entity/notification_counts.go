package entity

import "time"

// NotificationCounts holds the badge counters shown in the dashboard header.
type NotificationCounts struct {
	PendingDrivers  int       `json:"pending_drivers"`
	PendingPartners int       `json:"pending_partners"`
	OpenComplaints  int       `json:"open_complaints"`
	ActiveRides     int       `json:"active_rides"`
	FetchedAt       time.Time `json:"fetched_at"`
}

// Total returns the sum of all actionable counters.
func (n *NotificationCounts) Total() int {
	if n == nil {
		return 0
	}
	return n.PendingDrivers + n.PendingPartners + n.OpenComplaints
}

// SameCounters reports whether both snapshots carry identical counters,
// ignoring when they were fetched.
func (n *NotificationCounts) SameCounters(other *NotificationCounts) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.PendingDrivers == other.PendingDrivers &&
		n.PendingPartners == other.PendingPartners &&
		n.OpenComplaints == other.OpenComplaints &&
		n.ActiveRides == other.ActiveRides
}
