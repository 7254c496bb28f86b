package dto

import (
	"time"

	"github.com/fleet-console/backend/internal/domain/entity"
)

// NotificationCountsResponse represents the response for notification counts.
type NotificationCountsResponse struct {
	Data NotificationCountsData `json:"data"`
}

// NotificationCountsData represents the header badge counters.
type NotificationCountsData struct {
	PendingDrivers  int    `json:"pending_drivers"`
	PendingPartners int    `json:"pending_partners"`
	OpenComplaints  int    `json:"open_complaints"`
	ActiveRides     int    `json:"active_rides"`
	Total           int    `json:"total"`
	FetchedAt       string `json:"fetched_at"`
}

// ToNotificationCountsData converts entity.NotificationCounts to its DTO.
func ToNotificationCountsData(counts *entity.NotificationCounts) NotificationCountsData {
	return NotificationCountsData{
		PendingDrivers:  counts.PendingDrivers,
		PendingPartners: counts.PendingPartners,
		OpenComplaints:  counts.OpenComplaints,
		ActiveRides:     counts.ActiveRides,
		Total:           counts.Total(),
		FetchedAt:       counts.FetchedAt.UTC().Format(time.RFC3339),
	}
}
