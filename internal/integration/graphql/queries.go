package graphql

// Operation names, used for logging and metrics labels.
const (
	opDriverRegistrations = "DriverRegistrations"
	opRiderRegistrations  = "RiderRegistrations"
	opIncomeSeries        = "IncomeSeries"
	opRequestsSeries      = "RequestsSeries"
	opNotificationCounts  = "NotificationCounts"
)

const driverRegistrationsQuery = `query DriverRegistrations($timeframe: ChartTimeframe!, $from: Float!, $to: Float!) {
  driverRegistrations(timeframe: $timeframe, from: $from, to: $to) {
    time
    count
  }
}`

const riderRegistrationsQuery = `query RiderRegistrations($timeframe: ChartTimeframe!, $from: Float!, $to: Float!) {
  riderRegistrations(timeframe: $timeframe, from: $from, to: $to) {
    time
    count
  }
}`

const incomeSeriesQuery = `query IncomeSeries($timeframe: ChartTimeframe!, $from: Float!, $to: Float!) {
  incomeSeries(timeframe: $timeframe, from: $from, to: $to) {
    time
    count
  }
}`

const requestsSeriesQuery = `query RequestsSeries($timeframe: ChartTimeframe!, $from: Float!, $to: Float!) {
  requestsSeries(timeframe: $timeframe, from: $from, to: $to) {
    time
    count
    sum
  }
}`

const notificationCountsQuery = `query NotificationCounts {
  notificationCounts {
    pendingDrivers
    pendingPartners
    openComplaints
    activeRides
  }
}`
