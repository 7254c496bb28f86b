package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleet-console/backend/internal/domain/entity"
	"github.com/fleet-console/backend/internal/domain/valueobject"
)

func TestChartMetrics(t *testing.T) {
	m := New()

	m.ObserveAssembly(entity.ChartIncome, valueobject.TimeframeWeekly, 120*time.Millisecond)
	m.IncFetchFailure(entity.ChartRegistrations, "riders")
	m.IncFetchFailure(entity.ChartRegistrations, "riders")
	m.IncStaleDiscarded()

	assert.Equal(t, 1, testutil.CollectAndCount(m.chartAssemblyDuration))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.chartFetchFailures.WithLabelValues("registrations", "riders")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.staleDiscarded))
}

func TestUpstreamMetrics(t *testing.T) {
	m := New()

	m.ObserveUpstreamCall("IncomeSeries", "success", 30*time.Millisecond)
	m.ObserveUpstreamCall("IncomeSeries", "rejected", 0)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.upstreamCalls.WithLabelValues("IncomeSeries", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.upstreamCalls.WithLabelValues("IncomeSeries", "rejected")))
	// Rejected calls never reached upstream and carry no latency.
	assert.Equal(t, 1, testutil.CollectAndCount(m.upstreamDuration))
}

func TestSetBreakerState(t *testing.T) {
	tests := []struct {
		state string
		want  float64
	}{
		{state: "closed", want: 0},
		{state: "half-open", want: 1},
		{state: "open", want: 2},
		{state: "unknown", want: 0},
	}

	m := New()
	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			m.SetBreakerState("fleet-graphql", tt.state)
			assert.Equal(t, tt.want, testutil.ToFloat64(m.breakerState.WithLabelValues("fleet-graphql")))
		})
	}
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/charts/:kind", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/charts/income", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/charts/:kind", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "fleet_console_http_requests_total"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
