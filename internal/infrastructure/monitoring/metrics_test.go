package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsIsolated(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RecordWindowOp("open")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.WindowOps.WithLabelValues("open")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.WindowOps.WithLabelValues("open")))
}

func TestSnapshot(t *testing.T) {
	m := NewMetrics()

	m.RecordHTTPRequest("GET", "/windows", "200", 10*time.Millisecond, 128)
	m.RecordHTTPRequest("POST", "/windows", "404", 30*time.Millisecond, 64)
	m.SetWindowsOpen(3)
	m.IncWSConnections()
	m.IncWSConnections()
	m.DecWSConnections()
	m.RecordStoreWrite("win11-os-app-state-storage", nil)
	m.RecordStoreWrite("win11-os-app-state-storage", errors.New("disk full"))

	s := m.Snapshot()
	assert.Equal(t, int64(2), s.TotalRequests)
	assert.Equal(t, int64(1), s.TotalErrors)
	assert.Equal(t, int64(3), s.WindowsOpen)
	assert.Equal(t, int64(1), s.ActiveConnections)
	assert.Equal(t, int64(1), s.FailedWrites)
	assert.InDelta(t, 20.0, s.AvgLatencyMs, 0.5)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreWrites.WithLabelValues("win11-os-app-state-storage", "error")))
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/windows/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/windows/win_123", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/windows/:id", "200")))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "webdesk_http_requests_total"))
	assert.True(t, strings.Contains(w.Body.String(), "webdesk_uptime_seconds"))
}

func TestTimerNilMetrics(t *testing.T) {
	timer := NewTimer(nil, "terminal", "terminal.run")
	assert.NotPanics(t, func() { timer.Stop("success") })
}
