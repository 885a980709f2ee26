package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Window manager metrics
	WindowOps   *prometheus.CounterVec
	WindowsOpen prometheus.Gauge

	// Service metrics
	ServiceCalls    *prometheus.CounterVec
	ServiceDuration *prometheus.HistogramVec

	// Persistence metrics
	StoreWrites *prometheus.CounterVec
	Restores    *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current metric values for JSON API
type Snapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	WindowsOpen       int64   `json:"windows_open"`
	ActiveConnections int64   `json:"active_connections"`
	FailedWrites      int64   `json:"failed_writes"`
	AvgLatencyMs      float64 `json:"avg_latency_ms"`
	UptimeSeconds     float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a metrics collector on its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webdesk_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webdesk_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webdesk_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		WindowOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webdesk_window_operations_total",
				Help: "Total number of applied window manager operations",
			},
			[]string{"op"},
		),
		WindowsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "webdesk_windows_open",
				Help: "Number of open windows",
			},
		),

		ServiceCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webdesk_service_calls_total",
				Help: "Total number of mock application tool calls",
			},
			[]string{"service", "tool", "status"},
		),
		ServiceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webdesk_service_duration_seconds",
				Help:    "Mock application tool call duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
			[]string{"service", "tool"},
		),

		StoreWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webdesk_store_writes_total",
				Help: "Total number of snapshot writes",
			},
			[]string{"key", "status"},
		),
		Restores: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webdesk_store_restores_total",
				Help: "Total number of snapshot loads",
			},
			[]string{"key", "status"},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "webdesk_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webdesk_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "webdesk_uptime_seconds",
			Help: "Backend uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the underlying Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus exposition handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordWindowOp records an applied window manager operation
func (m *Metrics) RecordWindowOp(op string) {
	m.WindowOps.WithLabelValues(op).Inc()
}

// SetWindowsOpen sets the number of open windows
func (m *Metrics) SetWindowsOpen(count int) {
	m.WindowsOpen.Set(float64(count))
	m.mu.Lock()
	m.snapshot.WindowsOpen = int64(count)
	m.mu.Unlock()
}

// RecordServiceCall records a mock application tool call
func (m *Metrics) RecordServiceCall(service, tool, status string, duration time.Duration) {
	m.ServiceCalls.WithLabelValues(service, tool, status).Inc()
	m.ServiceDuration.WithLabelValues(service, tool).Observe(duration.Seconds())
}

// RecordStoreWrite records a snapshot write outcome
func (m *Metrics) RecordStoreWrite(key string, err error) {
	status := "success"
	if err != nil {
		status = "error"
		m.mu.Lock()
		m.snapshot.FailedWrites++
		m.mu.Unlock()
	}
	m.StoreWrites.WithLabelValues(key, status).Inc()
}

// RecordRestore records a snapshot load outcome
func (m *Metrics) RecordRestore(key, status string) {
	m.Restores.WithLabelValues(key, status).Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns the current summary values
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	if s.TotalRequests > 0 {
		s.AvgLatencyMs = s.totalDuration / float64(s.TotalRequests) * 1000
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
