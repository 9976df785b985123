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
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Tab metrics
	TabOperations  *prometheus.CounterVec
	OpenTabs       prometheus.Gauge
	PersistFailure *prometheus.CounterVec
	RouteChanges   *prometheus.CounterVec

	// Workspace metrics
	WorkspacesLoaded prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.GaugeFunc
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot Snapshot

	mu sync.RWMutex
}

// Snapshot holds current metric values for the JSON API
type Snapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	ActiveConnections int64   `json:"active_connections"`
	TabOperations     int64   `json:"tab_operations"`
	PersistFailures   int64   `json:"persist_failures"`
	RouteChanges      int64   `json:"route_changes"`
	AvgLatencyMs      float64 `json:"avg_latency_ms"`
	UptimeSeconds     float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a metrics collector with its own registry
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

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizadmin_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bizadmin_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bizadmin_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bizadmin_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		// Tab metrics
		TabOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizadmin_tab_operations_total",
				Help: "Tab operations by kind and result",
			},
			[]string{"op", "result"},
		),
		OpenTabs: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bizadmin_tabs_open",
				Help: "Tabs open in the most recently changed workspace",
			},
		),
		PersistFailure: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizadmin_tab_persist_failures_total",
				Help: "Failed writes of tab state",
			},
			[]string{"key"},
		),
		RouteChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizadmin_route_changes_total",
				Help: "Route changes by binding outcome",
			},
			[]string{"outcome"},
		),

		// Workspace metrics
		WorkspacesLoaded: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bizadmin_workspaces_loaded",
				Help: "Workspaces held in memory",
			},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bizadmin_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizadmin_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "bizadmin_uptime_seconds",
			Help: "Service uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the registry holding every collector
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// TabOperation counts a tab operation
func (m *Metrics) TabOperation(op, result string) {
	m.TabOperations.WithLabelValues(op, result).Inc()
	m.mu.Lock()
	m.snapshot.TabOperations++
	m.mu.Unlock()
}

// TabsOpen records the tab count after a change
func (m *Metrics) TabsOpen(n int) {
	m.OpenTabs.Set(float64(n))
}

// PersistFailed counts a failed write of key
func (m *Metrics) PersistFailed(key string) {
	m.PersistFailure.WithLabelValues(key).Inc()
	m.mu.Lock()
	m.snapshot.PersistFailures++
	m.mu.Unlock()
}

// RouteBound counts a route change by outcome
func (m *Metrics) RouteBound(outcome string) {
	m.RouteChanges.WithLabelValues(outcome).Inc()
	m.mu.Lock()
	m.snapshot.RouteChanges++
	m.mu.Unlock()
}

// SetWorkspacesLoaded sets the number of workspaces in memory
func (m *Metrics) SetWorkspacesLoaded(n int) {
	m.WorkspacesLoaded.Set(float64(n))
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
	snap := m.snapshot
	m.mu.RUnlock()

	if snap.TotalRequests > 0 {
		snap.AvgLatencyMs = snap.totalDuration / float64(snap.TotalRequests) * 1000
	}
	snap.UptimeSeconds = time.Since(m.startTime).Seconds()
	return snap
}
