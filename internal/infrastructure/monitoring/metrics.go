package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop reasons recorded by the dispatcher.
const (
	DropOrigin    = "origin"
	DropNamespace = "namespace"
	DropMalformed = "malformed"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Messaging metrics
	MessagesDispatched *prometheus.CounterVec
	MessagesDropped    *prometheus.CounterVec
	MessagesForwarded  *prometheus.CounterVec
	MessagesPosted     prometheus.Counter
	DeliveryErrors     *prometheus.CounterVec

	// Frame metrics
	FramesActive  prometheus.Gauge
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	registry *prometheus.Registry

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64
	TotalDispatched   int64
	TotalDropped      int64
	TotalForwarded    int64
	ActiveConnections int64
}

// NewMetrics creates a new metrics collector. Each collector owns its own
// registry, so independent instances never collide on registration.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry:  registry,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gateway_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		MessagesDispatched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_messages_dispatched_total",
				Help: "Messages accepted by the dispatcher and emitted locally",
			},
			[]string{"namespace"},
		),
		MessagesDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_messages_dropped_total",
				Help: "Messages dropped before dispatch",
			},
			[]string{"reason"},
		),
		MessagesForwarded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_messages_forwarded_total",
				Help: "Messages re-sent to proxy destinations",
			},
			[]string{"namespace"},
		),
		MessagesPosted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gateway_messages_posted_total",
				Help: "Messages posted to frames",
			},
		),
		DeliveryErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_delivery_errors_total",
				Help: "Failed deliveries to frames",
			},
			[]string{"kind"},
		),

		FramesActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gateway_frames_active",
				Help: "Number of frames currently attached to the fabric",
			},
		),
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gateway_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_ws_messages_total",
				Help: "WebSocket messages by direction",
			},
			[]string{"direction"},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gateway_uptime_seconds",
				Help: "Gateway uptime in seconds",
			},
		),
	}
}

// RecordHTTPRequest records HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.mu.Unlock()
}

// RecordDispatch records an accepted and locally emitted message
func (m *Metrics) RecordDispatch(namespace string) {
	m.MessagesDispatched.WithLabelValues(namespace).Inc()

	m.mu.Lock()
	m.snapshot.TotalDispatched++
	m.mu.Unlock()
}

// RecordDrop records a silently dropped message
func (m *Metrics) RecordDrop(reason string) {
	m.MessagesDropped.WithLabelValues(reason).Inc()

	m.mu.Lock()
	m.snapshot.TotalDropped++
	m.mu.Unlock()
}

// RecordForward records a proxy re-send
func (m *Metrics) RecordForward(namespace string) {
	m.MessagesForwarded.WithLabelValues(namespace).Inc()

	m.mu.Lock()
	m.snapshot.TotalForwarded++
	m.mu.Unlock()
}

// RecordPost records an outbound post to a frame
func (m *Metrics) RecordPost() {
	m.MessagesPosted.Inc()
}

// RecordDeliveryError records a failed delivery to a frame
func (m *Metrics) RecordDeliveryError(kind string) {
	m.DeliveryErrors.WithLabelValues(kind).Inc()
}

// SetFramesActive updates the active frame gauge
func (m *Metrics) SetFramesActive(n int) {
	m.FramesActive.Set(float64(n))
}

// WSConnected records a new WebSocket connection
func (m *Metrics) WSConnected() {
	m.WSConnections.Inc()

	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// WSDisconnected records a closed WebSocket connection
func (m *Metrics) WSDisconnected() {
	m.WSConnections.Dec()

	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// RecordWSMessage records a WebSocket message ("in" or "out")
func (m *Metrics) RecordWSMessage(direction string) {
	m.WSMessages.WithLabelValues(direction).Inc()
}

// Registry returns the collector's registry, for the scrape endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Snapshot returns current metric values for the JSON API
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.Uptime.Set(time.Since(m.startTime).Seconds())

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
