// ABOUTME: Prometheus metrics for scout records, exports, discovery and transport.
// ABOUTME: Registered on a custom registry exposed through Handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine operations and outcomes used as label values.
const (
	OpStats = "stats"
	OpChart = "chart"
	OpCSV   = "csv"

	OutcomeOK        = "ok"
	OutcomeEmpty     = "empty"
	OutcomeUndefined = "undefined_improvement"
	OutcomeError     = "error"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem sets the subsystem for all metrics.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithHistogramBuckets sets custom histogram buckets for latency metrics.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithPrometheusRegistry sets a custom Prometheus registry.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// Manager owns every scout collector.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	profilesRegistered *prometheus.CounterVec
	profilesUpdated    *prometheus.CounterVec
	recordsLogged      prometheus.Counter
	recordsDeleted     prometheus.Counter
	exports            *prometheus.CounterVec
	discoveryQueries   prometheus.Counter
	discoveryResults   prometheus.Histogram
	engineResults      *prometheus.CounterVec
	mcpToolCalls       *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var customRegistry = prometheus.NewRegistry()

var globalManager = NewManager(WithPrometheusRegistry(customRegistry))

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scout",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.profilesRegistered = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profiles_registered_total",
		Help:      "Profiles registered, by role",
	}, []string{"role"})

	m.profilesUpdated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profiles_updated_total",
		Help:      "Profile edits saved, by role",
	}, []string{"role"})

	m.recordsLogged = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_logged_total",
		Help:      "Performance records created",
	})

	m.recordsDeleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_deleted_total",
		Help:      "Performance records deleted",
	})

	m.exports = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "exports_total",
		Help:      "Exports produced, by format",
	}, []string{"format"})

	m.discoveryQueries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "discovery_queries_total",
		Help:      "Athlete discovery queries served",
	})

	m.discoveryResults = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "discovery_results",
		Help:      "Number of athletes returned per discovery query",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
	})

	m.engineResults = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "engine_results_total",
		Help:      "Analytics engine calls, by operation and outcome",
	}, []string{"operation", "outcome"})

	m.mcpToolCalls = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "mcp_tool_calls_total",
		Help:      "MCP tool invocations, by tool and outcome",
	}, []string{"tool", "outcome"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordProfileRegistered counts a new profile.
func (m *Manager) RecordProfileRegistered(role string) {
	m.profilesRegistered.WithLabelValues(role).Inc()
}

// RecordProfileUpdated counts a saved profile edit.
func (m *Manager) RecordProfileUpdated(role string) {
	m.profilesUpdated.WithLabelValues(role).Inc()
}

// RecordLogged counts a created performance record.
func (m *Manager) RecordLogged() { m.recordsLogged.Inc() }

// RecordDeleted counts a deleted performance record.
func (m *Manager) RecordDeleted() { m.recordsDeleted.Inc() }

// RecordExport counts an export in the given format.
func (m *Manager) RecordExport(format string) {
	m.exports.WithLabelValues(format).Inc()
}

// RecordDiscovery counts a discovery query and observes its result size.
func (m *Manager) RecordDiscovery(results int) {
	m.discoveryQueries.Inc()
	m.discoveryResults.Observe(float64(results))
}

// RecordEngineResult counts an analytics engine call.
func (m *Manager) RecordEngineResult(operation, outcome string) {
	m.engineResults.WithLabelValues(operation, outcome).Inc()
}

// RecordToolCall counts an MCP tool invocation.
func (m *Manager) RecordToolCall(tool, outcome string) {
	m.mcpToolCalls.WithLabelValues(tool, outcome).Inc()
}

// RecordHTTPRequest records an HTTP request and its duration in milliseconds.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Default returns the process-wide manager registered on the custom registry.
func Default() *Manager {
	return globalManager
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Handler serves the custom registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}
