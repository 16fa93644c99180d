package observability

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/caseline-backend/internal/platform/logger"
)

// Metrics owns a private Prometheus registry so tests can build as many as
// they like without colliding on the default one.
type Metrics struct {
	reg *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge
	apiDenied   *prometheus.CounterVec

	writeOps     *prometheus.CounterVec
	writeLatency *prometheus.HistogramVec

	stepsRepositioned prometheus.Counter
	alertsReconciled  prometheus.Counter
	busEvents         *prometheus.CounterVec
}

func NewMetrics(log *logger.Logger) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caseline_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "caseline_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "caseline_http_requests_inflight",
			Help: "HTTP requests currently being served.",
		}),
		apiDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caseline_http_access_denied_total",
			Help: "Requests turned away by the auth or program role gates.",
		}, []string{"route", "status"}),
		writeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caseline_write_operations_total",
			Help: "Transactional write operations by name and outcome.",
		}, []string{"op", "status"}),
		writeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "caseline_write_operation_duration_seconds",
			Help:    "Transactional write latency in seconds.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"op"}),
		stepsRepositioned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "caseline_pathway_steps_repositioned_total",
			Help: "Steps whose position was rewritten by an adjustment pass.",
		}),
		alertsReconciled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "caseline_alerts_reconciled_total",
			Help: "Open alerts whose step counters were changed by an adjustment pass.",
		}),
		busEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caseline_pathway_events_received_total",
			Help: "Pathway change events received from the bus.",
		}, []string{"type"}),
	}
	m.reg.MustRegister(
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiDenied,
		m.writeOps, m.writeLatency,
		m.stepsRepositioned, m.alertsReconciled, m.busEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if log != nil {
		log.Info("Observability metrics enabled")
	}
	return m
}

// RegisterDB exports connection pool stats for db.
func (m *Metrics) RegisterDB(db *sql.DB, name string) error {
	if m == nil || db == nil {
		return nil
	}
	return m.reg.Register(collectors.NewDBStatsCollector(db, name))
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

// ObserveDenied counts a request rejected with 401 or 403.
func (m *Metrics) ObserveDenied(route, status string) {
	if m == nil {
		return
	}
	m.apiDenied.WithLabelValues(route, status).Inc()
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveOperation satisfies aggregates.Hooks.
func (m *Metrics) ObserveOperation(name, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.writeOps.WithLabelValues(name, status).Inc()
	m.writeLatency.WithLabelValues(name).Observe(dur.Seconds())
}

// ObserveAdjustment records one adjustment pass.
func (m *Metrics) ObserveAdjustment(stepsMoved, alertsChanged int) {
	if m == nil {
		return
	}
	m.stepsRepositioned.Add(float64(stepsMoved))
	m.alertsReconciled.Add(float64(alertsChanged))
}

func (m *Metrics) IncBusEvent(eventType string) {
	if m == nil {
		return
	}
	if eventType == "" {
		eventType = "unknown"
	}
	m.busEvents.WithLabelValues(eventType).Inc()
}
