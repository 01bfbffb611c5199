// Package metrics exposes the server's Prometheus instruments. All methods
// are safe on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "carnet"

type Metrics struct {
	registry *prometheus.Registry

	statusChanges       *prometheus.CounterVec
	autoMatchRuns       *prometheus.CounterVec
	autoMatchVerified   prometheus.Counter
	identityValidations *prometheus.CounterVec
	qualityChecks       *prometheus.CounterVec
	intakeSubmissions   prometheus.Counter
	extractions         *prometheus.CounterVec
	openSessions        prometheus.Gauge
	rpcDuration         *prometheus.HistogramVec
}

// New builds the instruments on a private registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_changes_total",
			Help:      "Record status writes by target status.",
		}, []string{"status"}),
		autoMatchRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "automatch_runs_total",
			Help:      "Completed auto-match runs by outcome.",
		}, []string{"outcome"}),
		autoMatchVerified: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "automatch_verified_total",
			Help:      "Records moved to verified by auto-match.",
		}),
		identityValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intake_identity_validations_total",
			Help:      "Identity lookups by resulting state.",
		}, []string{"outcome"}),
		qualityChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intake_quality_checks_total",
			Help:      "Photo quality analyses by resulting state.",
		}, []string{"outcome"}),
		intakeSubmissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intake_submissions_total",
			Help:      "Accepted intake submissions.",
		}),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "composer_extractions_total",
			Help:      "Smart extractions by outcome.",
		}, []string{"outcome"}),
		openSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_sessions",
			Help:      "Workspace sessions currently open.",
		}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grpc_handling_seconds",
			Help:      "Unary RPC handling latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "code"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.statusChanges,
		m.autoMatchRuns,
		m.autoMatchVerified,
		m.identityValidations,
		m.qualityChecks,
		m.intakeSubmissions,
		m.extractions,
		m.openSessions,
		m.rpcDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) StatusChanged(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}

// AutoMatchFinished records one run; verified is ignored when err is set.
func (m *Metrics) AutoMatchFinished(verified int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.autoMatchRuns.WithLabelValues("error").Inc()
		return
	}
	m.autoMatchRuns.WithLabelValues("ok").Inc()
	m.autoMatchVerified.Add(float64(verified))
}

func (m *Metrics) IdentityValidated(outcome string) {
	if m == nil {
		return
	}
	m.identityValidations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) QualityChecked(outcome string) {
	if m == nil {
		return
	}
	m.qualityChecks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IntakeSubmitted() {
	if m == nil {
		return
	}
	m.intakeSubmissions.Inc()
}

func (m *Metrics) Extracted(outcome string) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.openSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.openSessions.Dec()
}

func (m *Metrics) ObserveRPC(method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(method, code).Observe(d.Seconds())
}
