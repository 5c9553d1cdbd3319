// Package metrics holds the service's prometheus collectors on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use through a nil pointer; every recorder is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	ProviderFetchesTotal *prometheus.CounterVec
	FallbacksTotal       *prometheus.CounterVec
	DegradedTotal        *prometheus.CounterVec
	TransitionsTotal     *prometheus.CounterVec
	AssistantCallsTotal  *prometheus.CounterVec
	PersistErrorsTotal   *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
	RemoteClients        prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ProviderFetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nur_provider_fetches_total",
				Help: "Total number of provider requests by outcome",
			},
			[]string{"provider", "outcome"},
		),
		FallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nur_resolution_fallbacks_total",
				Help: "Total number of strategy failures that moved resolution to the next provider",
			},
			[]string{"resource", "strategy"},
		),
		DegradedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nur_resolution_degraded_total",
				Help: "Total number of optional fields dropped from a composite result",
			},
			[]string{"resource", "field"},
		),
		TransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nur_playback_transitions_total",
				Help: "Total number of playback state transitions by target state",
			},
			[]string{"state"},
		),
		AssistantCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nur_assistant_calls_total",
				Help: "Total number of assistant calls",
			},
			[]string{"provider", "status"},
		),
		PersistErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nur_persist_errors_total",
				Help: "Total number of failed bookmark or settings writes",
			},
			[]string{"op"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nur_http_request_duration_seconds",
				Help:    "Time spent serving API requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		RemoteClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "nur_remote_clients",
				Help: "Number of connected remote playback clients",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ProviderFetchesTotal,
		m.FallbacksTotal,
		m.DegradedTotal,
		m.TransitionsTotal,
		m.AssistantCallsTotal,
		m.PersistErrorsTotal,
		m.RequestDuration,
		m.RemoteClients,
	)

	return m
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordFetch(provider, outcome string) {
	if m == nil {
		return
	}
	m.ProviderFetchesTotal.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) RecordFallback(resource, strategy string) {
	if m == nil {
		return
	}
	m.FallbacksTotal.WithLabelValues(resource, strategy).Inc()
}

func (m *Metrics) RecordDegraded(resource, field string) {
	if m == nil {
		return
	}
	m.DegradedTotal.WithLabelValues(resource, field).Inc()
}

func (m *Metrics) RecordTransition(state string) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(state).Inc()
}

func (m *Metrics) RecordAssistantCall(provider, status string) {
	if m == nil {
		return
	}
	m.AssistantCallsTotal.WithLabelValues(provider, status).Inc()
}

func (m *Metrics) RecordPersistError(op string) {
	if m == nil {
		return
	}
	m.PersistErrorsTotal.WithLabelValues(op).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func (m *Metrics) SetRemoteClients(n int) {
	if m == nil {
		return
	}
	m.RemoteClients.Set(float64(n))
}
