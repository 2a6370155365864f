// Package metrics holds the Prometheus instruments for the registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry *prometheus.Registry

	RecordsCreated     prometheus.Counter
	RecordsUpdated     prometheus.Counter
	RecordsDeleted     prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// New creates the metrics on a fresh registry, so several instances can coexist in tests.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RecordsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "person_registry_records_created_total",
			Help: "Total number of person records created",
		}),
		RecordsUpdated: f.NewCounter(prometheus.CounterOpts{
			Name: "person_registry_records_updated_total",
			Help: "Total number of person records updated",
		}),
		RecordsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "person_registry_records_deleted_total",
			Help: "Total number of person records deleted",
		}),
		ValidationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "person_registry_validation_failures_total",
			Help: "Rejected submissions by failing field",
		}, []string{"field"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "person_registry_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// ObserveValidationFailure counts one failure per rejected field.
func (m *Metrics) ObserveValidationFailure(fields map[string]string) {
	for f := range fields {
		m.ValidationFailures.WithLabelValues(f).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
