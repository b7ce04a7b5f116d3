// Package metrics holds the Prometheus collectors exported by the menu
// service on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Lixing-Zhang/storefront-menu/internal/models"
)

const namespace = "menu"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	batchDishes        *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	ordersPlaced       prometheus.Counter
}

// New registers every collector, including the Go runtime and process ones.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		batchDishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "template_batch_dishes_total",
			Help:      "Dishes processed by template batch operations, by outcome.",
		}, []string{"operation", "outcome"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_validation_errors_total",
			Help:      "Selection validation errors by kind.",
		}, []string{"kind"}),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders accepted and priced.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.batchDishes,
		m.validationFailures,
		m.ordersPlaced,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveBatch records the outcome counts of a template batch.
func (m *Metrics) ObserveBatch(operation string, succeeded, failed int) {
	m.batchDishes.WithLabelValues(operation, "succeeded").Add(float64(succeeded))
	m.batchDishes.WithLabelValues(operation, "failed").Add(float64(failed))
}

// ObserveValidation counts each error of a failed validation.
func (m *Metrics) ObserveValidation(result models.ValidationResult) {
	for _, e := range result.Errors {
		m.validationFailures.WithLabelValues(string(e.Kind)).Inc()
	}
}

// ObserveOrder counts an accepted order.
func (m *Metrics) ObserveOrder() {
	m.ordersPlaced.Inc()
}
