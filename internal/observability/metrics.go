package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the service's prometheus collectors. Methods are nil-safe
// so wiring metrics stays optional in tests.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	detections     *prometheus.CounterVec
	ticketsCreated *prometheus.CounterVec
	statusChanges  *prometheus.CounterVec
	httpErrors     *prometheus.CounterVec
}

// NewMetrics registers all collectors on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hr_signals_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hr_signals_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		detections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hr_signals_red_flag_detections_total",
			Help: "Red-flag detections by category.",
		}, []string{"category"}),
		ticketsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hr_signals_tickets_created_total",
			Help: "Tickets created by urgency.",
		}, []string{"urgency"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hr_signals_ticket_transitions_total",
			Help: "Ticket status transitions.",
		}, []string{"from", "to"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hr_signals_http_errors_total",
			Help: "Request errors by route, method and error code.",
		}, []string{"route", "method", "code"}),
	}
	registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.detections,
		m.ticketsCreated,
		m.statusChanges,
		m.httpErrors,
	)
	return m
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRequest increments request counters and observes latency.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.httpErrors.WithLabelValues(route, method, code).Inc()
}

// RecordDetection counts a matched category.
func (m *Metrics) RecordDetection(category string) {
	if m == nil {
		return
	}
	m.detections.WithLabelValues(category).Inc()
}

// RecordTicketCreated counts a created ticket by urgency.
func (m *Metrics) RecordTicketCreated(urgency string) {
	if m == nil {
		return
	}
	m.ticketsCreated.WithLabelValues(urgency).Inc()
}

// RecordTicketTransition counts a status transition.
func (m *Metrics) RecordTicketTransition(from, to string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(from, to).Inc()
}
