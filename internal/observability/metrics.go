package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	mentorRequestsTotal  *prometheus.CounterVec
	mentorLatencySeconds *prometheus.HistogramVec
	mentorErrorsTotal    *prometheus.CounterVec
	reviewDecisionsTotal *prometheus.CounterVec
	pollerSweepsTotal    prometheus.Counter
	notificationsTotal   *prometheus.CounterVec
	sseClientsActive     prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		mentorRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mentor_requests_total",
			Help: "Total number of mentor API requests served.",
		}, []string{"method", "route", "status"})

		mentorLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mentor_latency_seconds",
			Help:    "Latency distribution for mentor API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		mentorErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mentor_errors_total",
			Help: "Total number of error responses returned by mentor endpoints.",
		}, []string{"method", "route", "status"})

		reviewDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "review_decisions_total",
			Help: "Total number of mentor review decisions applied, by resulting status.",
		}, []string{"status"})

		pollerSweepsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pending_poller_sweeps_total",
			Help: "Total number of pending review sweeps executed.",
		})

		notificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_published_total",
			Help: "Total number of notifications published, by type.",
		}, []string{"type"})

		sseClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sse_clients_active",
			Help: "Number of mentors currently subscribed to the notification stream.",
		})

		prometheus.MustRegister(
			mentorRequestsTotal,
			mentorLatencySeconds,
			mentorErrorsTotal,
			reviewDecisionsTotal,
			pollerSweepsTotal,
			notificationsTotal,
			sseClientsActive,
		)
	})
}

// MentorRequests exposes the counter for mentor requests.
func MentorRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return mentorRequestsTotal
}

// MentorLatency exposes the latency histogram for mentor requests.
func MentorLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return mentorLatencySeconds
}

// MentorErrors exposes the counter for mentor error responses.
func MentorErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return mentorErrorsTotal
}

// ReviewDecisionsTotal exposes the counter for applied review decisions.
func ReviewDecisionsTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return reviewDecisionsTotal
}

// PollerSweepsTotal exposes the counter for pending review sweeps.
func PollerSweepsTotal() prometheus.Counter {
	RegisterMetrics()
	return pollerSweepsTotal
}

// NotificationsPublishedTotal exposes the counter for published notifications.
func NotificationsPublishedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsTotal
}

// SSEClientsActive exposes the gauge for live stream subscribers.
func SSEClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return sseClientsActive
}
