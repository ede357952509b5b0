// Package metrics provides Prometheus metrics for the auth server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "codeauth"

// Verification results.
const (
	ResultAccepted    = "accepted"
	ResultRejected    = "rejected"
	ResultUnavailable = "unavailable"
)

// Delivery statuses.
const (
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
	StatusDropped   = "dropped"
)

var (
	// CodesIssued counts one-time codes written to the cache.
	CodesIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codes_issued_total",
			Help:      "Total number of one-time codes issued",
		},
	)

	// CodeVerifications counts verification attempts by result.
	CodeVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "code_verifications_total",
			Help:      "Total number of code verification attempts",
		},
		[]string{"result"},
	)

	// Deliveries counts delivery jobs by final status.
	Deliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Total number of code delivery jobs",
		},
		[]string{"status"},
	)

	// DeliveryDuration measures time spent on a delivery job including retries.
	DeliveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "delivery_duration_seconds",
			Help:      "Duration of code delivery jobs in seconds",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 20, 60},
		},
	)

	// IdentitiesCreated counts identities created on first login.
	IdentitiesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identities_created_total",
			Help:      "Total number of identities created",
		},
	)

	// TokensIssued counts session tokens issued.
	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_issued_total",
			Help:      "Total number of session tokens issued",
		},
	)

	// HTTPRequests counts HTTP requests by route and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "code"},
	)

	// HTTPDuration measures HTTP request duration.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordVerification records the outcome of a code verification.
func RecordVerification(result string) {
	CodeVerifications.WithLabelValues(result).Inc()
}

// RecordDelivery records a finished delivery job.
func RecordDelivery(status string, duration time.Duration) {
	Deliveries.WithLabelValues(status).Inc()
	DeliveryDuration.Observe(duration.Seconds())
}

// RecordRequest records a served HTTP request.
func RecordRequest(method, route, code string, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, code).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
