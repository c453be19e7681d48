package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tebengan"

var (
	SeatAdmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "seat_admissions_total", Help: "Seat admission decisions by outcome"},
		[]string{"outcome"},
	)
	SeatsReleased = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "seats_released_total", Help: "Seats returned to ride inventory"})

	LifecycleEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "lifecycle_events_total", Help: "Committed ride, booking and rating transitions"},
		[]string{"type"},
	)
	NotificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "notification_failures_total", Help: "Lifecycle events that could not be published"},
		[]string{"type"},
	)
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "availability_cache_lookups_total", Help: "Availability cache lookups by result"},
		[]string{"result"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
