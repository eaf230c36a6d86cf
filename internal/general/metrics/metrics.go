package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SeatReservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carpool", Name: "seat_reservations_total", Help: "Seat reservation attempts by outcome (won/lost)"},
		[]string{"outcome"},
	)
	BookingTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carpool", Name: "booking_transitions_total", Help: "Ride request status transitions"},
		[]string{"status"},
	)
	RatingsRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "carpool", Name: "ratings_recorded_total", Help: "Total ratings accepted"},
	)
	ListingCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carpool", Name: "listing_cache_total", Help: "Ride listing cache lookups by result (hit/miss)"},
		[]string{"result"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carpool", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "carpool",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
