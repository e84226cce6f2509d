package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PaymentsVerified = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "transitpay", Name: "payments_verified_total", Help: "Provider verifications by outcome"},
		[]string{"outcome"},
	)
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "transitpay", Name: "webhook_events_total", Help: "Webhook events by type"},
		[]string{"event"},
	)
	SeatHoldsActive = promauto.NewGauge(
		prometheus.GaugeOpts{Namespace: "transitpay", Name: "seat_holds_active", Help: "Seat holds currently placed"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "transitpay", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "transitpay",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
