package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order creations",
	}, []string{"reason"})

	OrderCreateLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_create_latency_seconds",
		Help:    "Latency of the transactional order insert",
		Buckets: prometheus.DefBuckets,
	})

	TrackingLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracking_lookups_total",
		Help: "Total number of public tracking lookups",
	}, []string{"result"})

	TrackingThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracking_throttled_total",
		Help: "Total number of tracking lookups rejected by the rate limit",
	})

	ReconcileRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reconcile_runs_total",
		Help: "Total number of account reconciliation runs by outcome",
	}, []string{"outcome"})

	ConfirmationEmailsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "confirmation_emails_total",
		Help: "Total number of order confirmation emails by outcome",
	}, []string{"outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
