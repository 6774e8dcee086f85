package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ── HTTP request metrics (RED method) ──────────────────────────────────

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stablecoin_monitor",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status_code"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stablecoin_monitor",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "stablecoin_monitor",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being processed.",
	})
)

// ── Cache refresh metrics ──────────────────────────────────────────────

var (
	RefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stablecoin_monitor",
		Subsystem: "cache",
		Name:      "refresh_total",
		Help:      "Total cache refresh attempts per key.",
	}, []string{"key", "status"})

	RefreshDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stablecoin_monitor",
		Subsystem: "cache",
		Name:      "refresh_duration_seconds",
		Help:      "Duration of producer calls per cache key in seconds.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"key"})

	RefreshLastSuccess = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "stablecoin_monitor",
		Subsystem: "cache",
		Name:      "last_success_timestamp",
		Help:      "Unix timestamp of the last successful refresh per cache key.",
	}, []string{"key"})

	StaleServedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stablecoin_monitor",
		Subsystem: "cache",
		Name:      "stale_served_total",
		Help:      "Times a stale value was served because a refresh failed.",
	}, []string{"key"})
)

// ── Alert metrics ──────────────────────────────────────────────────────

var (
	AlertsDerivedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stablecoin_monitor",
		Subsystem: "alerts",
		Name:      "derived_total",
		Help:      "Total alerts derived per rule type.",
	}, []string{"type", "severity"})

	AlertsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stablecoin_monitor",
		Subsystem: "alerts",
		Name:      "sent_total",
		Help:      "Total alerts successfully delivered to the webhook sink.",
	}, []string{"type"})

	AlertsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stablecoin_monitor",
		Subsystem: "alerts",
		Name:      "failed_total",
		Help:      "Total alert delivery failures.",
	}, []string{"type"})

	AlertsDeduplicatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stablecoin_monitor",
		Subsystem: "alerts",
		Name:      "deduplicated_total",
		Help:      "Total alerts suppressed by deduplication.",
	}, []string{"type"})
)

// ── Business metrics ───────────────────────────────────────────────────

var (
	StablecoinScore = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "stablecoin_monitor",
		Subsystem: "business",
		Name:      "stablecoin_score",
		Help:      "Latest computed trust score per stablecoin.",
	}, []string{"symbol"})

	StablecoinPrice = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "stablecoin_monitor",
		Subsystem: "business",
		Name:      "stablecoin_price_usd",
		Help:      "Latest observed USD price per stablecoin.",
	}, []string{"symbol"})

	YieldPoolCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "stablecoin_monitor",
		Subsystem: "business",
		Name:      "yield_pool_count",
		Help:      "Number of yield pools in the latest cached catalog.",
	})
)
