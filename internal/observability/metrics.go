// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Correlation metrics
	CorrelationRuns   *prometheus.CounterVec // by match policy
	CorrelatedWallets prometheus.Counter
	CohortsFetched    prometheus.Counter

	// Provider metrics
	ProviderRequests       *prometheus.CounterVec // by outcome
	ProviderRequestLatency prometheus.Histogram
	RateLimitWait          prometheus.Histogram

	// Tracking metrics
	WSReconnects         prometheus.Counter
	ActivityRowsArchived prometheus.Counter

	// Persistence metrics
	ListWalletsAppended prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "solana_wallet_lab"
	}

	return &Metrics{
		CorrelationRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "correlation_runs_total",
			Help:      "Completed correlation runs by match policy.",
		}, []string{"policy"}),
		CorrelatedWallets: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "correlated_wallets_total",
			Help:      "Wallets emitted by correlation runs.",
		}),
		CohortsFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cohorts_fetched_total",
			Help:      "Buyer cohorts retrieved from the provider.",
		}),
		ProviderRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Provider API requests by outcome.",
		}, []string{"outcome"}),
		ProviderRequestLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Provider API request latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		RateLimitWait: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rate_limit_wait_seconds",
			Help:      "Time spent waiting on the provider rate limiter.",
			Buckets:   prometheus.DefBuckets,
		}),
		WSReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_reconnects_total",
			Help:      "WebSocket reconnection attempts.",
		}),
		ActivityRowsArchived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_rows_archived_total",
			Help:      "Wallet activity rows written to the archive.",
		}),
		ListWalletsAppended: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "list_wallets_appended_total",
			Help:      "Wallets newly appended to persisted lists.",
		}),
	}
}

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
