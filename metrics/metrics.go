// Package metrics exposes Prometheus collectors for the HTTP layer, the search
// path and the catalog refresh loop. Collectors are registered with the default
// registry at init and served by promhttp on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search outcomes recorded in search_requests_total
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeCancelled   = "cancelled"
)

// Catalog refresh outcomes recorded in catalog_refresh_total
const (
	RefreshSuccess = "success"
	RefreshFailure = "failure"
	RefreshSkipped = "skipped"
)

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Proximity searches by outcome",
		},
		[]string{"outcome"},
	)

	SearchResultsCount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_results_count",
			Help:    "Number of stores returned per successful search",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	CatalogStores = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_stores",
			Help: "Stores in the current catalog snapshot",
		},
	)

	CatalogRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_refresh_total",
			Help: "Catalog refresh attempts by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchResultsCount)
	prometheus.MustRegister(CatalogStores)
	prometheus.MustRegister(CatalogRefreshTotal)
}

// ObserveSearch records a finished search. results is ignored unless the outcome is ok.
func ObserveSearch(outcome string, results int) {
	SearchRequestsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		SearchResultsCount.Observe(float64(results))
	}
}

// ObserveRefresh records a catalog refresh attempt; stores is applied on success only.
func ObserveRefresh(outcome string, stores int) {
	CatalogRefreshTotal.WithLabelValues(outcome).Inc()
	if outcome == RefreshSuccess {
		CatalogStores.Set(float64(stores))
	}
}
