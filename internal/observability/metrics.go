package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrationsTotal counts successful account registrations.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devconnector_registrations_total",
		Help: "Total number of registered accounts",
	})

	// LoginsTotal counts login attempts by result.
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_logins_total",
		Help: "Total number of login attempts by result",
	}, []string{"result"})

	// StoreQueryLatency records store latency by driver, operation and collection.
	StoreQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devconnector_store_query_latency_seconds",
		Help:    "Store query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"driver", "operation", "collection"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// GitHubRequestsTotal counts upstream GitHub lookups by outcome.
	GitHubRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_github_requests_total",
		Help: "Total number of GitHub repository lookups by outcome",
	}, []string{"outcome"})
)

// StoreMetrics records query latency for one storage driver.
type StoreMetrics struct {
	driver string
}

// NewStoreMetrics returns StoreMetrics labelled with driver.
func NewStoreMetrics(driver string) *StoreMetrics {
	return &StoreMetrics{driver: driver}
}

// TrackQuery returns a function that records latency when called (e.g. defer).
func (m *StoreMetrics) TrackQuery(operation, collection string) func() {
	start := time.Now()
	return func() {
		StoreQueryLatency.WithLabelValues(m.driver, operation, collection).Observe(time.Since(start).Seconds())
	}
}
