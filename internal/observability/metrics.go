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
	// Discovery metrics
	BountiesDiscovered prometheus.Counter
	DiscoveryErrors    prometheus.Counter
	LastDiscoveryCount prometheus.Gauge

	// Cycle metrics
	CyclesTotal   *prometheus.CounterVec
	CycleDuration prometheus.Histogram

	// Solution metrics
	SolutionsGenerated *prometheus.CounterVec
	Submissions        prometheus.Counter

	// Gateway metrics
	GatewayCallLatency *prometheus.HistogramVec
	GatewayCallErrors  *prometheus.CounterVec
	PaymentsMade       *prometheus.CounterVec

	// Health metrics
	LastSuccessfulCycle prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "bounty_agent"
	}

	return &Metrics{
		// Discovery metrics
		BountiesDiscovered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "bounties_discovered_total",
			Help:      "Total number of eligible bounties discovered",
		}),
		DiscoveryErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "errors_total",
			Help:      "Total number of bounty discovery failures",
		}),
		LastDiscoveryCount: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "last_count",
			Help:      "Number of eligible bounties in the last scan",
		}),

		// Cycle metrics
		CyclesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cycle",
			Name:      "runs_total",
			Help:      "Total number of scan cycles by outcome",
		}, []string{"status"}),
		CycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cycle",
			Name:      "duration_seconds",
			Help:      "Scan cycle duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),

		// Solution metrics
		SolutionsGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solution",
			Name:      "generated_total",
			Help:      "Total number of solutions generated by analysis type",
		}, []string{"type"}),
		Submissions: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solution",
			Name:      "submissions_total",
			Help:      "Total number of solutions submitted",
		}),

		// Gateway metrics
		GatewayCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "call_latency_seconds",
			Help:      "Data gateway call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		GatewayCallErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "call_errors_total",
			Help:      "Total number of data gateway call failures",
		}, []string{"endpoint"}),
		PaymentsMade: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "payments_total",
			Help:      "Total number of paid capability calls",
		}, []string{"capability"}),

		// Health metrics
		LastSuccessfulCycle: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_cycle_timestamp",
			Help:      "Unix timestamp of the last successful scan cycle",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordBountiesDiscovered records the eligible bounty count of a scan.
func RecordBountiesDiscovered(count int) {
	DefaultMetrics.BountiesDiscovered.Add(float64(count))
	DefaultMetrics.LastDiscoveryCount.Set(float64(count))
}

// RecordDiscoveryError increments the discovery failure counter.
func RecordDiscoveryError() {
	DefaultMetrics.DiscoveryErrors.Inc()
}

// RecordCycle records a completed scan cycle.
func RecordCycle(status string, durationSeconds float64) {
	DefaultMetrics.CyclesTotal.WithLabelValues(status).Inc()
	DefaultMetrics.CycleDuration.Observe(durationSeconds)
	if status == "success" {
		DefaultMetrics.LastSuccessfulCycle.SetToCurrentTime()
	}
}

// RecordSolutionGenerated increments the solution counter for a type.
func RecordSolutionGenerated(analysisType string) {
	DefaultMetrics.SolutionsGenerated.WithLabelValues(analysisType).Inc()
}

// RecordSubmission increments the submissions counter.
func RecordSubmission() {
	DefaultMetrics.Submissions.Inc()
}

// RecordGatewayCall records a data gateway call.
func RecordGatewayCall(endpoint string, seconds float64, err error) {
	DefaultMetrics.GatewayCallLatency.WithLabelValues(endpoint).Observe(seconds)
	if err != nil {
		DefaultMetrics.GatewayCallErrors.WithLabelValues(endpoint).Inc()
	}
}

// RecordPayment increments the paid capability counter.
func RecordPayment(capability string) {
	DefaultMetrics.PaymentsMade.WithLabelValues(capability).Inc()
}
