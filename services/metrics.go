package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes used as the "outcome" label.
const (
	OutcomeRelayed       = "relayed"
	OutcomeConfigError   = "config_error"
	OutcomeForwardFailed = "forward_failed"
	OutcomeSaved         = "saved"
	OutcomeRejected      = "rejected"
	OutcomeStorageFailed = "storage_failed"
)

// ProxyMetrics holds the Prometheus metrics for submissions and reviews.
type ProxyMetrics struct {
	submissions     *prometheus.CounterVec
	upstreamStatus  *prometheus.CounterVec
	upstreamLatency prometheus.Histogram
	reviews         *prometheus.CounterVec
}

// NewProxyMetrics registers the metrics on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func NewProxyMetrics(reg prometheus.Registerer) *ProxyMetrics {
	factory := promauto.With(reg)
	return &ProxyMetrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "techhelp_submissions_total",
			Help: "Form submissions handled, by outcome and encoding",
		}, []string{"outcome", "encoding"}),
		upstreamStatus: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "techhelp_upstream_responses_total",
			Help: "Responses received from the submissions API, by status code",
		}, []string{"code"}),
		upstreamLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "techhelp_upstream_request_duration_seconds",
			Help:    "Time taken by the submissions API to answer",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		reviews: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "techhelp_reviews_total",
			Help: "Review submissions handled, by outcome",
		}, []string{"outcome"}),
	}
}
