// Package metrics registers the prometheus collectors of the service
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ProblemsGenerated counts generated problems by operation
	ProblemsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "abacus_problems_generated_total",
		Help: "Total problems generated by operation",
	}, []string{"operation"})

	// AnswersJudged counts submitted answers by result (correct, wrong, ignored)
	AnswersJudged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "abacus_answers_total",
		Help: "Total submitted answers by result",
	}, []string{"result"})

	// PersistenceFailures counts swallowed storage errors by key
	PersistenceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "abacus_persistence_failures_total",
		Help: "Total storage writes that failed and were dropped",
	}, []string{"key"})

	// RequestDuration tracks HTTP latency by route pattern and status
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "abacus_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
	}, []string{"route", "status"})
)

// ObserveRequest records one served request
func ObserveRequest(route string, status int, elapsed time.Duration) {
	RequestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
