package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mobilvask",
			Name:      "submissions_total",
			Help:      "Booking submissions by outcome.",
		},
		[]string{"outcome"},
	)

	notifyFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mobilvask",
			Name:      "notify_failures_total",
			Help:      "Notification dispatch failures by bucket.",
		},
		[]string{"bucket"},
	)

	storeErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mobilvask",
			Name:      "store_errors_total",
			Help:      "Backup store append failures.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mobilvask",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(submissions, notifyFailures, storeErrors, httpRequests)
	})
}

// IncSubmission increments the submission counter for an outcome label.
func IncSubmission(outcome string) {
	submissions.WithLabelValues(outcome).Inc()
}

// IncNotifyFailure increments the dispatch failure counter for a bucket.
func IncNotifyFailure(bucket string) {
	notifyFailures.WithLabelValues(bucket).Inc()
}

// IncStoreError increments the backup store failure counter.
func IncStoreError() {
	storeErrors.Inc()
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}
