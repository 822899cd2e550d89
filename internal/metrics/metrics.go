package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "directory_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "directory_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "directory_operations_total",
		Help: "Count of directory operations by operation and result",
	}, []string{"operation", "result"})

	usersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "directory_users",
		Help: "Number of users in the directory",
	})

	groupsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "directory_groups",
		Help: "Number of groups in the directory",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveOperation counts a directory operation with its result label.
func ObserveOperation(operation, result string) {
	operationsTotal.WithLabelValues(operation, result).Inc()
}

// SetDirectorySize sets the user and group gauges.
func SetDirectorySize(users, groups int) {
	usersGauge.Set(float64(users))
	groupsGauge.Set(float64(groups))
}
