package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency in milliseconds.
	HTTPRequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_latency_ms",
			Help:    "HTTP request latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10), // 5ms to ~2.5s
		},
		[]string{"method", "path", "status"},
	)

	// Habit cache refreshes performed by the daily summary aggregator.
	HabitSyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_sync_total",
			Help: "Completion cache refreshes by habit type and result",
		},
		[]string{"habit_type", "done"},
	)

	// MQ message consumption latency in milliseconds.
	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"routing_key", "queue"},
	)
)

// ObserveHTTPRequest records one handled HTTP request.
func ObserveHTTPRequest(method, path, status string, start time.Time) {
	HTTPRequestLatency.WithLabelValues(method, path, status).
		Observe(float64(time.Since(start).Milliseconds()))
}

// ObserveMQConsume records one consumed MQ message.
func ObserveMQConsume(routingKey, queue string, start time.Time) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).
		Observe(float64(time.Since(start).Milliseconds()))
}
