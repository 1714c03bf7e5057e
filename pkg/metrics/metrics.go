package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_login_attempts_total",
			Help: "Login attempts by result",
		},
		[]string{"result"}, // success, failure
	)

	StoreMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_progress_mutations_total",
			Help: "Progress store mutations by operation and outcome",
		},
		[]string{"operation", "outcome"}, // outcome: applied, not_found, invalid
	)

	NotificationSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_notification_submissions_total",
			Help: "Outbound notification submissions by kind and status",
		},
		[]string{"kind", "status"}, // status: sent, queued, failed, duplicate
	)

	// EmailJS call latency (milliseconds)
	EmailCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_email_call_latency_ms",
			Help:    "Templated email provider call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(25, 2, 10), // 25ms to ~12s
		},
		[]string{"template", "status"},
	)

	// DB statement latency (seconds)
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_db_query_duration_seconds",
			Help:    "Database statement duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"command"},
	)

	// MQ consume latency (milliseconds)
	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"routing_key", "queue"},
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func IncrementLoginAttempt(result string) {
	LoginAttempts.WithLabelValues(result).Inc()
}

func IncrementStoreMutation(operation, outcome string) {
	StoreMutations.WithLabelValues(operation, outcome).Inc()
}

func IncrementNotification(kind, status string) {
	NotificationSubmissions.WithLabelValues(kind, status).Inc()
}

func RecordEmailCallLatency(template, status string, duration time.Duration) {
	EmailCallLatency.WithLabelValues(template, status).Observe(float64(duration.Milliseconds()))
}

func RecordDBQueryDuration(command string, duration time.Duration) {
	if command == "" {
		command = "unknown"
	}
	DBQueryDuration.WithLabelValues(command).Observe(duration.Seconds())
}

func RecordMQConsumeLatency(routingKey, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).Observe(float64(duration.Milliseconds()))
}

// Middleware records request latency labelled by the matched route template,
// so path parameters do not explode label cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		RecordHTTPRequestDuration(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// Handler exposes the default registry for /metrics.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
