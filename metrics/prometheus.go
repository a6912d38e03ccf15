package metrics

import "github.com/prometheus/client_golang/prometheus"

var HttpRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests received",
	},
	[]string{"endpoint", "status", "method"},
)

var HttpRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"endpoint", "method"},
)

var HttpErrorsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_errors_total",
		Help: "Total number of failed HTTP requests (4xx/5xx)",
	},
	[]string{"endpoint", "status", "method"},
)

var HttpRateLimitRejectionsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "http_rate_limit_rejections_total",
		Help: "Total number of HTTP requests rejected due to rate limiting",
	},
)

var EventsConsumedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "events_consumed_total",
		Help: "Total number of hiring events consumed, by outcome",
	},
	[]string{"event_type", "outcome"},
)

var NotificationsDispatchedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_dispatched_total",
		Help: "Total number of dispatch cycles completed, by final status",
	},
	[]string{"status"},
)

var NotificationsAttemptedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_attempted_total",
		Help: "Total number of per-channel delivery attempts",
	},
	[]string{"channel", "status"},
)

var NotificationSendDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "notification_send_duration_seconds",
		Help:    "Time taken by a single channel send",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"channel"},
)

var DispatchDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "notification_dispatch_duration_seconds",
		Help:    "Time taken by a full dispatch cycle across all channels",
		Buckets: prometheus.DefBuckets,
	},
)

var NotificationRetriesTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "notification_retries_total",
		Help: "Total number of notification retries scheduled",
	},
)

var RetryScheduleFailuresTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "retry_schedule_failures_total",
		Help: "Total number of retry publishes that failed; these notifications stay pending",
	},
)

var KafkaPublisherSuccess = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_publish_success_total",
		Help: "Total number of successful Kafka publishes",
	},
	[]string{"topic"},
)

var KafkaPublisherFailure = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_publish_failure_total",
		Help: "Total number of failed Kafka publishes",
	},
	[]string{"topic"},
)

var KafkaSubscriberFailureTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_subscribe_failure_total",
		Help: "Total number of failed Kafka reads",
	},
	[]string{"topic"},
)

var KafkaConsumerLag = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "kafka_consumer_lag",
		Help: "Current consumer group lag per topic",
	},
	[]string{"group", "topic"},
)

// InitAPIMetrics registers the collectors used by the operator API.
func InitAPIMetrics() {
	prometheus.MustRegister(
		HttpRequestsTotal,
		HttpRequestDuration,
		HttpErrorsTotal,
		HttpRateLimitRejectionsTotal,
		KafkaPublisherSuccess,
		KafkaPublisherFailure,
	)
}

// InitWorkerMetrics registers the collectors used by the pipeline and retry
// workers.
func InitWorkerMetrics() {
	prometheus.MustRegister(
		HttpRequestsTotal,
		HttpRequestDuration,
		HttpErrorsTotal,
		EventsConsumedTotal,
		NotificationsDispatchedTotal,
		NotificationsAttemptedTotal,
		NotificationSendDuration,
		DispatchDuration,
		NotificationRetriesTotal,
		RetryScheduleFailuresTotal,
		KafkaPublisherSuccess,
		KafkaPublisherFailure,
		KafkaSubscriberFailureTotal,
		KafkaConsumerLag,
	)
}
