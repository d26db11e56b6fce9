package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitnessgh_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitnessgh_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	MembershipsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitnessgh_memberships_created_total",
			Help: "Total number of memberships created",
		},
		[]string{"source"},
	)

	MembershipsActivatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitnessgh_memberships_activated_total",
			Help: "Total number of membership activations",
		},
		[]string{"trigger"},
	)

	MembershipCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitnessgh_membership_cancellations_total",
			Help: "Total number of membership cancellations",
		},
	)

	VisitsRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitnessgh_visits_recorded_total",
			Help: "Total number of gym visits recorded against memberships",
		},
	)

	PaymentsInitiatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitnessgh_payments_initiated_total",
			Help: "Total number of payments initiated",
		},
		[]string{"channel"},
	)

	PaymentsCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitnessgh_payments_completed_total",
			Help: "Total number of payments completed via webhook",
		},
	)

	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitnessgh_webhook_events_total",
			Help: "Total number of webhook events received",
		},
		[]string{"event", "outcome"},
	)

	OrdersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitnessgh_orders_created_total",
			Help: "Total number of marketplace orders created",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitnessgh_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fitnessgh_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordMembershipCreated(source string) {
	MembershipsCreatedTotal.WithLabelValues(source).Inc()
}

func RecordMembershipActivated(trigger string) {
	MembershipsActivatedTotal.WithLabelValues(trigger).Inc()
}

func RecordMembershipCancellation() {
	MembershipCancellationsTotal.Inc()
}

func RecordVisit() {
	VisitsRecordedTotal.Inc()
}

func RecordPaymentInitiated(channel string) {
	PaymentsInitiatedTotal.WithLabelValues(channel).Inc()
}

func RecordPaymentCompleted() {
	PaymentsCompletedTotal.Inc()
}

func RecordWebhookEvent(event, outcome string) {
	WebhookEventsTotal.WithLabelValues(event, outcome).Inc()
}

func RecordOrderCreated() {
	OrdersCreatedTotal.Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
