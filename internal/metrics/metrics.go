// Package metrics holds the Prometheus collectors of the notifier.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notifier",
		Subsystem: "events",
		Name:      "classified_total",
		Help:      "Total number of inbound payloads broken down by classified kind.",
	}, []string{"kind"})

	messagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notifier",
		Subsystem: "messages",
		Name:      "sent_total",
		Help:      "Total number of gateway requests accepted, broken down by request type.",
	}, []string{"type"})

	messagesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notifier",
		Subsystem: "messages",
		Name:      "failed_total",
		Help:      "Total number of gateway requests that failed, broken down by request type and retryability.",
	}, []string{"type", "retryable"})

	leadsResampled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notifier",
		Subsystem: "leads",
		Name:      "resampled_total",
		Help:      "Total number of sampled lead rows broken down by outcome.",
	}, []string{"outcome"})

	webhookRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notifier",
		Subsystem: "webhook",
		Name:      "requests_total",
		Help:      "Total number of webhook deliveries broken down by result.",
	}, []string{"result"})
)

// Message request types.
const (
	TypeText      = "text"
	TypeImage     = "image"
	TypeScheduled = "scheduled"
)

// Lead sampling outcomes.
const (
	LeadContacted = "contacted"
	LeadFresh     = "fresh"
	LeadEmpty     = "empty"
)

// Webhook request results.
const (
	WebhookAccepted  = "accepted"
	WebhookDuplicate = "duplicate"
	WebhookPing      = "ping"
	WebhookRejected  = "rejected"
	WebhookThrottled = "throttled"
)

func RecordEventClassified(kind string) {
	eventsClassified.WithLabelValues(kind).Inc()
}

func RecordMessageSent(requestType string) {
	messagesSent.WithLabelValues(requestType).Inc()
}

func RecordMessageFailed(requestType string, retryable bool) {
	label := "false"
	if retryable {
		label = "true"
	}
	messagesFailed.WithLabelValues(requestType, label).Inc()
}

func RecordLeadSampled(outcome string) {
	leadsResampled.WithLabelValues(outcome).Inc()
}

// RecordWebhookRequest counts a webhook delivery by its Webhook* result.
func RecordWebhookRequest(result string) {
	if result == "" {
		result = "other"
	}
	webhookRequests.WithLabelValues(result).Inc()
}
