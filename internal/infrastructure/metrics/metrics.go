// Package metrics exposes Prometheus counters for the notification pipeline.
// The API server serves them on /metrics; the notifier serves them on a
// dedicated port.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_events_received_total",
		Help: "Total inbound event envelopes received, by source.",
	}, []string{"source"})

	EventsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_events_rejected_total",
		Help: "Total inbound envelopes that failed validation.",
	}, []string{"reason"})

	Stored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_stored_total",
		Help: "Total notifications durably written, by tenant.",
	}, []string{"tenant"})

	StoreFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_store_failed_total",
		Help: "Total failed durable writes, by tenant.",
	}, []string{"tenant"})

	Published = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_realtime_published_total",
		Help: "Total notifications delivered to a realtime topic, by tenant.",
	}, []string{"tenant"})

	PublishFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_realtime_failed_total",
		Help: "Total realtime publishes abandoned after retries, by tenant and error type.",
	}, []string{"tenant", "error"})

	Escalated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_escalations_total",
		Help: "Total system-error escalations attempted, by tenant.",
	}, []string{"tenant"})

	DeadLettered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_dead_lettered_total",
		Help: "Total envelopes archived to the dead-letter bucket.",
	}, []string{"reason"})
)
