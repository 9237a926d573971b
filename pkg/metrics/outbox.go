package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outbox records relay progress of the outbox publisher.
type Outbox struct {
	published *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

func NewOutbox(reg prometheus.Registerer) *Outbox {
	if reg == nil {
		return &Outbox{}
	}
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbox_published_total",
		Help:      "Outbox events published, by event type.",
	}, []string{"event"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbox_publish_failures_total",
		Help:      "Outbox publish attempts that failed, by event type.",
	}, []string{"event"})
	reg.MustRegister(published, failed)
	return &Outbox{published: published, failed: failed}
}

func (o *Outbox) IncPublished(event string) {
	if o == nil || o.published == nil {
		return
	}
	o.published.WithLabelValues(normalizeLabel(event)).Inc()
}

func (o *Outbox) IncFailed(event string) {
	if o == nil || o.failed == nil {
		return
	}
	o.failed.WithLabelValues(normalizeLabel(event)).Inc()
}
