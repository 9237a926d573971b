package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gigboard"

// Marketplace records bid lifecycle and payment webhook activity.
type Marketplace struct {
	transitions     *prometheus.CounterVec
	webhookEvents   *prometheus.CounterVec
	webhookDuration *prometheus.HistogramVec
}

// NewMarketplace registers the marketplace metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewMarketplace(reg prometheus.Registerer) *Marketplace {
	if reg == nil {
		return &Marketplace{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bid_transitions_total",
		Help:      "Bid status transitions committed, by resulting status.",
	}, []string{"status"})
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_events_total",
		Help:      "Payment webhook deliveries, by event type and outcome.",
	}, []string{"event", "result"})
	webhookDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "webhook_duration_seconds",
		Help:      "Time spent reconciling payment webhooks.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"event"})
	reg.MustRegister(transitions, webhookEvents, webhookDuration)
	return &Marketplace{
		transitions:     transitions,
		webhookEvents:   webhookEvents,
		webhookDuration: webhookDuration,
	}
}

// IncBidTransition counts a committed transition into status.
func (m *Marketplace) IncBidTransition(status string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncWebhook counts a webhook delivery outcome.
func (m *Marketplace) IncWebhook(event, result string) {
	if m == nil || m.webhookEvents == nil {
		return
	}
	m.webhookEvents.WithLabelValues(normalizeLabel(event), normalizeLabel(result)).Inc()
}

// ObserveWebhook records reconciliation latency.
func (m *Marketplace) ObserveWebhook(event string, duration time.Duration) {
	if m == nil || m.webhookDuration == nil {
		return
	}
	m.webhookDuration.WithLabelValues(normalizeLabel(event)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
