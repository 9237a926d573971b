package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// CronJob records sweeper job runs by job name and outcome.
type CronJob struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewCronJob(reg prometheus.Registerer) *CronJob {
	if reg == nil {
		return &CronJob{}
	}
	c := &CronJob{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cron",
			Name:      "job_runs_total",
			Help:      "Sweeper job runs, by job and outcome.",
		}, []string{"job", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cron",
			Name:      "job_duration_seconds",
			Help:      "Wall time of sweeper jobs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"job"}),
	}
	reg.MustRegister(c.runs, c.duration)
	return c
}

func (c *CronJob) ObserveDuration(job string, d time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(job)).Observe(d.Seconds())
}

func (c *CronJob) IncSuccess(job string) { c.count(job, outcomeSuccess) }

func (c *CronJob) IncFailure(job string) { c.count(job, outcomeFailure) }

func (c *CronJob) count(job, outcome string) {
	if c == nil || c.runs == nil {
		return
	}
	c.runs.WithLabelValues(normalizeLabel(job), outcome).Inc()
}
