// Package cron runs the periodic maintenance sweeps of the marketplace.
package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/gigboard-backend/pkg/logger"
)

const defaultInterval = 24 * time.Hour

type jobMetrics interface {
	ObserveDuration(job string, d time.Duration)
	IncSuccess(job string)
	IncFailure(job string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveDuration(string, time.Duration) {}
func (nopMetrics) IncSuccess(string)                     {}
func (nopMetrics) IncFailure(string)                     {}

type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  jobMetrics
	Interval time.Duration
}

// Service sweeps once at start and then every interval. A cycle only runs
// while this replica holds the lock.
type Service struct {
	logg     *logger.Logger
	jobs     []Job
	lock     Lock
	metrics  jobMetrics
	interval time.Duration
}

// cycleReport summarises one sweep.
type cycleReport struct {
	Skipped bool
	Failed  []string
	Ran     int
}

func NewService(params ServiceParams) (*Service, error) {
	switch {
	case params.Logger == nil:
		return nil, errors.New("logger required")
	case params.Lock == nil:
		return nil, errors.New("lock required")
	}

	svc := &Service{
		logg:     params.Logger,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: params.Interval,
	}
	if params.Registry != nil {
		svc.jobs = params.Registry.Jobs()
	}
	if svc.metrics == nil {
		svc.metrics = nopMetrics{}
	}
	if svc.interval <= 0 {
		svc.interval = defaultInterval
	}
	return svc, nil
}

// Run blocks until ctx is canceled. Cycle errors are logged, never returned.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.sweep(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	report, err := s.runCycle(ctx)
	switch {
	case err != nil:
		s.logg.Error(ctx, "cron.cycle.failed", err)
	case report.Skipped:
		s.logg.Info(ctx, "cron.cycle.skipped_locked")
	default:
		cycleCtx := s.logg.WithFields(ctx, map[string]any{"jobs": report.Ran, "failed": report.Failed})
		s.logg.Info(cycleCtx, "cron.cycle.completed")
	}
}

func (s *Service) runCycle(ctx context.Context) (report cycleReport, err error) {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return report, fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		report.Skipped = true
		return report, nil
	}
	defer func() {
		if relErr := s.lock.Release(ctx); relErr != nil {
			s.logg.Error(ctx, "cron.lock.release_failed", relErr)
		}
	}()

	for _, job := range s.jobs {
		report.Ran++
		if !s.runJob(ctx, job) {
			report.Failed = append(report.Failed, job.Name())
		}
	}
	return report, nil
}

// runJob reports whether job succeeded. Failures never stop the cycle.
func (s *Service) runJob(ctx context.Context, job Job) bool {
	name := job.Name()
	jobCtx := s.logg.WithField(ctx, "job", name)

	start := time.Now()
	err := job.Run(jobCtx)
	elapsed := time.Since(start)
	s.metrics.ObserveDuration(name, elapsed)

	jobCtx = s.logg.WithField(jobCtx, "duration_ms", elapsed.Milliseconds())
	if err != nil {
		s.metrics.IncFailure(name)
		s.logg.Error(jobCtx, "cron.job.failed", err)
		return false
	}
	s.metrics.IncSuccess(name)
	s.logg.Info(jobCtx, "cron.job.completed")
	return true
}
