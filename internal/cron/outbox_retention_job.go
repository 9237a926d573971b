package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/gigboard-backend/pkg/logger"
)

const defaultOutboxRetention = 30 * 24 * time.Hour

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPruner interface {
	DeletePublishedBefore(tx *gorm.DB, cutoff time.Time) (int64, error)
	DeleteDeadBefore(tx *gorm.DB, cutoff time.Time, maxAttempts int) (int64, error)
}

type OutboxRetentionJobParams struct {
	Logger      *logger.Logger
	DB          txRunner
	Repository  outboxPruner
	Retention   time.Duration
	MaxAttempts int
}

// outboxRetentionJob prunes outbox rows past retention: relayed rows, and
// rows the publisher stopped retrying. Unrelayed live rows are never touched.
type outboxRetentionJob struct {
	logg        *logger.Logger
	db          txRunner
	repo        outboxPruner
	retention   time.Duration
	maxAttempts int
	now         func() time.Time
}

func NewOutboxRetentionJob(params OutboxRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	if params.MaxAttempts <= 0 {
		return nil, fmt.Errorf("max attempts must be positive")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultOutboxRetention
	}
	return &outboxRetentionJob{
		logg:        params.Logger,
		db:          params.DB,
		repo:        params.Repository,
		retention:   retention,
		maxAttempts: params.MaxAttempts,
		now:         time.Now,
	}, nil
}

func (j *outboxRetentionJob) Name() string { return "outbox-retention" }

// Run attempts both prunes even when one fails.
func (j *outboxRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)

	var published, dead int64
	var errs error
	if err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := j.repo.DeletePublishedBefore(tx, cutoff)
		published = n
		return err
	}); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("prune published: %w", err))
	}
	if err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := j.repo.DeleteDeadBefore(tx, cutoff, j.maxAttempts)
		dead = n
		return err
	}); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("prune dead: %w", err))
	}

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":          cutoff,
		"publishedPruned": published,
		"deadPruned":      dead,
	}), "outbox.retention.swept")
	return errs
}
