package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/gigboard-backend/pkg/config"
	"github.com/angelmondragon/gigboard-backend/pkg/db/models"
	"github.com/angelmondragon/gigboard-backend/pkg/logger"
	"github.com/angelmondragon/gigboard-backend/pkg/outbox/registry"
)

const (
	defaultBatchSize   = 50
	defaultPoll        = 500 * time.Millisecond
	defaultMaxAttempts = 10
	publishTimeout     = 15 * time.Second
	maxBackoff         = 10 * time.Second
	maxJitter          = 250 * time.Millisecond
)

type dbClient interface {
	Ping(context.Context) error
	WithTx(context.Context, func(tx *gorm.DB) error) error
}

type pubSubClient interface {
	Ping(context.Context) error
	Publisher(name string) *gcppubsub.Publisher
}

type outboxRepository interface {
	FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublishedTx(tx *gorm.DB, id uuid.UUID) error
	MarkFailedTx(tx *gorm.DB, id uuid.UUID, err error) error
	MarkTerminalTx(tx *gorm.DB, id uuid.UUID, err error, terminalAttempts int) error
}

type registryResolver interface {
	Resolve(models.OutboxEvent) (*registry.ResolvedEvent, error)
}

type publishMetrics interface {
	IncPublished(event string)
	IncFailed(event string)
}

type ServiceParams struct {
	Config           *config.Config
	Logger           *logger.Logger
	DB               dbClient
	PubSub           pubSubClient
	Repository       outboxRepository
	Registry         registryResolver
	PublisherFactory publisherFactory
	Metrics          publishMetrics
}

// Service relays committed outbox rows to Pub/Sub. Each batch runs in one
// transaction so a row is marked in the same commit that claimed it.
type Service struct {
	logg             *logger.Logger
	db               dbClient
	pubsub           pubSubClient
	repo             outboxRepository
	registry         registryResolver
	metrics          publishMetrics
	publisherFactory publisherFactory

	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
}

func NewService(p ServiceParams) (*Service, error) {
	switch {
	case p.Config == nil:
		return nil, errors.New("config is required")
	case p.Logger == nil:
		return nil, errors.New("logger is required")
	case p.DB == nil:
		return nil, errors.New("database client is required")
	case p.PubSub == nil:
		return nil, errors.New("pubsub client is required")
	case p.Repository == nil:
		return nil, errors.New("outbox repository is required")
	case p.Registry == nil:
		return nil, errors.New("event registry is required")
	}

	s := &Service{
		logg:             p.Logger,
		db:               p.DB,
		pubsub:           p.PubSub,
		repo:             p.Repository,
		registry:         p.Registry,
		metrics:          p.Metrics,
		publisherFactory: p.PublisherFactory,
		batchSize:        orDefault(p.Config.Outbox.BatchSize, defaultBatchSize),
		maxAttempts:      orDefault(p.Config.Outbox.MaxAttempts, defaultMaxAttempts),
		pollInterval:     defaultPoll,
	}
	if ms := p.Config.Outbox.PollIntervalMS; ms > 0 {
		s.pollInterval = time.Duration(ms) * time.Millisecond
	}
	if s.publisherFactory == nil {
		s.publisherFactory = clientPublishers(p.PubSub)
	}
	return s, nil
}

func orDefault(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

// Run polls until ctx is cancelled. A full batch is followed immediately by
// the next one; an empty batch waits one poll interval; a failed batch backs
// off exponentially.
func (s *Service) Run(ctx context.Context) error {
	deps := []struct {
		name string
		ping func(context.Context) error
	}{{"database", s.db.Ping}, {"pubsub", s.pubsub.Ping}}
	for _, dep := range deps {
		if err := dep.ping(ctx); err != nil {
			s.logg.Error(ctx, dep.name+" ping failed", err)
			return fmt.Errorf("%s ping failed: %w", dep.name, err)
		}
	}

	delay := s.pollInterval
	for {
		if err := ctx.Err(); err != nil {
			s.logg.Info(ctx, "outbox publisher context canceled")
			return err
		}

		processed, err := s.processBatch(ctx)
		switch {
		case err != nil:
			s.logg.Error(ctx, "outbox publisher batch error", err)
			delay = nextBackoff(delay, s.pollInterval, maxBackoff)
		case processed:
			delay = s.pollInterval
			continue
		default:
			delay = s.pollInterval
		}
		if err := sleep(ctx, delay+rand.N(maxJitter)); err != nil {
			return err
		}
	}
}

// processBatch reports whether any row was claimed.
func (s *Service) processBatch(ctx context.Context) (bool, error) {
	var claimed int
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		events, err := s.repo.FetchUnpublishedForPublish(tx, s.batchSize, s.maxAttempts)
		if err != nil {
			return err
		}
		claimed = len(events)
		for _, event := range events {
			if err := s.relay(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
	return claimed > 0, err
}

// relay publishes one row and records the outcome. Only bookkeeping failures
// are returned; a publish failure is recorded on the row instead.
func (s *Service) relay(ctx context.Context, tx *gorm.DB, event models.OutboxEvent) error {
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"outbox_id":      event.ID.String(),
		"event_type":     event.EventType,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID.String(),
		"attempt_count":  event.AttemptCount,
	})

	resolved, err := s.registry.Resolve(event)
	if err != nil {
		return s.park(logCtx, tx, event, "non_retryable", err)
	}
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"event_id": resolved.Envelope.EventID,
		"topic":    resolved.Descriptor.Topic,
	})

	err = s.publish(ctx, event, resolved)
	var nonRetryable registry.NonRetryableError
	switch {
	case err == nil:
		if err := s.repo.MarkPublishedTx(tx, event.ID); err != nil {
			return fmt.Errorf("mark published %s: %w", event.ID, err)
		}
		s.count(event, true)
		s.logg.Info(logCtx, "outbox event published")
		return nil
	case errors.As(err, &nonRetryable):
		return s.park(logCtx, tx, event, "non_retryable", err)
	}

	s.count(event, false)
	if event.AttemptCount+1 >= s.maxAttempts {
		return s.park(logCtx, tx, event, "max_attempts", fmt.Errorf("max publish attempts reached: %w", err))
	}
	s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "outbox publish failed")
	if err := s.repo.MarkFailedTx(tx, event.ID, err); err != nil {
		return fmt.Errorf("mark failure %s: %w", event.ID, err)
	}
	return nil
}

// park stops retries for the row; attempt_count is pinned at the ceiling so
// the fetch query skips it from now on.
func (s *Service) park(ctx context.Context, tx *gorm.DB, event models.OutboxEvent, reason string, cause error) error {
	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
		"error_reason": reason,
		"error":        cause.Error(),
	}), "outbox event will not be retried")
	if err := s.repo.MarkTerminalTx(tx, event.ID, cause, s.maxAttempts); err != nil {
		return fmt.Errorf("mark terminal %s: %w", event.ID, err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event models.OutboxEvent, resolved *registry.ResolvedEvent) error {
	topic := resolved.Descriptor.Topic
	pub := s.publisherFactory(topic)
	if pub == nil {
		return registry.NewNonRetryableError(fmt.Errorf("publisher not configured for topic %s", topic))
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	result := pub.Publish(ctx, &gcppubsub.Message{
		Data:       event.Payload,
		Attributes: messageAttributes(event, resolved.Envelope.EventID),
	})
	if result == nil {
		return registry.NewNonRetryableError(fmt.Errorf("publisher returned nil for topic %s", topic))
	}
	_, err := result.Get(ctx)
	return err
}

func messageAttributes(event models.OutboxEvent, eventID string) map[string]string {
	return map[string]string{
		"event_id":       eventID,
		"event_type":     string(event.EventType),
		"aggregate_type": string(event.AggregateType),
		"aggregate_id":   event.AggregateID.String(),
		"created_at":     event.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (s *Service) count(event models.OutboxEvent, published bool) {
	if s.metrics == nil {
		return
	}
	if published {
		s.metrics.IncPublished(string(event.EventType))
	} else {
		s.metrics.IncFailed(string(event.EventType))
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// nextBackoff doubles current (or base when unset) up to ceiling.
func nextBackoff(current, base, ceiling time.Duration) time.Duration {
	if current <= 0 {
		current = base
	}
	return min(current*2, ceiling)
}
