// Command cron-worker runs the periodic maintenance sweep.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/angelmondragon/gigboard-backend/internal/cron"
	"github.com/angelmondragon/gigboard-backend/pkg/config"
	"github.com/angelmondragon/gigboard-backend/pkg/db"
	"github.com/angelmondragon/gigboard-backend/pkg/logger"
	"github.com/angelmondragon/gigboard-backend/pkg/metrics"
	"github.com/angelmondragon/gigboard-backend/pkg/migrate"
	"github.com/angelmondragon/gigboard-backend/pkg/outbox"
	"github.com/angelmondragon/gigboard-backend/pkg/redis"
)

const serviceName = "cron-worker"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "serviceKind": serviceName})

	if err := run(ctx, cfg, logg); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "cron worker shutting down gracefully")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	// the lock outlives one cycle so a crashed holder cannot wedge the next
	lock, err := cron.NewRedisLock(redisClient, cron.LockKey(cfg.App.Env), cfg.Cron.Interval+time.Hour)
	if err != nil {
		return err
	}

	retention, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger:      logg,
		DB:          dbClient,
		Repository:  outbox.NewRepository(dbClient.DB()),
		Retention:   cfg.Cron.OutboxRetention,
		MaxAttempts: cfg.Outbox.MaxAttempts,
	})
	if err != nil {
		return err
	}

	jobs, err := cron.NewRegistry(retention)
	if err != nil {
		return err
	}

	promRegistry := prometheus.NewRegistry()
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: jobs,
		Lock:     lock,
		Metrics:  metrics.NewCronJob(promRegistry),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		return err
	}

	metricsSrv := metrics.NewServer(cfg.Cron.MetricsPort, promRegistry, logg)
	metricsSrv.Start(ctx)
	defer func() { err = multierr.Append(err, metricsSrv.Shutdown(5*time.Second)) }()

	logg.Info(ctx, "starting cron worker")
	return service.Run(ctx)
}
