package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/gigboard-backend/api/controllers"
	"github.com/angelmondragon/gigboard-backend/api/routes"
	"github.com/angelmondragon/gigboard-backend/internal/bids"
	"github.com/angelmondragon/gigboard-backend/internal/charges"
	"github.com/angelmondragon/gigboard-backend/internal/claims"
	"github.com/angelmondragon/gigboard-backend/internal/gigs"
	"github.com/angelmondragon/gigboard-backend/internal/ledger"
	"github.com/angelmondragon/gigboard-backend/internal/webhooks/paystack"
	pkgAuth "github.com/angelmondragon/gigboard-backend/pkg/auth"
	"github.com/angelmondragon/gigboard-backend/pkg/config"
	"github.com/angelmondragon/gigboard-backend/pkg/db"
	"github.com/angelmondragon/gigboard-backend/pkg/instance"
	"github.com/angelmondragon/gigboard-backend/pkg/logger"
	"github.com/angelmondragon/gigboard-backend/pkg/metrics"
	"github.com/angelmondragon/gigboard-backend/pkg/migrate"
	"github.com/angelmondragon/gigboard-backend/pkg/outbox"
	"github.com/angelmondragon/gigboard-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	bootCtx := context.Background()

	dbClient, err := db.New(bootCtx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(bootCtx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(bootCtx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	authenticator, err := pkgAuth.NewAuthenticator(cfg.Auth)
	if err != nil {
		return err
	}
	if cfg.Paystack.Secret == "" {
		logg.Warn(bootCtx, "paystack secret not configured; every webhook will be rejected")
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	marketplace := metrics.NewMarketplace(promRegistry)

	conn := dbClient.DB()
	emitter := outbox.NewService(outbox.NewRepository(conn), logg)
	gigRepo := gigs.NewRepository(conn)

	gigService, err := gigs.NewService(gigRepo)
	if err != nil {
		return err
	}
	ledgerService, err := ledger.NewService(ledger.NewRepository(conn))
	if err != nil {
		return err
	}
	chargeService, err := charges.NewService(charges.NewRepository(conn))
	if err != nil {
		return err
	}
	bidService, err := bids.NewService(bids.ServiceParams{
		Config:  cfg.Bids,
		Logger:  logg,
		DB:      dbClient,
		Repo:    bids.NewRepository(conn),
		Gigs:    gigRepo,
		Ledger:  ledgerService,
		Charges: chargeService,
		Outbox:  emitter,
		Metrics: marketplace,
	})
	if err != nil {
		return err
	}
	claimService, err := claims.NewService(dbClient, gigRepo, ledgerService, chargeService, emitter, logg)
	if err != nil {
		return err
	}
	guard, err := paystack.NewIdempotencyGuard(redisClient, cfg.Webhooks.IdempotencyTTL)
	if err != nil {
		return err
	}
	reconciler, err := paystack.NewReconciler(paystack.ReconcilerParams{
		DB:      dbClient,
		Ledger:  ledgerService,
		Charges: chargeService,
		Outbox:  emitter,
		Guard:   guard,
		Metrics: marketplace,
		Logger:  logg,
	})
	if err != nil {
		return err
	}

	addr := ":" + cfg.App.Port
	ctx := logg.WithFields(bootCtx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.ID("local"),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:        cfg,
			Logger:        logg,
			Authenticator: authenticator,
			Idempotency:   redisClient,
			Readiness:     map[string]controllers.Pinger{"db": dbClient, "redis": redisClient},
			Metrics:       promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
			Gigs:          gigService,
			Bids:          bidService,
			Claims:        claimService,
			Paystack:      paystack.NewAuthenticator(cfg.Paystack.Secret),
			Reconciler:    reconciler,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sigCtx.Done():
	}

	logg.Info(ctx, "api server shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
