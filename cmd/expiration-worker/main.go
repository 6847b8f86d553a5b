package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jmfarina/payments-backend/internal/cron"
	"github.com/jmfarina/payments-backend/internal/intents"
	"github.com/jmfarina/payments-backend/pkg/config"
	"github.com/jmfarina/payments-backend/pkg/db"
	"github.com/jmfarina/payments-backend/pkg/logger"
	"github.com/jmfarina/payments-backend/pkg/metrics"
	"github.com/jmfarina/payments-backend/pkg/migrate"
	"github.com/jmfarina/payments-backend/pkg/redis"
)

const lockKeyFormat = "payments:expiration-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "expiration-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "expiration-worker"

	logg = logger.New(logger.Options{
		ServiceName: "expiration-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	intentsService, err := intents.NewService(intents.ServiceParams{
		Repo:              intents.NewRepository(dbClient.DB()),
		Logger:            logg,
		ExpirationTimeout: cfg.Payments.ExpirationTimeout(),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create intents service", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)

	expireJob, err := cron.NewExpireIntentsJob(cron.ExpireIntentsJobParams{
		Logger:  logg,
		Intents: intentsService,
		Metrics: metricsCollector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create expiration job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(expireJob),
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Payments.SweepInterval(),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"interval":    cfg.Payments.SweepInterval().String(),
	})
	logg.Info(ctx, "starting expiration worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "expiration worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "expiration worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
