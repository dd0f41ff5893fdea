package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/julienmercier/catalogpulse-backend/internal/catalog"
	"github.com/julienmercier/catalogpulse-backend/internal/scan"
	"github.com/julienmercier/catalogpulse-backend/internal/scoring"
	"github.com/julienmercier/catalogpulse-backend/pkg/config"
	"github.com/julienmercier/catalogpulse-backend/pkg/db"
	pkgerrors "github.com/julienmercier/catalogpulse-backend/pkg/errors"
	"github.com/julienmercier/catalogpulse-backend/pkg/logger"
	"github.com/julienmercier/catalogpulse-backend/pkg/metrics"
	"github.com/julienmercier/catalogpulse-backend/pkg/migrate"
	"github.com/julienmercier/catalogpulse-backend/pkg/redis"
)

// The worker runs one scan immediately on boot, then once per configured
// interval. The redis lock keeps it from overlapping API-triggered scans.
func main() {
	logg := logger.New(logger.Options{ServiceName: "scan-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "scan-worker"

	logg = logger.New(logger.Options{
		ServiceName: "scan-worker",
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

	scanRepo := scan.NewRepository(dbClient.DB())
	scanMetrics := metrics.NewScanMetrics(prometheus.DefaultRegisterer)
	runner, err := scan.NewRunner(
		catalog.NewRepository(dbClient.DB()),
		scoring.NewRepository(dbClient.DB()),
		scanRepo, logg, cfg.Scan, scanMetrics, "schedule")
	if err != nil {
		logg.Error(context.Background(), "failed to create scan runner", err)
		os.Exit(1)
	}

	lock, err := scan.NewRedisLock(redisClient, redisClient.LockKey("catalog-scan"), cfg.Scan.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create scan lock", err)
		os.Exit(1)
	}

	service, err := scan.NewService(scanRepo, runner, lock, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create scan service", err)
		os.Exit(1)
	}

	interval := cfg.Scan.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": interval.String(),
	})
	logg.Info(ctx, "starting scan worker")

	runOnce(ctx, logg, service)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logg.Info(ctx, "scan worker shutting down gracefully")
			return
		case <-ticker.C:
			runOnce(ctx, logg, service)
		}
	}
}

func runOnce(ctx context.Context, logg *logger.Logger, service scan.Service) {
	summary, err := service.RunScan(ctx)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeConflict {
			logg.Info(ctx, "scan already in flight, skipping this tick")
			return
		}
		logg.Error(ctx, "scheduled scan failed", err)
		return
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"total":     summary.Total,
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
	}), "scheduled scan finished")
}
