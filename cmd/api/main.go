package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/julienmercier/catalogpulse-backend/api/routes"
	"github.com/julienmercier/catalogpulse-backend/internal/affinity"
	"github.com/julienmercier/catalogpulse-backend/internal/backlog"
	"github.com/julienmercier/catalogpulse-backend/internal/catalog"
	"github.com/julienmercier/catalogpulse-backend/internal/channels"
	"github.com/julienmercier/catalogpulse-backend/internal/scan"
	"github.com/julienmercier/catalogpulse-backend/internal/scoring"
	"github.com/julienmercier/catalogpulse-backend/pkg/config"
	"github.com/julienmercier/catalogpulse-backend/pkg/db"
	"github.com/julienmercier/catalogpulse-backend/pkg/logger"
	"github.com/julienmercier/catalogpulse-backend/pkg/metrics"
	"github.com/julienmercier/catalogpulse-backend/pkg/migrate"
	"github.com/julienmercier/catalogpulse-backend/pkg/redis"
)

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

	catalogRepo := catalog.NewRepository(dbClient.DB())
	scoringRepo := scoring.NewRepository(dbClient.DB())
	channelRepo := channels.NewRepository(dbClient.DB())
	affinityRepo := affinity.NewRepository(dbClient.DB())
	scanRepo := scan.NewRepository(dbClient.DB())

	scoringService, err := scoring.NewService(catalogRepo, scoringRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create scoring service", err)
		os.Exit(1)
	}

	channelService, err := channels.NewService(catalogRepo, channelRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create channel service", err)
		os.Exit(1)
	}

	backlogService, err := backlog.NewService(catalogRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create backlog service", err)
		os.Exit(1)
	}

	affinityService, err := affinity.NewService(affinityRepo, logg, cfg.Affinity.TopN)
	if err != nil {
		logg.Error(context.Background(), "failed to create affinity service", err)
		os.Exit(1)
	}

	scanMetrics := metrics.NewScanMetrics(prometheus.DefaultRegisterer)
	scanRunner, err := scan.NewRunner(catalogRepo, scoringRepo, scanRepo, logg, cfg.Scan, scanMetrics, "api")
	if err != nil {
		logg.Error(context.Background(), "failed to create scan runner", err)
		os.Exit(1)
	}

	scanLock, err := scan.NewRedisLock(redisClient, redisClient.LockKey("catalog-scan"), cfg.Scan.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create scan lock", err)
		os.Exit(1)
	}

	scanService, err := scan.NewService(scanRepo, scanRunner, scanLock, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create scan service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, redisClient,
			scoringService, channelService, backlogService, affinityService, scanService),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		graceCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(graceCtx); err != nil {
			logg.Error(ctx, "error during server shutdown", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "api server shut down gracefully")
}
