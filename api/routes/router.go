package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julienmercier/catalogpulse-backend/api/controllers"
	"github.com/julienmercier/catalogpulse-backend/api/middleware"
	"github.com/julienmercier/catalogpulse-backend/internal/affinity"
	"github.com/julienmercier/catalogpulse-backend/internal/backlog"
	"github.com/julienmercier/catalogpulse-backend/internal/channels"
	"github.com/julienmercier/catalogpulse-backend/internal/scan"
	"github.com/julienmercier/catalogpulse-backend/internal/scoring"
	"github.com/julienmercier/catalogpulse-backend/pkg/config"
	"github.com/julienmercier/catalogpulse-backend/pkg/db"
	"github.com/julienmercier/catalogpulse-backend/pkg/logger"
	"github.com/julienmercier/catalogpulse-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	counters middleware.CounterStore,
	scoringService scoring.Service,
	channelService channels.Service,
	backlogService backlog.Service,
	affinityService affinity.Service,
	scanService scan.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Handle("/metrics", promhttp.Handler())

	mutationLimit := middleware.RateLimit(
		middleware.NewRateLimitPolicy("mutation", cfg.API.MutationRateWindow, cfg.API.MutationRateLimit),
		counters,
		logg,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products/{productID}/score", func(r chi.Router) {
			r.With(mutationLimit).Post("/", controllers.ScoreProduct(scoringService, logg))
			r.Get("/", controllers.GetProductScore(scoringService, logg))
		})

		r.With(mutationLimit).Post("/channels/{channel}/diagnostics", controllers.RunChannelDiagnostic(channelService, logg))

		r.Get("/backlog", controllers.GetBacklog(backlogService, logg))

		r.Route("/affinities", func(r chi.Router) {
			r.Get("/", controllers.ListAffinities(affinityService, logg))
			r.With(mutationLimit).Post("/recompute", controllers.RecomputeAffinities(affinityService, logg))
		})

		r.Route("/scans", func(r chi.Router) {
			r.With(mutationLimit).Post("/", controllers.StartScan(scanService, logg))
			r.Get("/{scanID}", controllers.GetScan(scanService, logg))
		})
	})

	return r
}
