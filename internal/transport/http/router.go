package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/readysetcloud/newsletter-service-sub010/internal/application/feed"
	"github.com/readysetcloud/newsletter-service-sub010/internal/application/pipeline"
	"github.com/readysetcloud/newsletter-service-sub010/internal/application/token"
	"github.com/readysetcloud/newsletter-service-sub010/internal/config"
	"github.com/readysetcloud/newsletter-service-sub010/internal/pkg/retry"
	"github.com/readysetcloud/newsletter-service-sub010/internal/transport/http/handler"
	appmiddleware "github.com/readysetcloud/newsletter-service-sub010/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 10 requests/second with a burst of 20, applied to the ingest endpoint.
	ingestRL := appmiddleware.NewRateLimiter(rate.Limit(10), 20)

	pipelineSvc := pipeline.NewService(pipeline.ServiceDeps{
		Store:       deps.NotificationRepo,
		Credentials: deps.Vendor,
		Publisher:   deps.Publisher,
		Archive:     deps.Archive,
		Alerts:      deps.Alerts,

		Mode:            pipeline.Mode(cfg.PipelineMode),
		NotificationTTL: cfg.NotificationTTL,
		PublishTimeout:  cfg.PublishTimeout,
		Retry: retry.Policy{
			MaxAttempts: cfg.RetryMaxAttempts,
			BaseDelay:   cfg.RetryBaseDelay,
			MaxDelay:    8 * time.Second,
			Jitter:      cfg.RetryJitter,
		},
	})
	feedSvc := feed.NewService(deps.NotificationRepo)
	tokenSvc := token.NewService(deps.Vendor)

	healthH := handler.NewHealthHandler()
	eventH := handler.NewEventHandler(pipelineSvc)
	notifH := handler.NewNotificationHandler(feedSvc)
	tokenH := handler.NewTokenHandler(tokenSvc)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		// Public routes (no auth)
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.With(ingestRL.Limit).Post("/events", eventH.Ingest)

			r.Get("/notifications", notifH.List)
			r.Get("/notifications/feed", notifH.TenantFeed)
			r.Put("/notifications/{id}/read", notifH.MarkAsRead)

			r.Post("/tokens/realtime", tokenH.RealtimeToken)
		})
	})

	return r
}
