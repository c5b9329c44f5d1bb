// Package http wires handlers and middleware into the service's HTTP surface.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/zkybank/zkybank/internal/adapter/http/handler"
	"github.com/zkybank/zkybank/internal/adapter/http/middleware"
	"github.com/zkybank/zkybank/internal/infrastructure/metrics"
	"github.com/zkybank/zkybank/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	TransferHandler    *handler.TransferHandler
	EntryHandler       *handler.EntryHandler
	HealthHandler      *handler.HealthHandler

	Logger  zerolog.Logger
	Metrics *metrics.Metrics

	// Optional; idempotency keys are disabled when nil.
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewRecoveryMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)

	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/{number}/balance", cfg.AccountHandler.GetBalance)
			r.Post("/{number}/deposit", cfg.TransactionHandler.Deposit)
			r.Post("/{number}/withdraw", cfg.TransactionHandler.Withdraw)
			r.Get("/{number}/transactions", cfg.EntryHandler.ListByAccount)
		})

		r.Post("/transfers", cfg.TransferHandler.Create)
	})

	return r
}
