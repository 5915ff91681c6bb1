package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/gobooks/internal/adapter/http/handler"
	"github.com/iho/gobooks/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ChartHandler       *handler.ChartHandler
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	ReportHandler      *handler.ReportHandler
	HealthHandler      *handler.HealthHandler

	Logging     *middleware.LoggingMiddleware
	Metrics     *middleware.MetricsMiddleware
	RateLimiter *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Wrap)
	}
	r.Use(middleware.Recovery)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}

		r.Route("/charts", func(r chi.Router) {
			r.Post("/", cfg.ChartHandler.Create)
			r.Get("/", cfg.ChartHandler.List)

			r.Route("/{chartID}", func(r chi.Router) {
				r.Get("/", cfg.ChartHandler.Get)
				r.Delete("/retained-earnings", cfg.ChartHandler.UnsetRetainedEarnings)

				r.Route("/accounts", func(r chi.Router) {
					r.Post("/", cfg.AccountHandler.Create)
					r.Get("/", cfg.AccountHandler.List)
					r.Get("/{accountID}", cfg.AccountHandler.Get)
					r.Put("/{accountID}", cfg.AccountHandler.Update)
					r.Delete("/{accountID}", cfg.AccountHandler.Delete)
					r.Get("/{accountID}/ledger", cfg.ReportHandler.Ledger)
				})

				r.Route("/transactions", func(r chi.Router) {
					r.Post("/", cfg.TransactionHandler.Create)
					r.Get("/", cfg.TransactionHandler.List)
					r.Get("/{transactionID}", cfg.TransactionHandler.Get)
					r.Put("/{transactionID}", cfg.TransactionHandler.Replace)
					r.Delete("/{transactionID}", cfg.TransactionHandler.Delete)
				})

				r.Get("/balance-sheet", cfg.ReportHandler.BalanceSheet)
				r.Get("/income-statement", cfg.ReportHandler.IncomeStatement)
				r.Get("/journal", cfg.ReportHandler.Journal)
			})
		})
	})

	return r
}
