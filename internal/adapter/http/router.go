package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/avnish/coldledger/internal/adapter/http/handler"
	"github.com/avnish/coldledger/internal/adapter/http/middleware"
	"github.com/avnish/coldledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	RentHandler      *handler.RentHandler
	BillHandler      *handler.BillHandler
	VoucherHandler   *handler.VoucherHandler
	ReportHandler    *handler.ReportHandler
	BootstrapHandler *handler.BootstrapHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter // nil disables throttling
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(log.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Chart of accounts and ledger views
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/entries", cfg.AccountHandler.ListEntries)
			r.Get("/{id}/balance", cfg.AccountHandler.GetBalance)
		})

		// Rent quotes
		r.Route("/rent", func(r chi.Router) {
			r.Get("/quote", cfg.RentHandler.Quote)
			r.Get("/dispatch-quote", cfg.RentHandler.DispatchQuote)
		})

		// Bill lifecycle
		r.Route("/bills", func(r chi.Router) {
			r.Post("/", cfg.BillHandler.Build)
			r.Get("/{id}", cfg.BillHandler.Get)
			r.Post("/{id}/confirm", cfg.BillHandler.Confirm)
			r.Post("/{id}/cancel", cfg.BillHandler.Cancel)
		})

		r.Post("/receipts", cfg.BillHandler.CreateReceipt)
		r.Post("/billing/run", cfg.BillHandler.RunBatch)

		// Vouchers
		r.Route("/vouchers", func(r chi.Router) {
			r.Post("/", cfg.VoucherHandler.Post)
			r.Get("/{id}", cfg.VoucherHandler.Get)
			r.Post("/{id}/reverse", cfg.VoucherHandler.Reverse)
		})

		r.Post("/bootstrap", cfg.BootstrapHandler.Seed)

		// Reports
		r.Get("/daybook", cfg.ReportHandler.Daybook)
		r.Get("/parties/outstanding", cfg.ReportHandler.ListOutstandings)
		r.Get("/parties/{id}/outstanding", cfg.ReportHandler.PartyOutstanding)
		r.Get("/trial-balance", cfg.VoucherHandler.TrialBalance)
	})

	return r
}
