package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/avnish/coldledger/internal/adapter/http"
	"github.com/avnish/coldledger/internal/adapter/http/handler"
	"github.com/avnish/coldledger/internal/adapter/http/middleware"
	postgresRepo "github.com/avnish/coldledger/internal/adapter/repository/postgres"
	redisRepo "github.com/avnish/coldledger/internal/adapter/repository/redis"
	"github.com/avnish/coldledger/internal/infrastructure/config"
	"github.com/avnish/coldledger/internal/infrastructure/eventpublisher"
	"github.com/avnish/coldledger/internal/infrastructure/logger"
	"github.com/avnish/coldledger/internal/infrastructure/logging"
	"github.com/avnish/coldledger/internal/infrastructure/metrics"
	"github.com/avnish/coldledger/internal/infrastructure/postgres"
	"github.com/avnish/coldledger/internal/infrastructure/redis"
	"github.com/avnish/coldledger/internal/jobs"
	"github.com/avnish/coldledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup loggers. The HTTP layer logs through zerolog, background
	// workers through slog.
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	booksClosedBefore, err := cfg.BooksClosedCutoff()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid books closed cutoff")
	}

	ctx := context.Background()

	// Run migrations
	if cfg.MigrationsPath != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	voucherRepo := postgresRepo.NewVoucherRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	lotRepo := postgresRepo.NewLotRepository(pool)
	billRepo := postgresRepo.NewBillRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	configRepo := redisRepo.NewCachedConfigRepository(
		postgresRepo.NewConfigRepository(pool),
		redisRepo.NewCache(redisClient),
	)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, entryRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(usecase.LedgerConfig{
		TxManager:         txManager,
		AccountRepo:       accountRepo,
		VoucherRepo:       voucherRepo,
		EntryRepo:         entryRepo,
		OutboxRepo:        outboxRepo,
		IDGen:             idGen,
		Retrier:           retrier,
		BooksClosedBefore: booksClosedBefore,
	})
	rentUC := usecase.NewRentUseCase(configRepo, lotRepo, billRepo)
	billingUC := usecase.NewBillingUseCase(usecase.BillingConfig{
		RentUC:        rentUC,
		LedgerUC:      ledgerUC,
		BillRepo:      billRepo,
		LotRepo:       lotRepo,
		AccountRepo:   accountRepo,
		ConfigRepo:    configRepo,
		IDGen:         idGen,
		SupplierState: cfg.SupplierState,
	})
	daybookUC := usecase.NewDaybookUseCase(accountRepo, entryRepo)
	bootstrapUC := usecase.NewBootstrapUseCase(accountUC)

	created, err := bootstrapUC.EnsureChartOfAccounts(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap chart of accounts")
	}
	if created > 0 {
		log.Info().Int("accounts", created).Msg("chart of accounts bootstrapped")
	}

	// Background workers
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(slogger),
		Logger:     slogger,
	})
	go func() {
		if err := publisher.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	billingJob := jobs.NewBillingJob(billingUC, slogger, appMetrics, cfg.BillingCron)
	if err := billingJob.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule batch billing")
	}

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountUC, ledgerUC)
	rentHandler := handler.NewRentHandler(rentUC)
	billHandler := handler.NewBillHandler(billingUC)
	voucherHandler := handler.NewVoucherHandler(ledgerUC)
	reportHandler := handler.NewReportHandler(daybookUC)
	bootstrapHandler := handler.NewBootstrapHandler(bootstrapUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTPRateLimit > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTPRateLimit, int(cfg.HTTPRateLimit)*2)
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for {
				select {
				case <-workerCtx.Done():
					return
				case <-ticker.C:
					rateLimiter.CleanupLimiters(time.Hour)
				}
			}
		}()
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   accountHandler,
		RentHandler:      rentHandler,
		BillHandler:      billHandler,
		VoucherHandler:   voucherHandler,
		ReportHandler:    reportHandler,
		BootstrapHandler: bootstrapHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      rateLimiter,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	cancelWorkers()
	<-billingJob.Stop().Done()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
