package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/iho/gobooks/internal/adapter/http"
	"github.com/iho/gobooks/internal/adapter/http/handler"
	"github.com/iho/gobooks/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/gobooks/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gobooks/internal/adapter/repository/redis"
	"github.com/iho/gobooks/internal/infrastructure/config"
	"github.com/iho/gobooks/internal/infrastructure/logger"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
	"github.com/iho/gobooks/internal/infrastructure/postgres"
	redisInfra "github.com/iho/gobooks/internal/infrastructure/redis"
	"github.com/iho/gobooks/internal/usecase"

	goredis "github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(log, cfg.DatabaseURL, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis. The service runs without caching when no URL is set.
	var redisClient *goredis.Client
	var cache usecase.Cache
	if cfg.RedisURL != "" {
		redisClient, err = redisInfra.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		cache = redisRepo.NewCache(redisClient)
		log.Info().Msg("connected to redis")
	} else {
		log.Info().Msg("running without redis cache")
	}

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	chartRepo := postgresRepo.NewChartRepository(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	txRepo := postgresRepo.NewTransactionRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log)

	appMetrics := metrics.New()

	// Initialize use cases
	chartUC := usecase.NewChartUseCase(chartRepo, idGen, appMetrics)
	accountUC := usecase.NewAccountUseCase(txManager, chartRepo, accountRepo, txRepo, idGen, cache, retrier, appMetrics)
	transactionUC := usecase.NewTransactionUseCase(chartRepo, accountRepo, txRepo, idGen, cache, appMetrics)
	balanceUC := usecase.NewBalanceUseCase(accountRepo, txRepo, cache, appMetrics)
	reportUC := usecase.NewReportUseCase(chartRepo, accountRepo, txRepo, balanceUC, cache, appMetrics)

	// Initialize handlers
	chartHandler := handler.NewChartHandler(chartUC)
	accountHandler := handler.NewAccountHandler(accountUC)
	transactionHandler := handler.NewTransactionHandler(transactionUC)
	reportHandler := handler.NewReportHandler(reportUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ChartHandler:       chartHandler,
		AccountHandler:     accountHandler,
		TransactionHandler: transactionHandler,
		ReportHandler:      reportHandler,
		HealthHandler:      healthHandler,
		Logging:            middleware.NewLoggingMiddleware(log),
		Metrics:            middleware.NewMetricsMiddleware(appMetrics),
		RateLimiter:        middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, appMetrics),
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

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
