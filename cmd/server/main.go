package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"

	adapterhttp "github.com/zkybank/zkybank/internal/adapter/http"
	"github.com/zkybank/zkybank/internal/adapter/http/handler"
	"github.com/zkybank/zkybank/internal/adapter/repository/memory"
	postgresRepo "github.com/zkybank/zkybank/internal/adapter/repository/postgres"
	redisRepo "github.com/zkybank/zkybank/internal/adapter/repository/redis"
	"github.com/zkybank/zkybank/internal/infrastructure/config"
	"github.com/zkybank/zkybank/internal/infrastructure/logger"
	"github.com/zkybank/zkybank/internal/infrastructure/metrics"
	"github.com/zkybank/zkybank/internal/infrastructure/postgres"
	"github.com/zkybank/zkybank/internal/infrastructure/redis"
	"github.com/zkybank/zkybank/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx := context.Background()

	var (
		uowFactory usecase.UnitOfWorkFactory
		pool       *pgxpool.Pool
	)

	switch cfg.StorageBackend {
	case "memory":
		uowFactory = memory.NewStore()
		log.Warn().Msg("using in-memory storage, state is not persisted")
	default:
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}

		pool, err = postgres.NewPool(ctx, postgres.PoolConfig{
			URL:            cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pool.Close()
		log.Info().Msg("connected to postgres")

		uowFactory = postgresRepo.NewUnitOfWorkFactory(pool)
	}

	var redisClient *redislib.Client

	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	}

	m := metrics.New()
	if pool != nil {
		m.DBConnections.Set(float64(pool.Stat().TotalConns()))
	}

	idGen := postgresRepo.NewULIDGenerator()
	retrier := usecase.NewConflictRetrier(log).
		WithMaxAttempts(cfg.ConflictMaxAttempts).
		WithMetrics(m)

	accountUC := usecase.NewAccountUseCase(uowFactory, idGen, log)
	transactionUC := usecase.NewTransactionUseCase(uowFactory, idGen, retrier, log)
	transferUC := usecase.NewTransferUseCase(uowFactory, idGen, retrier, log)
	entryUC := usecase.NewEntryUseCase(uowFactory)

	routerCfg := adapterhttp.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC, m),
		TransactionHandler: handler.NewTransactionHandler(transactionUC, m),
		TransferHandler:    handler.NewTransferHandler(transferUC, m),
		EntryHandler:       handler.NewEntryHandler(entryUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		Logger:             log,
		Metrics:            m,
	}

	if redisClient != nil {
		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		routerCfg.IdempotencyTTL = cfg.IdempotencyTTL
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      adapterhttp.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
