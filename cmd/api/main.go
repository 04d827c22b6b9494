package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"promo-service/internal/catalog"
	"promo-service/internal/config"
	"promo-service/internal/database"
	"promo-service/internal/handler"
	"promo-service/internal/router"
	"promo-service/internal/service"
	"promo-service/internal/store"

	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting promo-service API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the catalog store backend
	var promoStore store.Store

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		if err := store.EnsureSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}

		promoStore = store.NewPostgresStore(pool, logger)

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to ping redis: %w", err)
		}
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

		promoStore = store.NewRedisStore(client, logger)

	default:
		logger.Info().Msg("using in-memory promo store")
		promoStore = store.NewMemoryStore(logger)
	}

	// Seed the catalog from S3 or the local file system when enabled
	if cfg.Seed.Enabled {
		seeder := catalog.NewSeeder(promoStore, logger)

		var loader catalog.Loader
		seedPath := cfg.Seed.File

		if cfg.Seed.S3Enabled {
			s3Loader, err := catalog.NewS3Loader(ctx, cfg.Seed.S3Bucket, cfg.Seed.S3Region, logger)
			if err != nil {
				logger.Warn().
					Err(err).
					Msg("failed to initialise S3 seed loader, falling back to local file system")
				loader = catalog.NewFileLoader(logger)
			} else {
				loader = s3Loader
				seedPath = cfg.Seed.S3Key
			}
		} else {
			loader = catalog.NewFileLoader(logger)
		}

		if err := seeder.Seed(ctx, loader, seedPath); err != nil {
			return fmt.Errorf("failed to seed promo catalog: %w", err)
		}
	}

	// Initialize service and HTTP handlers
	promoService := service.NewPromoService(promoStore, cfg.Promo.Currency, logger)
	promoHandler := handler.NewPromoHandler(promoService, logger)
	adminHandler := handler.NewAdminHandler(promoService, logger)

	// Initialize router
	mux := router.New(promoHandler, adminHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("store_backend", cfg.Store.Backend).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
