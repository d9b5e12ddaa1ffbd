package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mercadito/internal/config"
	"mercadito/internal/database"
	"mercadito/internal/handler"
	"mercadito/internal/idempotency"
	"mercadito/internal/notify"
	"mercadito/internal/promo"
	"mercadito/internal/repository"
	"mercadito/internal/router"
	"mercadito/internal/service"
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
	logger.Info().Msg("starting mercadito order engine")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(pool, logger)
	stockRepo := repository.NewStockRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Initialize promo validator
	promoValidator := promo.NewDisabledValidator()
	if cfg.Promo.Enabled {
		var s3Loader promo.Loader
		if cfg.Promo.S3Enabled {
			s3Loader, err = promo.NewS3Loader(ctx, cfg.Promo.S3Bucket, cfg.Promo.S3Region, logger)
			if err != nil {
				logger.Warn().
					Err(err).
					Msg("failed to initialise S3 promo loader, will use local file system only")
				s3Loader = nil
			}
		}
		loader := promo.NewFallbackLoader(
			s3Loader, promo.NewFileLoader(logger), cfg.Promo.S3Prefix, cfg.Promo.S3Enabled, logger)

		promoValidator, err = promo.NewValidator(ctx, promo.ValidatorConfig{
			FilePath:        cfg.Promo.FilePath,
			DiscountPercent: cfg.Promo.DiscountPercent,
		}, loader, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize promo validator: %w", err)
		}
	} else {
		logger.Info().Msg("promo codes disabled")
	}
	defer promoValidator.Close()

	// Initialize transition notifier
	notifier := notify.NewNopNotifier()
	if cfg.Kafka.Enabled {
		notifier = notify.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.Topic).
			Msg("kafka notifier enabled")
	}
	defer notifier.Close()

	// Initialize idempotency guard
	guard := idempotency.NewNopGuard()
	if cfg.Redis.Enabled {
		guard = idempotency.NewRedisGuard(idempotency.NewClient(cfg.Redis.Addr), logger)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("redis idempotency guard enabled")
	}

	// Initialize services
	customerService := service.NewCustomerOrderService(orderRepo, stockRepo, catalogRepo, promoValidator, notifier, logger)
	restockService := service.NewRestockOrderService(orderRepo, stockRepo, catalogRepo, notifier, logger)

	// Initialize HTTP handlers
	customerHandler := handler.NewCustomerOrderHandler(customerService, guard, logger)
	restockHandler := handler.NewRestockOrderHandler(restockService, guard, logger)

	// Initialize router
	mux := router.New(customerHandler, restockHandler, cfg.Auth.APIKey, logger)

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
