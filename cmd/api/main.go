package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"little-lemon/internal/config"
	"little-lemon/internal/feed"
	"little-lemon/internal/handler"
	"little-lemon/internal/repository"
	"little-lemon/internal/router"
	"little-lemon/internal/service"

	"github.com/rs/zerolog"
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
	logger.Info().Msg("starting little-lemon menu server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the menu cache; the store is opened lazily on first use
	cache := repository.NewMenuCache(newOpener(cfg, logger), logger)
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close menu cache")
		}
	}()

	// Warm the cache so a broken store shows up at startup, not on first request
	if err := cache.EnsureReady(ctx); err != nil {
		logger.Warn().Err(err).Msg("menu cache not ready, will retry on first request")
	}

	loader := newLoader(ctx, cfg, logger)

	// Initialize services
	menuService := service.NewMenuService(cache, loader, cfg.Feed.Categories, logger)

	// Initialize HTTP handlers
	menuHandler := handler.NewMenuHandler(menuService, logger)

	// Initialize router
	mux := router.New(menuHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15*time.Second + time.Duration(cfg.Feed.Timeout)*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("cache_driver", cfg.Cache.Driver).
			Str("feed", loader.Name()).
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

// newOpener selects the cache backend from the configured driver.
func newOpener(cfg *config.Config, logger zerolog.Logger) repository.Opener {
	if cfg.Cache.Driver == config.DriverPostgres {
		return repository.NewPostgresOpener(cfg.Database, logger)
	}
	return repository.NewSQLiteOpener(cfg.Cache.Path, logger)
}

// newLoader chains the configured feed sources: S3 snapshot, remote URL, local file.
func newLoader(ctx context.Context, cfg *config.Config, logger zerolog.Logger) feed.Loader {
	var loaders []feed.Loader

	if cfg.S3.Enabled {
		s3Loader, err := feed.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Key, cfg.Feed.ImageBaseURL, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, continuing without it")
		} else {
			loaders = append(loaders, s3Loader)
		}
	}

	if cfg.Feed.URL != "" {
		timeout := time.Duration(cfg.Feed.Timeout) * time.Second
		loaders = append(loaders, feed.NewHTTPLoader(cfg.Feed.URL, cfg.Feed.ImageBaseURL, timeout, logger))
	}

	if cfg.Feed.File != "" {
		loaders = append(loaders, feed.NewFileLoader(cfg.Feed.File, cfg.Feed.ImageBaseURL, logger))
	}

	return feed.NewFallbackLoader(logger, loaders...)
}
