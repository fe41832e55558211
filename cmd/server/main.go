// Package main provides the entry point for the translation gateway server.
// It loads configuration, sets up observability, wires the upstream client
// provider and translation service, and serves the HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"translategw/internal/config"
	"translategw/internal/handlers"
	"translategw/internal/observability"
	"translategw/internal/services"
	contextutils "translategw/internal/utils"

	"github.com/gin-gonic/gin"
)

// Application bundles the router and HTTP server so startup and shutdown can
// be tested independently of main.
type Application struct {
	router *gin.Engine
	server *http.Server
	logger *observability.Logger
}

// NewApplication wires the service graph and builds the router
func NewApplication(cfg *config.Config, logger *observability.Logger) (*Application, error) {
	clientProvider := services.NewGradioClientProvider(cfg, logger)

	cache := services.NewTranslationCache(&cfg.Cache, logger)

	var metrics *observability.GatewayMetrics
	if cfg.OpenTelemetry.EnableMetrics {
		m, err := observability.NewGatewayMetrics()
		if err != nil {
			return nil, contextutils.WrapError(err, "failed to create gateway metrics")
		}
		metrics = m
	}

	translationService := services.NewGatewayTranslationService(cfg, clientProvider, cache, metrics, logger)

	router := handlers.NewRouter(cfg, translationService, clientProvider, logger)

	return &Application{
		router: router,
		server: &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

// Run serves HTTP until the context is cancelled or the listener fails
func (a *Application) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-serverErr:
		return contextutils.WrapError(err, "server failed")
	}
}

// Shutdown stops accepting new connections and drains in-flight requests
func (a *Application) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup observability (tracing/metrics/logging). The empty service name
	// keeps whatever open_telemetry.service_name resolved to in config.
	tp, mp, logger, err := observability.SetupObservability(&cfg.OpenTelemetry, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize observability: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if tp != nil {
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Warn(ctx, "Error shutting down tracer provider", map[string]interface{}{"error": err.Error(), "provider": "tracer"})
			}
		}
		if mp != nil {
			if err := mp.Shutdown(shutdownCtx); err != nil {
				logger.Warn(ctx, "Error shutting down meter provider", map[string]interface{}{"error": err.Error(), "provider": "meter"})
			}
		}
	}()

	logger.Info(ctx, "Starting translation gateway", map[string]interface{}{
		"port":     cfg.Server.Port,
		"logLevel": cfg.Server.LogLevel,
		"upstream": cfg.Upstream.Endpoint,
	})

	app, err := NewApplication(cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to create application", err, nil)
		os.Exit(1)
	}

	// Start application in a goroutine
	appErr := make(chan error, 1)
	go func() {
		if err := app.Run(ctx); err != nil {
			appErr <- err
		}
	}()

	// Wait for shutdown signal or application error
	select {
	case <-shutdownCh:
		logger.Info(ctx, "Received shutdown signal, shutting down gracefully", nil)
	case err := <-appErr:
		logger.Error(ctx, "Application failed", err, nil)
		os.Exit(1)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Error during application shutdown", err, nil)
		os.Exit(1)
	}

	logger.Info(ctx, "Shutdown completed successfully", nil)
}
