package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"parodioczolko/internal/config"
	"parodioczolko/internal/handlers"
	"parodioczolko/internal/logging"
	"parodioczolko/internal/repositories"
	"parodioczolko/internal/services"
)

func main() {
	// Load .env file for local development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize catalog store
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	songRepo, closeStore, err := repositories.Open(connectCtx, &cfg.Store, "parodioczolko-api")
	cancel()
	if err != nil {
		logger.Error("Failed to open catalog store", "target", cfg.Target(), "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			logger.Warn("Failed to close catalog store", "error", err)
		}
	}()

	catalog := services.NewCatalogService(songRepo, cfg.Store.PartitionKey, services.WithLogger(logger))

	router := handlers.NewRouter(catalog, handlers.RouterOptions{
		Prefix:       cfg.RoutePrefix,
		StoreTimeout: cfg.Store.Timeout,
		Logger:       logger,
	})

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			"addr", server.Addr,
			"prefix", cfg.RoutePrefix,
			"target", cfg.Target(),
			"backend", cfg.Store.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
}
