package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/storefront-menu/internal/config"
	"github.com/Lixing-Zhang/storefront-menu/internal/handlers"
	"github.com/Lixing-Zhang/storefront-menu/internal/metrics"
	"github.com/Lixing-Zhang/storefront-menu/internal/propagation"
	"github.com/Lixing-Zhang/storefront-menu/internal/repository"
	"github.com/Lixing-Zhang/storefront-menu/internal/seed"
	"github.com/Lixing-Zhang/storefront-menu/internal/service"
	"github.com/Lixing-Zhang/storefront-menu/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting menu api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"store", cfg.Store.Driver,
		"environment", cfg.Environment,
	)

	ctx := context.Background()

	store, closeStore, err := repository.Open(ctx, repository.Options{
		Driver:      cfg.Store.Driver,
		DatabaseURL: cfg.Store.DatabaseURL,
		SQLitePath:  cfg.Store.SQLitePath,
	})
	if err != nil {
		log.Error("failed to open menu store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error("failed to close menu store", "error", err)
		}
	}()

	if len(cfg.Seed.Sources) > 0 {
		log.Info("loading menu documents...", "sources", len(cfg.Seed.Sources))
		var opts []seed.LoaderOption
		if seed.HasS3Sources(cfg.Seed.Sources) {
			client, err := seed.NewS3Client(ctx, seed.S3Config{
				Region:    cfg.Seed.S3Region,
				Endpoint:  cfg.Seed.S3Endpoint,
				PathStyle: cfg.Seed.S3PathStyle,
			})
			if err != nil {
				log.Error("failed to create S3 client", "error", err)
				os.Exit(1)
			}
			opts = append(opts, seed.WithS3(client))
		}
		docs, err := seed.NewLoader(nil, log, opts...).LoadFromSources(ctx, cfg.Seed.Sources)
		if err != nil {
			log.Error("failed to load menu documents", "error", err)
			os.Exit(1)
		}
		stats, err := seed.ApplyAll(ctx, store, docs)
		if err != nil {
			log.Error("failed to apply menu documents", "error", err)
			os.Exit(1)
		}
		log.Info("menu documents loaded successfully",
			"restaurants", stats.Restaurants,
			"categories", stats.Categories,
			"templates", stats.Templates,
			"dishes", stats.Dishes,
		)
	}

	m := metrics.New()

	// Initialize services
	menuService := service.NewMenuService(store, log, cfg.Orders.DefaultCurrency, m)
	orderService := service.NewOrderService(menuService, log, cfg.Orders.IdempotencyCapacity, m)
	propagationService := propagation.NewService(store, log, propagation.WithObserver(m))

	router := newRouter(routerDeps{
		auth:    cfg.Auth,
		logger:  log,
		metrics: m,
		health:  handlers.NewHealthHandler(store, log),
		menu:    handlers.NewMenuHandler(menuService, log),
		orders:  handlers.NewOrderHandler(orderService, log),
		admin:   handlers.NewAdminHandler(propagationService, log),
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("server failed to start", "error", err)
		return
	}

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return
	}

	log.Info("server stopped gracefully")
}
