package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/dispenser/internal/config"
	"github.com/JonMunkholm/dispenser/internal/content"
	"github.com/JonMunkholm/dispenser/internal/core"
	"github.com/JonMunkholm/dispenser/internal/logging"
	"github.com/JonMunkholm/dispenser/internal/sheets"
	"github.com/JonMunkholm/dispenser/internal/storage"
	"github.com/JonMunkholm/dispenser/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists; real environment variables win
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"cart_store", cfg.Cart.Store,
		"catalog_remote", cfg.Catalog.CSVURL != "",
		"refresh_interval", cfg.Catalog.RefreshInterval.String(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	site, err := content.Load()
	if err != nil {
		slog.Error("failed to load site content", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open cart store", "store", cfg.Cart.Store, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("cart store ready", "store", cfg.Cart.Store)

	// An empty URL serves the bundled catalog only.
	var source core.Source
	if cfg.Catalog.CSVURL != "" {
		src, err := sheets.New(sheets.Config{
			URL:       cfg.Catalog.CSVURL,
			Timeout:   cfg.Catalog.FetchTimeout,
			UserAgent: cfg.Catalog.UserAgent,
		})
		if err != nil {
			slog.Error("invalid catalog source", "error", err)
			os.Exit(1)
		}
		source = src
	} else {
		slog.Warn("CATALOG_CSV_URL not set, serving bundled catalog")
	}

	catalog := core.NewCatalog(source, core.CatalogConfig{
		MaxBytes: cfg.Catalog.MaxBytes,
		Fallback: core.FallbackProducts(),
		Limiter:  core.NewRefreshLimiter(cfg.Catalog.MaxConcurrent, cfg.Catalog.MaxWaitTime),
	})
	links := core.NewLinks(cfg.Shop.WhatsAppPhone)
	carts := core.NewCartService(store, catalog, links)

	server := web.NewServer(cfg, web.Deps{
		Catalog: catalog,
		Carts:   carts,
		Links:   links,
		Site:    site,
		Store:   store,
	})

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	if source != nil {
		go catalog.StartRefreshScheduler(jobCtx, cfg.Catalog.RefreshInterval)
	}
	go storage.StartSweeper(jobCtx, store, cfg.Cart.TTL, cfg.Cart.SweepInterval)

	// Graceful shutdown
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		// Let a refresh that was mid-download finish writing the snapshot.
		if err := catalog.WaitForRefreshes(shutdownCtx); err != nil {
			slog.Warn("catalog refresh did not finish in time", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	<-stopped
	slog.Info("server stopped")
}
