package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/csvfetch/internal/config"
	"github.com/JonMunkholm/csvfetch/internal/core"
	"github.com/JonMunkholm/csvfetch/internal/logging"
	"github.com/JonMunkholm/csvfetch/internal/metrics"
	"github.com/JonMunkholm/csvfetch/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"csv_file", cfg.Source.Path,
		"fetch_max_concurrent", cfg.Fetch.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"metrics_enabled", cfg.Metrics.Enabled,
	)

	service := core.NewService(cfg)

	// A missing path is not fatal; GET /fetch reports it on every request.
	if err := service.CheckSource(); err != nil {
		slog.Warn("csv source not readable", "path", cfg.Source.Path, "error", err)
	}

	server := web.NewServer(service, cfg, metrics.New())

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for fetches to complete", "active", status.Active)
			if err := service.WaitForFetches(shutdownCtx); err != nil {
				slog.Warn("fetches did not complete in time", "error", err)
			} else {
				slog.Info("all fetches completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	<-stopped
	slog.Info("server stopped")
}
