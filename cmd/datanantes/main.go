// DataNantes - chat assistant over the Nantes Métropole parking feeds.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/sheet4riders/DataNantes/internal/assistant"
	"github.com/sheet4riders/DataNantes/internal/config"
	"github.com/sheet4riders/DataNantes/internal/middleware"
	"github.com/sheet4riders/DataNantes/internal/opendata"
	"github.com/sheet4riders/DataNantes/internal/parking"
	"github.com/sheet4riders/DataNantes/internal/server"
	"github.com/sheet4riders/DataNantes/internal/session"
	"github.com/sheet4riders/DataNantes/internal/telemetry"
	"github.com/sheet4riders/DataNantes/web"
)

func main() {
	var addr string
	var debug bool
	flag.StringVar(&addr, "addr", "", "Listen address (overrides PORT)")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if debug {
		cfg.Debug = true
	}
	if addr == "" {
		addr = ":" + cfg.Port
	}

	logger, err := telemetry.InitLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracer, meter, cleanup, err := telemetry.InitTelemetry(ctx)
	if err != nil {
		logger.Error("Failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if !cfg.AIEnabled() {
		logger.Warn("CLAUDE_API_KEY not set, answering from keyword search only")
	}

	feeds := opendata.NewClient(cfg.OpenDataURL, cfg.FeedLimit, logger, tracer, meter)
	store := parking.NewStore(feeds, cfg.DataTTL, logger)
	claude := assistant.NewClient(cfg.AnthropicURL, cfg.APIKey, cfg.Model, logger, tracer, meter)
	sessions := session.NewManager(logger)

	handler := server.NewHandler(store, claude, sessions, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS([]string{"*"}))

	handler.RegisterRoutes(r)
	r.Handle("/*", web.Handler())

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Warm the snapshot so the first question doesn't pay the fetch.
	if _, _, err := store.Snapshot(ctx); err != nil {
		logger.Warn("initial parking fetch failed", "error", err)
	}

	go func() {
		logger.Info("Server listening", "addr", srv.Addr, "ai_enabled", cfg.AIEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped")
}
