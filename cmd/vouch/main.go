package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/impactkit/vouch/internal/aggregator"
	"github.com/impactkit/vouch/internal/api"
	"github.com/impactkit/vouch/internal/bus"
	"github.com/impactkit/vouch/internal/config"
	"github.com/impactkit/vouch/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("vouch starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database connected")

	// NATS
	busClient, err := bus.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		slog.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer busClient.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)

	// Aggregator — keeps coverage snapshots in sync with claim/evidence changes
	agg := aggregator.New(db, busClient, slog.Default())

	if err := busClient.Subscribe(bus.SubjectClaimUpdated, agg.HandleClaimUpdated); err != nil {
		slog.Error("failed to subscribe to claim events", "error", err)
		os.Exit(1)
	}
	if err := busClient.Subscribe(bus.SubjectEvidenceLinked, agg.HandleEvidenceLinked); err != nil {
		slog.Error("failed to subscribe to evidence events", "error", err)
		os.Exit(1)
	}

	// HTTP API
	srv := api.NewCoverageServer(cfg.Port, cfg.APIToken, db, agg, api.PublicOptions{
		CacheTTL:   time.Duration(cfg.PublicCacheTTL) * time.Second,
		RatePerSec: cfg.PublicRatePerSec,
		RateBurst:  cfg.PublicRateBurst,
	})
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Announce registration
	if err := busClient.Publish(bus.SubjectRegistered, map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"port":      cfg.Port,
	}); err != nil {
		slog.Warn("failed to publish registration", "error", err)
	}

	slog.Info("vouch ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("vouch stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
