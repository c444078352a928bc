// Command orbitcast serves live orbital position data over HTTP: REST
// queries, an SSE stream, a WebSocket stream, health probes, and Prometheus
// metrics.
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

	"github.com/orbitcast/orbitcast/internal/api"
	"github.com/orbitcast/orbitcast/internal/config"
	"github.com/orbitcast/orbitcast/internal/health"
	"github.com/orbitcast/orbitcast/internal/metrics"
	"github.com/orbitcast/orbitcast/internal/propagation"
	"github.com/orbitcast/orbitcast/internal/state"
	"github.com/orbitcast/orbitcast/internal/stream"
	"github.com/orbitcast/orbitcast/internal/tle"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "orbitcast:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	store := tle.NewStore()
	var snapshot *tle.Snapshot
	if cfg.Elements.SnapshotPath != "" {
		snapshot = tle.NewSnapshot(cfg.Elements.SnapshotPath)
		preloadSnapshot(snapshot, store, logger)
	}
	client := tle.NewClient(cfg.Elements.SourceURL, cfg.Elements.TTL(), store, snapshot, logger)

	solver := propagation.NewSolver(logger)
	composer := state.NewComposer(solver, logger)

	streamHandler := stream.NewHandler(client, composer, stream.Config{
		Interval:           cfg.Stream.Interval(),
		MaxConcurrentPerIP: cfg.Stream.MaxConcurrentPerIP,
	}, logger)

	past, future, step := cfg.Trail.Window()
	handlers := api.NewHandlers(client, composer, state.TrailWindow{
		Past:   past,
		Future: future,
		Step:   step,
	}, logger)
	server := api.NewServer(handlers, streamHandler, health.NewHandler(store), cfg.Auth.Token, logger)
	httpServer := server.HTTPServer(cfg.Server.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go reportCacheAge(ctx, store)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func newLogger(level string) *slog.Logger {
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
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// preloadSnapshot seeds the store from the last persisted element set so a
// restart can serve (stale) positions before the first fetch completes.
func preloadSnapshot(snapshot *tle.Snapshot, store *tle.Store, logger *slog.Logger) {
	data, fetchedAt, err := snapshot.Load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("loading element snapshot", "error", err)
		}
		return
	}
	set, err := tle.Parse(string(data))
	if err != nil {
		logger.Warn("parsing element snapshot", "error", err)
		return
	}
	store.Replace(set, fetchedAt)
	logger.Info("element snapshot loaded", "epoch", set.Epoch, "fetched_at", fetchedAt)
}

// reportCacheAge keeps the cache-age gauge current between fetches.
func reportCacheAge(ctx context.Context, store *tle.Store) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if age := store.AgeSeconds(); age >= 0 {
				metrics.SetElementCacheAge(age)
			}
		}
	}
}
