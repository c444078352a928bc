// Package stream pushes live position snapshots to subscribers.
//
// Each subscriber runs its own loop: fetch the current element set, compose
// the full state, push it (or an error payload), sleep the configured
// interval, repeat. The sleep comes after the work, so the actual cadence is
// interval + work latency rather than a hard tick, smooth enough for
// animation and forgiving of slow fetches.
//
// A failed tick pushes {"error": "..."} and the loop continues; only a
// subscriber disconnect or a transport write failure ends a session.
//
// Two transports share the tick logic: Server-Sent Events
// (GET /api/v1/stream/position) and WebSocket (GET /ws).
package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/orbitcast/orbitcast/internal/metrics"
	"github.com/orbitcast/orbitcast/internal/state"
	"github.com/orbitcast/orbitcast/internal/tle"
)

// Source supplies the current element set (the cache-backed fetcher).
type Source interface {
	Current(ctx context.Context) (*tle.ElementSet, error)
}

// Composer computes a full state snapshot for an instant.
type Composer interface {
	ComputeState(set *tle.ElementSet, at time.Time) (*state.FullState, error)
}

// Config holds streaming configuration.
type Config struct {
	Interval           time.Duration // push cadence (default: 2s)
	MaxConcurrentPerIP int           // concurrent subscribers per IP (default: 10)
}

// DefaultConfig returns the stock streaming configuration.
func DefaultConfig() Config {
	return Config{
		Interval:           2 * time.Second,
		MaxConcurrentPerIP: 10,
	}
}

// Handler serves position streams over SSE and WebSocket.
type Handler struct {
	source   Source
	composer Composer
	config   Config
	limiter  *subscriberLimiter
	logger   *slog.Logger
}

// NewHandler creates a streaming handler.
func NewHandler(source Source, composer Composer, config Config, logger *slog.Logger) *Handler {
	if config.Interval <= 0 {
		config.Interval = 2 * time.Second
	}
	if config.MaxConcurrentPerIP <= 0 {
		config.MaxConcurrentPerIP = 10
	}
	return &Handler{
		source:   source,
		composer: composer,
		config:   config,
		limiter:  newSubscriberLimiter(config.MaxConcurrentPerIP),
		logger:   logger,
	}
}

// errorPayload is pushed when a tick fails; the subscriber can display a
// warning and keep listening.
type errorPayload struct {
	Error string `json:"error"`
}

// tick produces the payload for one loop iteration. It never fails: fetch or
// propagation errors become the error payload so the session survives.
func (h *Handler) tick(ctx context.Context) []byte {
	var v any

	set, err := h.source.Current(ctx)
	if err == nil {
		var fs *state.FullState
		fs, err = h.composer.ComputeState(set, time.Now().UTC())
		if err == nil {
			v = fs
		}
	}
	if err != nil {
		metrics.IncStreamErrors("tick_error")
		v = errorPayload{Error: err.Error()}
	}

	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(errorPayload{Error: "encoding state: " + err.Error()})
	}
	return data
}

// clientIP extracts the subscriber address for the per-IP limiter.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
