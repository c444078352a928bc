// Package api wires the HTTP surface: REST queries, streaming endpoints,
// probes, and metrics, behind a shared middleware chain.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/orbitcast/orbitcast/internal/auth"
	"github.com/orbitcast/orbitcast/internal/health"
	"github.com/orbitcast/orbitcast/internal/metrics"
	"github.com/orbitcast/orbitcast/internal/stream"
)

// Server exposes the tracker over HTTP.
type Server struct {
	handlers *Handlers
	stream   *stream.Handler
	health   *health.Handler
	token    string
	logger   *slog.Logger
}

// NewServer assembles the HTTP surface. token enables bearer auth when
// non-empty.
func NewServer(handlers *Handlers, streamHandler *stream.Handler, healthHandler *health.Handler, token string, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		stream:   streamHandler,
		health:   healthHandler,
		token:    token,
		logger:   logger,
	}
}

// Handler builds the full route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/elements", s.handlers.Elements)
	mux.HandleFunc("GET /api/v1/position", s.handlers.Position)
	mux.HandleFunc("GET /api/v1/trail", s.handlers.Trail)
	mux.HandleFunc("GET /api/v1/stream/position", s.stream.HandleSSE)
	mux.HandleFunc("GET /ws", s.stream.HandleWS)
	mux.HandleFunc("GET /healthz", s.health.Healthz)
	mux.HandleFunc("GET /readyz", s.health.Readyz)
	mux.Handle("GET /metrics", metrics.Handler())

	var h http.Handler = mux
	h = auth.Middleware(s.token, h)
	h = s.logRequests(h)
	h = metrics.Middleware(h)
	return h
}

// HTTPServer wraps the handler in an http.Server with timeouts. The write
// timeout is left unset: streaming responses outlive any sane value, and the
// stream handlers set their own per-push deadlines instead.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach Flush and the write deadline
// controls on the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
