package stream

import (
	"fmt"
	"net/http"
	"time"

	"github.com/orbitcast/orbitcast/internal/metrics"
)

// writeDeadline bounds a single push so a stalled subscriber cannot pin a
// goroutine forever.
const writeDeadline = 10 * time.Second

// HandleSSE serves the position stream as Server-Sent Events. Each event's
// data field carries one full-state JSON document (or an error payload when
// a tick fails).
func (h *Handler) HandleSSE(w http.ResponseWriter, r *http.Request) {
	_, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ip := clientIP(r)
	if !h.limiter.acquire(ip) {
		metrics.IncStreamErrors("limit_exceeded")
		http.Error(w, "too many concurrent streams", http.StatusTooManyRequests)
		return
	}
	defer h.limiter.release(ip)

	metrics.IncStreamConnections("sse_open")
	metrics.IncStreamsActive()
	defer metrics.DecStreamsActive()
	defer metrics.IncStreamConnections("sse_close")

	h.logger.Info("stream opened", "transport", "sse", "client", ip)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	// The server-wide write timeout would kill a long-lived stream; replace
	// it with a per-push deadline instead.
	_ = rc.SetWriteDeadline(time.Time{})

	ctx := r.Context()
	for {
		data := h.tick(ctx)

		_ = rc.SetWriteDeadline(time.Now().Add(writeDeadline))
		n, err := fmt.Fprintf(w, "data: %s\n\n", data)
		if err != nil {
			metrics.IncStreamErrors("write_failed")
			h.logger.Debug("stream write failed", "transport", "sse", "client", ip, "error", err)
			return
		}
		if err := rc.Flush(); err != nil {
			metrics.IncStreamErrors("flush_failed")
			return
		}
		metrics.IncStreamMessages()
		metrics.AddStreamBytes(int64(n))

		select {
		case <-ctx.Done():
			h.logger.Info("stream closed", "transport", "sse", "client", ip)
			return
		case <-time.After(h.config.Interval):
		}
	}
}
