package stream

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/orbitcast/orbitcast/internal/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The stream is read-only public telemetry; browser clients connect
	// straight from file:// demos and arbitrary origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWS serves the position stream over a WebSocket. Each text message
// carries one full-state JSON document, on the same cadence and with the
// same error-payload behavior as the SSE transport.
func (h *Handler) HandleWS(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	if !h.limiter.acquire(ip) {
		metrics.IncStreamErrors("limit_exceeded")
		http.Error(w, "too many concurrent streams", http.StatusTooManyRequests)
		return
	}
	defer h.limiter.release(ip)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		metrics.IncStreamErrors("upgrade_failed")
		h.logger.Debug("websocket upgrade failed", "client", ip, "error", err)
		return
	}
	defer conn.Close()

	metrics.IncStreamConnections("ws_open")
	metrics.IncStreamsActive()
	defer metrics.DecStreamsActive()
	defer metrics.IncStreamConnections("ws_close")

	h.logger.Info("stream opened", "transport", "ws", "client", ip)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Read pump: the client never sends data, but reading is how we learn
	// about close frames and dead peers.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		data := h.tick(ctx)

		_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			metrics.IncStreamErrors("write_failed")
			h.logger.Info("stream closed", "transport", "ws", "client", ip)
			return
		}
		metrics.IncStreamMessages()
		metrics.AddStreamBytes(int64(len(data)))

		select {
		case <-ctx.Done():
			h.logger.Info("stream closed", "transport", "ws", "client", ip)
			return
		case <-time.After(h.config.Interval):
		}
	}
}
