// Package health provides liveness and readiness endpoints.
package health

import (
	"encoding/json"
	"net/http"

	"github.com/orbitcast/orbitcast/internal/tle"
)

// Handler answers /healthz and /readyz probes.
type Handler struct {
	store *tle.Store
}

// NewHandler creates a probe handler backed by the element store.
func NewHandler(store *tle.Store) *Handler {
	return &Handler{store: store}
}

// Healthz reports process liveness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, "ok")
}

// Readyz reports readiness: the service can answer position queries once at
// least one element set is cached, fresh or stale.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.store.Entry() == nil {
		writeStatus(w, http.StatusServiceUnavailable, "no element set cached")
		return
	}
	writeStatus(w, http.StatusOK, "ok")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}
