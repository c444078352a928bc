package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/orbitcast/orbitcast/internal/state"
	"github.com/orbitcast/orbitcast/internal/tle"
)

// ElementSource supplies the current element set.
type ElementSource interface {
	Current(ctx context.Context) (*tle.ElementSet, error)
}

// Handlers implements the REST endpoints.
type Handlers struct {
	source        ElementSource
	composer      *state.Composer
	defaultWindow state.TrailWindow
	logger        *slog.Logger
}

// NewHandlers creates the REST handler set. window provides the trail
// defaults used when a request omits the query parameters.
func NewHandlers(source ElementSource, composer *state.Composer, window state.TrailWindow, logger *slog.Logger) *Handlers {
	if window.Step <= 0 {
		window = state.DefaultTrailWindow()
	}
	return &Handlers{source: source, composer: composer, defaultWindow: window, logger: logger}
}

// elementsPayload is the wire shape of GET /api/v1/elements.
type elementsPayload struct {
	Name           string    `json:"name"`
	Line1          string    `json:"line1"`
	Line2          string    `json:"line2"`
	Epoch          time.Time `json:"epoch"`
	InclinationDeg float64   `json:"inclination_deg"`
	RAANDeg        float64   `json:"raan_deg"`
	Eccentricity   float64   `json:"eccentricity"`
	MeanMotion     float64   `json:"mean_motion_rev_day"`
	PeriodMinutes  float64   `json:"period_minutes"`
	FetchedAt      time.Time `json:"fetched_at"`
}

// Elements returns the cached element set with its derived orbit parameters.
func (h *Handlers) Elements(w http.ResponseWriter, r *http.Request) {
	set, err := h.source.Current(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	entry := elementsPayload{
		Name:           set.Name,
		Line1:          set.Line1,
		Line2:          set.Line2,
		Epoch:          set.Epoch,
		InclinationDeg: round(set.Params.InclinationDeg, 4),
		RAANDeg:        round(set.Params.RAANDeg, 4),
		Eccentricity:   round(set.Params.Eccentricity, 7),
		MeanMotion:     round(set.Params.MeanMotion, 8),
		PeriodMinutes:  round(set.Params.PeriodMinutes, 2),
	}
	writeJSON(w, http.StatusOK, entry)
}

// Position returns the full state for the current instant.
func (h *Handlers) Position(w http.ResponseWriter, r *http.Request) {
	set, err := h.source.Current(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	fs, err := h.composer.ComputeState(set, time.Now().UTC())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fs)
}

// trail window bounds keep a single request from demanding thousands of
// propagations.
const (
	maxTrailWindow = 6 * time.Hour
	minTrailStep   = time.Second
)

// Trail returns sampled ground-track points around now. Query parameters
// past, future, and step are durations in seconds and default to the
// configured window.
func (h *Handlers) Trail(w http.ResponseWriter, r *http.Request) {
	window := h.defaultWindow

	var err error
	if window.Past, err = durationParam(r, "past", window.Past); err != nil {
		h.writeBadRequest(w, err)
		return
	}
	if window.Future, err = durationParam(r, "future", window.Future); err != nil {
		h.writeBadRequest(w, err)
		return
	}
	if window.Step, err = durationParam(r, "step", window.Step); err != nil {
		h.writeBadRequest(w, err)
		return
	}
	if window.Step < minTrailStep || window.Past < 0 || window.Future < 0 ||
		window.Past > maxTrailWindow || window.Future > maxTrailWindow {
		h.writeBadRequest(w, errTrailBounds)
		return
	}

	set, err := h.source.Current(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	trail := h.composer.ComputeTrail(set, time.Now().UTC(), window)
	writeJSON(w, http.StatusOK, trail)
}

var errTrailBounds = &paramError{msg: "trail window out of bounds: step >= 1s, past and future within 6h"}

type paramError struct {
	msg string
}

func (e *paramError) Error() string { return e.msg }

func durationParam(r *http.Request, name string, def time.Duration) (time.Duration, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	secs, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{msg: "parameter " + name + " must be an integer number of seconds"}
	}
	return time.Duration(secs) * time.Second, nil
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	h.logger.Error("request failed", "error", err)
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
}

func (h *Handlers) writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
