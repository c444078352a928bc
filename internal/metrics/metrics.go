package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbitcast_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orbitcast_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	elementFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbitcast_element_fetch_total",
			Help: "Element-set cache lookups by outcome (hit, fetched, stale, error, format_error).",
		},
		[]string{"result"},
	)

	elementCacheAgeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "orbitcast_element_cache_age_seconds",
			Help: "Age of the cached element set in seconds.",
		},
	)

	propagationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orbitcast_propagation_duration_seconds",
			Help:    "SGP4 propagation duration in seconds.",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		},
	)

	propagationErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orbitcast_propagation_errors_total",
			Help: "Total number of failed SGP4 propagations.",
		},
	)

	streamConnectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbitcast_stream_connections_total",
			Help: "Stream connection events (sse_open, sse_close, ws_open, ws_close).",
		},
		[]string{"event"},
	)

	streamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "orbitcast_streams_active",
			Help: "Number of currently connected stream subscribers.",
		},
	)

	streamMessagesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orbitcast_stream_messages_total",
			Help: "Total number of messages pushed to stream subscribers.",
		},
	)

	streamBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orbitcast_stream_bytes_total",
			Help: "Total bytes pushed to stream subscribers.",
		},
	)

	streamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbitcast_stream_errors_total",
			Help: "Stream errors by reason (limit_exceeded, upgrade_failed, write_failed, flush_failed, tick_error).",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpDurationSeconds,
		elementFetchTotal,
		elementCacheAgeSeconds,
		propagationDurationSeconds,
		propagationErrorsTotal,
		streamConnectionsTotal,
		streamsActive,
		streamMessagesTotal,
		streamBytesTotal,
		streamErrorsTotal,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordElementFetch counts one element-set lookup outcome.
func RecordElementFetch(result string) {
	elementFetchTotal.WithLabelValues(result).Inc()
}

// SetElementCacheAge updates the cached element-set age gauge.
func SetElementCacheAge(seconds float64) {
	elementCacheAgeSeconds.Set(seconds)
}

// ObservePropagation records the duration of one SGP4 propagation.
func ObservePropagation(d time.Duration) {
	propagationDurationSeconds.Observe(d.Seconds())
}

// IncPropagationErrors counts one failed propagation.
func IncPropagationErrors() {
	propagationErrorsTotal.Inc()
}

// IncStreamConnections counts a stream connection event.
func IncStreamConnections(event string) {
	streamConnectionsTotal.WithLabelValues(event).Inc()
}

// IncStreamsActive increments the active subscriber gauge.
func IncStreamsActive() {
	streamsActive.Inc()
}

// DecStreamsActive decrements the active subscriber gauge.
func DecStreamsActive() {
	streamsActive.Dec()
}

// IncStreamMessages counts one pushed stream message.
func IncStreamMessages() {
	streamMessagesTotal.Inc()
}

// AddStreamBytes adds to the pushed-bytes counter.
func AddStreamBytes(n int64) {
	streamBytesTotal.Add(float64(n))
}

// IncStreamErrors counts one stream error by reason.
func IncStreamErrors(reason string) {
	streamErrorsTotal.WithLabelValues(reason).Inc()
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap exposes the underlying writer so http.ResponseController can reach
// Flush and deadline controls through the middleware chain.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.URL.Path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(r.URL.Path, r.Method).Observe(duration)
	})
}
