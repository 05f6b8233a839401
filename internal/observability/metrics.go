package observability

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kravuar/arangate/internal/gateway"
	"github.com/kravuar/arangate/model"
)

// Histogram bucket definitions.
var (
	httpDurationBuckets  = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	storeDurationBuckets = []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
	bodySizeBuckets      = []float64{100, 1024, 10240, 102400, 1048576}
	batchSizeBuckets     = []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000}
)

// Metrics holds all Prometheus metric instruments for the gateway.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestSizeBytes  *prometheus.HistogramVec
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Batch metrics
	BatchesTotal  *prometheus.CounterVec
	BatchDuration *prometheus.HistogramVec
	BatchItems    *prometheus.HistogramVec

	// Item metrics
	ItemsTotal         *prometheus.CounterVec
	ItemDuration       *prometheus.HistogramVec
	ValidationFailures *prometheus.CounterVec

	// Store metrics
	StoreConnectionsTotal *prometheus.CounterVec
	StoreErrorsTotal      *prometheus.CounterVec
}

// InitMetrics creates and registers all Prometheus metric instruments.
func InitMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		// HTTP
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arangate_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arangate_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: httpDurationBuckets,
		}, []string{"method", "path_pattern"}),
		HTTPRequestSizeBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arangate_http_request_size_bytes",
			Help:    "HTTP request body size in bytes.",
			Buckets: bodySizeBuckets,
		}, []string{"method", "path_pattern"}),
		HTTPResponseSizeBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arangate_http_response_size_bytes",
			Help:    "HTTP response body size in bytes.",
			Buckets: bodySizeBuckets,
		}, []string{"method", "path_pattern"}),

		// Batches
		BatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arangate_batches_total",
			Help: "Total number of executed batches.",
		}, []string{"resource", "operation", "status"}),
		BatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arangate_batch_duration_seconds",
			Help:    "Batch execution duration in seconds.",
			Buckets: httpDurationBuckets,
		}, []string{"resource", "operation"}),
		BatchItems: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arangate_batch_items",
			Help:    "Number of input items per batch.",
			Buckets: batchSizeBuckets,
		}, []string{"resource", "operation"}),

		// Items
		ItemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arangate_items_total",
			Help: "Total number of processed batch items.",
		}, []string{"resource", "operation", "status"}),
		ItemDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arangate_item_duration_seconds",
			Help:    "Item processing duration in seconds.",
			Buckets: storeDurationBuckets,
		}, []string{"resource", "operation"}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arangate_validation_failures_total",
			Help: "Total number of parameter validation failures.",
		}, []string{"resource", "operation"}),

		// Store
		StoreConnectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arangate_store_connections_total",
			Help: "Total number of store connection attempts.",
		}, []string{"status"}),
		StoreErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arangate_store_errors_total",
			Help: "Total number of store errors by kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		// HTTP
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestSizeBytes,
		m.HTTPResponseSizeBytes,
		// Batches
		m.BatchesTotal,
		m.BatchDuration,
		m.BatchItems,
		// Items
		m.ItemsTotal,
		m.ItemDuration,
		m.ValidationFailures,
		// Store
		m.StoreConnectionsTotal,
		m.StoreErrorsTotal,
	)

	return m
}

// --- Recording helpers ---

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(method, pathPattern string, status int, duration time.Duration, reqSize, respSize int) {
	statusStr := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, pathPattern, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, pathPattern).Observe(duration.Seconds())
	m.HTTPRequestSizeBytes.WithLabelValues(method, pathPattern).Observe(float64(reqSize))
	m.HTTPResponseSizeBytes.WithLabelValues(method, pathPattern).Observe(float64(respSize))
}

// RecordBatch records batch-level execution metrics.
func (m *Metrics) RecordBatch(resource, operation, status string, items int, duration time.Duration) {
	m.BatchesTotal.WithLabelValues(resource, operation, status).Inc()
	m.BatchDuration.WithLabelValues(resource, operation).Observe(duration.Seconds())
	m.BatchItems.WithLabelValues(resource, operation).Observe(float64(items))
}

// RecordStoreConnection records a store connection attempt.
func (m *Metrics) RecordStoreConnection(status string) {
	m.StoreConnectionsTotal.WithLabelValues(status).Inc()
}

// RecordStoreError records a store error by taxonomy kind.
func (m *Metrics) RecordStoreError(kind string) {
	m.StoreErrorsTotal.WithLabelValues(kind).Inc()
}

// OnItemProcessed implements gateway.Observer, recording per-item outcomes.
func (m *Metrics) OnItemProcessed(_ context.Context, event gateway.ItemEvent) {
	m.ItemsTotal.WithLabelValues(event.Resource, event.Operation, string(event.State)).Inc()
	m.ItemDuration.WithLabelValues(event.Resource, event.Operation).Observe(event.Duration.Seconds())
	if event.State == gateway.StateFailed && event.ErrorKind == model.ErrValidation {
		m.ValidationFailures.WithLabelValues(event.Resource, event.Operation).Inc()
	}
}

// --- HTTP Middleware ---

// MetricsMiddleware returns HTTP middleware that records request metrics using
// chi's route pattern (not the actual URL path) to avoid label cardinality
// explosion.
func (m *Metrics) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &metricsResponseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		pathPattern := routePattern(r)
		reqSize := 0
		if r.ContentLength > 0 {
			reqSize = int(r.ContentLength)
		}

		m.RecordHTTPRequest(r.Method, pathPattern, sw.status, duration, reqSize, sw.bytes)
	})
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// routePattern extracts chi's route pattern from the request context.
// Falls back to the raw URL path if no pattern is found.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return r.URL.Path
	}
	pattern := strings.Join(rctx.RoutePatterns, "")
	// chi route patterns have trailing /*, remove it.
	pattern = strings.TrimSuffix(pattern, "/*")
	if pattern == "" {
		return r.URL.Path
	}
	return pattern
}

// metricsResponseWriter wraps http.ResponseWriter to capture status and bytes.
type metricsResponseWriter struct {
	http.ResponseWriter
	status  int
	bytes   int
	written bool
}

func (w *metricsResponseWriter) WriteHeader(code int) {
	if !w.written {
		w.status = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *metricsResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.written = true
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}
