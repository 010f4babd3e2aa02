package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"schema-forge/internal/schema"
)

// PrometheusMetrics holds all Prometheus metrics
type PrometheusMetrics struct {
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec
	HttpRequestSize     *prometheus.HistogramVec

	// Validation metrics
	ValidationsTotal *prometheus.CounterVec
	RegisteredModels prometheus.Gauge
}

var (
	metrics     *PrometheusMetrics
	metricsOnce sync.Once
)

// InitMetrics initializes the metrics on the default registry
func InitMetrics() *PrometheusMetrics {
	metricsOnce.Do(func() {
		metrics = NewPrometheusMetrics(prometheus.DefaultRegisterer)
	})
	return metrics
}

// NewPrometheusMetrics registers the metrics on reg
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		HttpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schema_forge_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HttpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "schema_forge_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		HttpRequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "schema_forge_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),

		ValidationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schema_forge_validations_total",
				Help: "Total number of payload validations",
			},
			[]string{"model", "variant", "result"},
		),
		RegisteredModels: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "schema_forge_registered_models",
				Help: "Number of models served by the validation API",
			},
		),
	}
}

// GetMetrics returns the initialized metrics
func GetMetrics() *PrometheusMetrics {
	return metrics
}

// ObserveValidation records the outcome of one payload validation
func (m *PrometheusMetrics) ObserveValidation(model string, variant schema.Variant, valid bool) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	m.ValidationsTotal.WithLabelValues(model, string(variant), result).Inc()
}

// SetRegisteredModels updates the registered model gauge
func (m *PrometheusMetrics) SetRegisteredModels(n int) {
	m.RegisteredModels.Set(float64(n))
}

// PrometheusMiddleware is a Gin middleware that records HTTP metrics
func PrometheusMiddleware(m *PrometheusMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		m.HttpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
		m.HttpRequestDuration.WithLabelValues(method, endpoint).Observe(duration)

		if c.Request.ContentLength > 0 {
			m.HttpRequestSize.WithLabelValues(method, endpoint).Observe(float64(c.Request.ContentLength))
		}
	}
}
