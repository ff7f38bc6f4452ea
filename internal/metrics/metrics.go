package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "numero",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "numero",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// InterpretRequestsTotal cuenta llamadas al webhook de interpretación.
	InterpretRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "numero",
			Name:      "interpret_requests_total",
			Help:      "Total interpretation webhook requests",
		},
		[]string{"report_type", "status"},
	)

	// ReportsGeneratedTotal cuenta reportes generados por tipo.
	ReportsGeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "numero",
			Name:      "reports_generated_total",
			Help:      "Total reports generated",
		},
		[]string{"report_type"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(InterpretRequestsTotal)
	prometheus.MustRegister(ReportsGeneratedTotal)
}

// Middleware registra duración y conteo de requests HTTP. Usa la ruta
// registrada en gin (no la URL cruda) para acotar la cardinalidad.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
