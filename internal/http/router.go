package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nnikochann/numero-tg/internal/metrics"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	numerologyH *NumerologyHandler,
	dialogH *DialogHandler,
	paymentH *PaymentHandler,
	reportH *ReportHandler,
	pingDB func(context.Context) error,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery, metricas y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), metrics.Middleware(), jsonContentTypeMiddleware())

	r.POST("/numerology", numerologyH.CalculateProfile)
	r.POST("/compatibility", numerologyH.CalculateCompatibility)

	r.POST("/dialog/message", dialogH.PostMessage)
	r.POST("/payments/yookassa", paymentH.Webhook)

	reports := r.Group("/reports")
	reports.GET("/:id/download", reportH.Download)

	r.GET("/healthz", func(c *gin.Context) {
		if pingDB != nil {
			if err := pingDB(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "database unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
