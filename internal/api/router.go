package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invoice-gateway/internal/logging"
	"invoice-gateway/internal/metrics"
)

const requestIDHeader = "X-Request-Id"

func SetupRouter(h *Handler, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	router.GET("/liveness", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/invoice/fields", h.outputFields)
		v1.GET("/invoice/sample", h.sample)

		stores := v1.Group("/stores/:storeId/invoices")
		stores.GET("", h.listInvoices)
		stores.POST("", h.createInvoice)
		stores.GET("/:invoiceId", h.getInvoice)
		stores.POST("/:invoiceId/status", h.setInvoiceStatus)
	}

	router.POST("/hooks/stores/:storeId/invoices", h.invoiceWebhook)

	return router
}

// requestLogger tags the request context with a request id and logs the outcome.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(requestIDHeader, requestID)

		ctx := logging.AppendCtx(c.Request.Context(), slog.String("requestId", requestID))
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		logger.InfoContext(ctx, "Handled request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"durationMs", time.Since(startTime).Milliseconds(),
		)
	}
}
