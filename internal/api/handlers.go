package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"invoice-gateway/internal/invoice"
	"invoice-gateway/internal/trigger"
	"invoice-gateway/internal/webhook"
)

type Handler struct {
	gateway   *invoice.Gateway
	trigger   *trigger.Trigger
	serverURL string
	logger    *slog.Logger
}

func NewHandler(gateway *invoice.Gateway, trigger *trigger.Trigger, serverURL string, logger *slog.Logger) *Handler {
	return &Handler{
		gateway:   gateway,
		trigger:   trigger,
		serverURL: serverURL,
		logger:    logger,
	}
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) getInvoice(c *gin.Context) {
	record, err := h.gateway.FetchByID(c.Request.Context(), h.serverURL, c.Param("storeId"), c.Param("invoiceId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) listInvoices(c *gin.Context) {
	records, err := h.gateway.ListRecent(c.Request.Context(), h.serverURL, c.Param("storeId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) createInvoice(c *gin.Context) {
	var req invoice.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	record, err := h.gateway.Create(c.Request.Context(), h.serverURL, c.Param("storeId"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) setInvoiceStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	record, err := h.gateway.SetStatus(c.Request.Context(), h.serverURL, c.Param("storeId"), c.Param("invoiceId"), req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) invoiceWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading request body"})
		return
	}

	records, err := h.trigger.PerformForOne(c.Request.Context(), trigger.Request{
		StoreID:   c.Param("storeId"),
		Signature: c.GetHeader(webhook.SignatureHeader),
		Body:      body,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) outputFields(c *gin.Context) {
	c.JSON(http.StatusOK, invoice.OutputFields)
}

func (h *Handler) sample(c *gin.Context) {
	c.JSON(http.StatusOK, invoice.Sample())
}

func (h *Handler) respondError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	if e, ok := invoice.AsError(err); ok {
		c.JSON(statusFor(e.Kind), e)
		return
	}

	var unverified *trigger.UnverifiedError
	switch {
	case errors.As(err, &unverified):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, webhook.ErrMalformedEvent), errors.Is(err, webhook.ErrMissingInvoiceID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.ErrorContext(ctx, "Error calling Greenfield API", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

func statusFor(kind invoice.Kind) int {
	switch kind {
	case invoice.KindNotFound:
		return http.StatusNotFound
	case invoice.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}
