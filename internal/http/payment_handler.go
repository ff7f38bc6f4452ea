package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nnikochann/numero-tg/internal/notify"
	"github.com/nnikochann/numero-tg/internal/service"
)

// paymentEvent es la notificación del proveedor. El order_id viaja en la
// metadata que nosotros mismos adjuntamos al crear el pago.
type paymentEvent struct {
	Event  string `json:"event"`
	Object struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Metadata struct {
			OrderID string `json:"order_id"`
		} `json:"metadata"`
	} `json:"object"`
}

// PaymentHandler procesa los webhooks del proveedor de pagos y notifica al
// usuario cuando su compra queda entregada.
type PaymentHandler struct {
	logger   *zap.Logger
	orders   *service.OrderService
	sender   notify.Sender
	secret   string
	testMode bool
}

func NewPaymentHandler(
	logger *zap.Logger,
	orders *service.OrderService,
	sender notify.Sender,
	secret string,
	testMode bool,
) *PaymentHandler {
	return &PaymentHandler{
		logger:   logger,
		orders:   orders,
		sender:   sender,
		secret:   secret,
		testMode: testMode,
	}
}

// Webhook maneja POST /payments/yookassa.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read body"})
		return
	}

	if !h.verifySignature(c.GetHeader("X-Signature"), body) {
		h.logger.Warn("payment webhook signature rejected", zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var event paymentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Warn("invalid payment webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	// Solo nos interesa el pago confirmado; el resto se reconoce con 200
	// para que el proveedor no reintente.
	if event.Event != "payment.succeeded" || event.Object.Status != "succeeded" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	orderID, err := strconv.ParseInt(event.Object.Metadata.OrderID, 10, 64)
	if err != nil {
		h.logger.Warn("payment webhook without order_id", zap.String("payment_id", event.Object.ID))
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing order_id in metadata"})
		return
	}

	tgID, message, err := h.orders.HandlePaymentSucceeded(c.Request.Context(), orderID, event.Object.ID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		h.logger.Error("payment processing failed", zap.Error(err), zap.Int64("order_id", orderID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process payment"})
		return
	}

	// La notificación no debe tumbar el webhook: el pago ya quedó asentado.
	if message != "" {
		if err := h.sender.SendMessage(c.Request.Context(), tgID, message); err != nil {
			h.logger.Warn("payment notification failed", zap.Error(err), zap.Int64("order_id", orderID))
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}

// verifySignature valida el HMAC-SHA256 del cuerpo crudo contra X-Signature.
// En modo de pruebas la verificación se omite.
func (h *PaymentHandler) verifySignature(signature string, body []byte) bool {
	if h.testMode {
		return true
	}
	if signature == "" || h.secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}
