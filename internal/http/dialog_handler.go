package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nnikochann/numero-tg/internal/service"
)

// DialogHandler recibe los mensajes de la plataforma de chat y delega en la
// máquina de estados del diálogo.
type DialogHandler struct {
	logger *zap.Logger
	dialog *service.DialogService
}

func NewDialogHandler(logger *zap.Logger, dialog *service.DialogService) *DialogHandler {
	return &DialogHandler{logger: logger, dialog: dialog}
}

// PostMessage maneja POST /dialog/message.
func (h *DialogHandler) PostMessage(c *gin.Context) {
	var req struct {
		ChatID int64  `json:"chat_id" binding:"required"`
		Text   string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid dialog message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	reply, err := h.dialog.HandleMessage(c.Request.Context(), req.ChatID, req.Text)
	if err != nil {
		h.logger.Error("dialog message failed", zap.Error(err), zap.Int64("chat_id", req.ChatID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chat_id": req.ChatID, "reply": reply})
}
