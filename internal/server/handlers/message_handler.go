package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/domain/models"
	service "github.com/mamadbah2/dairy/internal/service/whatsapp"
)

// MessageHandler lets operators push WhatsApp messages by hand.
type MessageHandler struct {
	svc    service.MessagingService
	logger *zap.Logger
}

// NewMessageHandler constructs the HTTP handler adapter.
func NewMessageHandler(svc service.MessagingService, logger *zap.Logger) *MessageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageHandler{svc: svc, logger: logger}
}

// SendMessage sends an outbound text.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessage
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid outbound payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.SendOutbound(c.Request.Context(), req); err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed sending outbound", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
		return
	}

	c.Status(http.StatusAccepted)
}
