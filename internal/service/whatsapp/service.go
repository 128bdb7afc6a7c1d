package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/config"
	"github.com/mamadbah2/dairy/internal/domain/models"
	client "github.com/mamadbah2/dairy/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// MessagingService describes the outbound messages the farm can push.
type MessagingService interface {
	SendOutbound(ctx context.Context, req models.OutboundMessage) error
	NotifyManager(ctx context.Context, message string) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
// Without a client every send is logged and dropped.
type MetaWhatsAppService struct {
	cfg    config.WhatsAppConfig
	client client.Client
	logger *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance. client may be nil when
// WhatsApp is not configured.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// Enabled reports whether messages actually leave the process.
func (s *MetaWhatsAppService) Enabled() bool {
	return s.client != nil
}

// SendOutbound pushes a text to the given phone number.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessage) error {
	if strings.TrimSpace(req.To) == "" || strings.TrimSpace(req.Message) == "" {
		return fmt.Errorf("%w: recipient and message are required", models.ErrInvalidInput)
	}
	if !s.Enabled() {
		s.logger.Info("whatsapp disabled, message dropped", zap.String("to", req.To))
		return nil
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	if err != nil {
		return err
	}
	if len(resp.Messages) > 0 {
		s.logger.Debug("whatsapp message sent", zap.String("to", req.To), zap.String("message_id", resp.Messages[0].ID))
	}
	return nil
}

// NotifyManager sends message to the configured farm manager.
func (s *MetaWhatsAppService) NotifyManager(ctx context.Context, message string) error {
	if s.cfg.ManagerPhone == "" {
		if !s.Enabled() {
			s.logger.Info("whatsapp disabled, manager message dropped")
			return nil
		}
		return errors.New("manager phone is not configured")
	}
	return s.SendOutbound(ctx, models.OutboundMessage{To: s.cfg.ManagerPhone, Message: message})
}

// FormatUnpaidBills renders the unpaid bill list as one chat message.
func FormatUnpaidBills(notifications []models.Notification) string {
	if len(notifications) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Unpaid bills (%d)", len(notifications))
	for _, n := range notifications {
		fmt.Fprintf(&b, "\n- %s (last entry %s)", n.Message, n.LastEntryDate.Format(models.DateLayout))
	}
	return b.String()
}
