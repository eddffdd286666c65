package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-board/internal/config"
	"github.com/spec-kit/ticket-board/internal/events"
)

const (
	webhookTimeout   = 5 * time.Second
	webhookQueueSize = 64
)

// NotificationService logs board events and forwards them to an optional webhook.
// Handlers only enqueue; Run performs the deliveries.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	queue      chan events.Event
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		queue:      make(chan events.Event, webhookQueueSize),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventDataLoaded, n.handleDataLoaded)
	n.dispatcher.Subscribe(events.EventDataLoadFailed, n.handleDataLoadFailed)
	n.dispatcher.Subscribe(events.EventPreferenceChanged, n.handlePreferenceChanged)
}

func (n *NotificationService) handleDataLoaded(ctx context.Context, event events.Event) error {
	n.logger.Info("BoardDataLoaded", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	n.enqueueWebhook(event)
	return nil
}

func (n *NotificationService) handleDataLoadFailed(ctx context.Context, event events.Event) error {
	n.logger.Warn("BoardDataLoadFailed", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	n.enqueueWebhook(event)
	return nil
}

func (n *NotificationService) handlePreferenceChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("BoardPreferenceChanged", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	n.enqueueWebhook(event)
	return nil
}

// Run delivers queued webhook events until ctx is done. Failed deliveries are
// logged and not retried.
func (n *NotificationService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-n.queue:
			if err := n.deliverWebhook(event); err != nil {
				n.logger.Warn("webhook delivery failed", zap.String("event_type", string(event.Type)), zap.Error(err))
			}
		}
	}
}

func (n *NotificationService) enqueueWebhook(event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	select {
	case n.queue <- event:
	default:
		n.logger.Warn("webhook queue full; dropping event", zap.String("event_type", string(event.Type)))
	}
}

func (n *NotificationService) deliverWebhook(event events.Event) error {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	agent := fiber.Post(url).JSON(event).Timeout(webhookTimeout)
	status, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("webhook %s: %w", event.Type, errs[0])
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("webhook %s: unexpected status %d", event.Type, status)
	}
	n.logger.Debug("webhook delivered",
		zap.String("url", url),
		zap.String("event_type", string(event.Type)),
		zap.Int("status", status))
	return nil
}
