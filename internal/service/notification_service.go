package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/tour-booking-service/internal/config"
	"github.com/spec-kit/tour-booking-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRegistrationCreated, n.handleRegistrationCreated)
	n.dispatcher.Subscribe(events.EventRegistrationStatusChanged, n.handleRegistrationStatusChanged)
	n.dispatcher.Subscribe(events.EventRegistrationRescheduled, n.handleRegistrationRescheduled)
	n.dispatcher.Subscribe(events.EventRegistrationCancelled, n.handleRegistrationCancelled)
	n.dispatcher.Subscribe(events.EventReviewCreated, n.handleReviewCreated)
}

func (n *NotificationService) handleRegistrationCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("RegistrationCreated", zap.Int64("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRegistrationStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("RegistrationStatusChanged", zap.Int64("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRegistrationRescheduled(ctx context.Context, event events.Event) error {
	n.logger.Info("RegistrationRescheduled", zap.Int64("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRegistrationCancelled(ctx context.Context, event events.Event) error {
	n.logger.Info("RegistrationCancelled", zap.Int64("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleReviewCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("ReviewCreated", zap.Int64("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
