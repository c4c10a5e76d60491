package webhook

import (
	"context"
	"strconv"

	"oakmart-be/internal/logger"
	"oakmart-be/internal/qualpay"

	"go.uber.org/zap"
)

const webhookLabel = "oakmart-be"

// statusActive is the only state in which the provider delivers events.
const statusActive = "ACTIVE"

var subscriptionEvents = []string{
	EventPaymentSuccess,
	EventPaymentFailure,
	EventValidateURL,
}

// WebhookAdmin is the provider's webhook management surface.
type WebhookAdmin interface {
	GetWebhook(ctx context.Context, webhookID int64) (*qualpay.Webhook, error)
	AddWebhook(ctx context.Context, request qualpay.Webhook) (*qualpay.Webhook, error)
}

// Registrar makes sure an active webhook covering the subscription events
// exists, creating one when the configured id is absent or stale. The
// returned webhook carries the signing secret on creation.
type Registrar struct {
	admin WebhookAdmin
}

func NewRegistrar(admin WebhookAdmin) *Registrar {
	return &Registrar{admin: admin}
}

func (r *Registrar) Ensure(ctx context.Context, configuredID, notificationURL string) (*qualpay.Webhook, error) {
	log := logger.FromCtx(ctx)

	if configuredID != "" {
		webhookID, err := strconv.ParseInt(configuredID, 10, 64)
		if err == nil {
			existing, err := r.admin.GetWebhook(ctx, webhookID)
			if err == nil && existing != nil && existing.Status == statusActive {
				return existing, nil
			}
			log.Warn("configured webhook is unusable, registering a new one",
				zap.String("webhook_id", configuredID),
				zap.Error(err),
			)
		}
	}

	created, err := r.admin.AddWebhook(ctx, qualpay.Webhook{
		Label:           webhookLabel,
		NotificationURL: notificationURL,
		Events:          subscriptionEvents,
		Status:          statusActive,
	})
	if err != nil {
		return nil, err
	}

	log.Info("webhook registered",
		zap.Int64("webhook_id", created.WebhookID),
		zap.String("notification_url", notificationURL),
	)
	return created, nil
}
