package webhook

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"oakmart-be/internal/order"
	"oakmart-be/internal/qualpay"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHandler(t *testing.T) {
	verifier := NewVerifier(webhookSecret)

	t.Run("bad signature still answers 200", func(t *testing.T) {
		handler := NewHandler(verifier, NewDispatcher(&fakeWorkflow{}, &fakePlatform{}))
		body := []byte(`{"event":"subscription_payment_success"}`)

		request := httptest.NewRequest("POST", "/webhook/qualpay", bytes.NewReader(body))
		request.Header.Set(SignatureHeader, "bm90IGEgcmVhbCBzaWduYXR1cmU=")
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("verified event reaches the dispatcher", func(t *testing.T) {
		var dispatched bool
		workflow := &fakeWorkflow{
			getOrderByGUID: func(context.Context, uuid.UUID) (*order.Order, error) {
				dispatched = true
				return nil, nil
			},
		}
		handler := NewHandler(verifier, NewDispatcher(workflow, &fakePlatform{}))

		body := []byte(`{"event":"subscription_payment_success","data":{"subscription_id":7001,"plan_desc":"` + uuid.NewString() + `"}}`)
		request := httptest.NewRequest("POST", "/webhook/qualpay", bytes.NewReader(body))
		request.Header.Set(SignatureHeader, sign(webhookSecret, body))
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.True(t, dispatched)
	})

	t.Run("processing failure still answers 200", func(t *testing.T) {
		workflow := &fakeWorkflow{
			getOrderByGUID: func(context.Context, uuid.UUID) (*order.Order, error) {
				return &order.Order{ID: 1}, nil
			},
		}
		platform := &fakePlatform{
			getSubscriptionTransactions: func(context.Context, int64) ([]qualpay.Transaction, error) {
				return nil, assert.AnError
			},
		}
		handler := NewHandler(verifier, NewDispatcher(workflow, platform))

		body := []byte(`{"event":"subscription_payment_success","data":{"subscription_id":7001,"plan_desc":"` + uuid.NewString() + `"}}`)
		request := httptest.NewRequest("POST", "/webhook/qualpay", bytes.NewReader(body))
		request.Header.Set(SignatureHeader, sign(webhookSecret, body))
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

type fakeAdmin struct {
	getWebhook func(ctx context.Context, webhookID int64) (*qualpay.Webhook, error)
	addWebhook func(ctx context.Context, request qualpay.Webhook) (*qualpay.Webhook, error)
}

func (f *fakeAdmin) GetWebhook(ctx context.Context, webhookID int64) (*qualpay.Webhook, error) {
	return f.getWebhook(ctx, webhookID)
}

func (f *fakeAdmin) AddWebhook(ctx context.Context, request qualpay.Webhook) (*qualpay.Webhook, error) {
	return f.addWebhook(ctx, request)
}

func TestRegistrarEnsure(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps a configured active webhook", func(t *testing.T) {
		admin := &fakeAdmin{
			getWebhook: func(_ context.Context, webhookID int64) (*qualpay.Webhook, error) {
				assert.Equal(t, int64(31), webhookID)
				return &qualpay.Webhook{WebhookID: 31, Status: statusActive}, nil
			},
			addWebhook: func(context.Context, qualpay.Webhook) (*qualpay.Webhook, error) {
				t.Fatal("an active webhook must not be re-registered")
				return nil, nil
			},
		}

		webhook, err := NewRegistrar(admin).Ensure(ctx, "31", "https://oakmart.example/webhook/qualpay")

		assert.NoError(t, err)
		assert.Equal(t, int64(31), webhook.WebhookID)
	})

	t.Run("replaces an inactive webhook", func(t *testing.T) {
		var created qualpay.Webhook
		admin := &fakeAdmin{
			getWebhook: func(context.Context, int64) (*qualpay.Webhook, error) {
				return &qualpay.Webhook{WebhookID: 31, Status: "DISABLED"}, nil
			},
			addWebhook: func(_ context.Context, request qualpay.Webhook) (*qualpay.Webhook, error) {
				created = request
				return &qualpay.Webhook{WebhookID: 32, Status: statusActive, Secret: "new-secret"}, nil
			},
		}

		webhook, err := NewRegistrar(admin).Ensure(ctx, "31", "https://oakmart.example/webhook/qualpay")

		assert.NoError(t, err)
		assert.Equal(t, int64(32), webhook.WebhookID)
		assert.Equal(t, "new-secret", webhook.Secret)
		assert.Equal(t, statusActive, created.Status)
		assert.ElementsMatch(t, subscriptionEvents, created.Events)
		assert.Equal(t, "https://oakmart.example/webhook/qualpay", created.NotificationURL)
	})

	t.Run("registers when no id is configured", func(t *testing.T) {
		admin := &fakeAdmin{
			addWebhook: func(context.Context, qualpay.Webhook) (*qualpay.Webhook, error) {
				return &qualpay.Webhook{WebhookID: 33, Status: statusActive}, nil
			},
		}

		webhook, err := NewRegistrar(admin).Ensure(ctx, "", "https://oakmart.example/webhook/qualpay")

		assert.NoError(t, err)
		assert.Equal(t, int64(33), webhook.WebhookID)
	})
}
