package webhook

import (
	"context"
	"strings"

	"oakmart-be/internal/logger"
	"oakmart-be/internal/order"
	"oakmart-be/internal/qualpay"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Provider event names.
const (
	EventPaymentSuccess = "subscription_payment_success"
	EventPaymentFailure = "subscription_payment_failure"
	EventValidateURL    = "validate_url"
)

// OrderWorkflow is the slice of the store's order processing a
// notification can drive.
type OrderWorkflow interface {
	GetOrderByGUID(ctx context.Context, guid uuid.UUID) (*order.Order, error)
	GetRecurringPaymentOrders(ctx context.Context, initialOrderID uint) ([]*order.Order, error)
	AdvanceRecurringPayment(ctx context.Context, initialOrder *order.Order, charge order.ChargeResult) error
	MarkRecurringPaymentFailed(ctx context.Context, initialOrder *order.Order, reason string) error
}

// SubscriptionReader fetches the settled charges behind a success event.
type SubscriptionReader interface {
	GetSubscriptionTransactions(ctx context.Context, subscriptionID int64) ([]qualpay.Transaction, error)
}

// Dispatcher routes verified subscription events into the order workflow.
// Events that cannot be correlated to an order are dropped without error;
// the provider retries on non-2xx and a retry cannot fix a bad reference.
type Dispatcher struct {
	orders   OrderWorkflow
	platform SubscriptionReader
}

func NewDispatcher(orders OrderWorkflow, platform SubscriptionReader) *Dispatcher {
	return &Dispatcher{orders: orders, platform: platform}
}

func (d *Dispatcher) Dispatch(ctx context.Context, event *qualpay.WebhookEvent[qualpay.Subscription]) error {
	log := logger.FromCtx(ctx)

	switch event.Event {
	case EventValidateURL:
		return nil

	case EventPaymentSuccess, EventPaymentFailure:
		initialOrder, ok := d.resolveOrder(ctx, event.Data.PlanDesc)
		if !ok {
			return nil
		}
		if event.Event == EventPaymentFailure {
			return d.orders.MarkRecurringPaymentFailed(ctx, initialOrder, "qualpay error: recurring payment failed")
		}
		return d.advance(ctx, initialOrder, event.Data.SubscriptionID)

	default:
		log.Debug("ignoring webhook event", zap.String("event", event.Event))
		return nil
	}
}

// resolveOrder maps the subscription's plan description back to the order
// that created it.
func (d *Dispatcher) resolveOrder(ctx context.Context, planDesc string) (*order.Order, bool) {
	log := logger.FromCtx(ctx)

	guid, err := uuid.Parse(planDesc)
	if err != nil {
		log.Warn("webhook plan description is not an order reference", zap.String("plan_desc", planDesc))
		return nil, false
	}

	initialOrder, err := d.orders.GetOrderByGUID(ctx, guid)
	if err != nil {
		log.Error("order lookup failed for webhook", zap.String("order_guid", guid.String()), zap.Error(err))
		return nil, false
	}
	if initialOrder == nil {
		log.Warn("webhook references an unknown order", zap.String("order_guid", guid.String()))
		return nil, false
	}
	return initialOrder, true
}

func (d *Dispatcher) advance(ctx context.Context, initialOrder *order.Order, subscriptionID int64) error {
	log := logger.FromCtx(ctx)

	transactions, err := d.platform.GetSubscriptionTransactions(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if len(transactions) == 0 {
		log.Warn("success event without settled transactions", zap.Int64("subscription_id", subscriptionID))
		return nil
	}
	latest := transactions[0]

	// the provider redelivers events; a cycle already recorded under this
	// transaction id must not produce a second order
	recorded, err := d.orders.GetRecurringPaymentOrders(ctx, initialOrder.ID)
	if err != nil {
		return err
	}
	for _, cycle := range recorded {
		if strings.EqualFold(cycle.CaptureTransactionID, latest.PgID) {
			log.Info("webhook redelivery ignored", zap.String("capture_transaction_id", latest.PgID))
			return nil
		}
	}

	return d.orders.AdvanceRecurringPayment(ctx, initialOrder, order.ChargeResult{
		TransactionID:     latest.PgID,
		AuthCode:          latest.AuthCode,
		TransactionResult: "Transaction is " + latest.TranStatus,
	})
}
