package order

import (
	"context"
	"errors"
	"time"

	"oakmart-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrOrderNotFound is returned when a correlation id matches no order.
var ErrOrderNotFound = errors.New("order not found")

// ErrNoRecurringPayment is returned when an order has no subscription
// attached.
var ErrNoRecurringPayment = errors.New("recurring payment not found")

type Service interface {
	GetOrderByGUID(ctx context.Context, guid uuid.UUID) (*Order, error)
	GetRecurringPaymentOrders(ctx context.Context, initialOrderID uint) ([]*Order, error)
	RegisterRecurringPayment(ctx context.Context, orderGUID uuid.UUID, subscriptionID string) error
	AdvanceRecurringPayment(ctx context.Context, initialOrder *Order, charge ChargeResult) error
	MarkRecurringPaymentFailed(ctx context.Context, initialOrder *Order, reason string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetOrderByGUID(ctx context.Context, guid uuid.UUID) (*Order, error) {
	return s.repo.GetOrderByGUID(ctx, guid)
}

func (s *service) GetRecurringPaymentOrders(ctx context.Context, initialOrderID uint) ([]*Order, error) {
	payment, err := s.repo.GetRecurringPaymentByInitialOrder(ctx, initialOrderID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrNoRecurringPayment
	}
	return s.repo.GetRecurringPaymentOrders(ctx, payment.ID)
}

// RegisterRecurringPayment attaches a freshly created subscription to its
// initial order. The initial purchase counts as the first settled cycle,
// so it is recorded in the series immediately.
func (s *service) RegisterRecurringPayment(ctx context.Context, orderGUID uuid.UUID, subscriptionID string) error {
	initialOrder, err := s.repo.GetOrderByGUID(ctx, orderGUID)
	if err != nil {
		return err
	}
	if initialOrder == nil {
		return ErrOrderNotFound
	}

	payment := &RecurringPayment{
		InitialOrderID: initialOrder.ID,
		SubscriptionID: subscriptionID,
		Active:         true,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.CreateRecurringPaymentTx(ctx, payment); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("recurring payment registered",
		zap.String("order_guid", orderGUID.String()),
		zap.String("subscription_id", subscriptionID),
	)
	return nil
}

// AdvanceRecurringPayment records one settled cycle as a new paid order
// in the series, cloned from the initial order.
func (s *service) AdvanceRecurringPayment(ctx context.Context, initialOrder *Order, charge ChargeResult) error {
	payment, err := s.repo.GetRecurringPaymentByInitialOrder(ctx, initialOrder.ID)
	if err != nil {
		return err
	}
	if payment == nil {
		return ErrNoRecurringPayment
	}

	cycleOrder := &Order{
		GUID:                         uuid.New(),
		CustomerID:                   initialOrder.CustomerID,
		Total:                        initialOrder.Total,
		PaymentStatus:                "Paid",
		AuthorizationTransactionCode: charge.AuthCode,
		CaptureTransactionID:         charge.TransactionID,
		CaptureTransactionResult:     charge.TransactionResult,
		CreatedAt:                    time.Now(),
	}
	if err := s.repo.CreateRecurringOrderTx(ctx, payment.ID, cycleOrder); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("recurring payment advanced",
		zap.String("subscription_id", payment.SubscriptionID),
		zap.String("capture_transaction_id", charge.TransactionID),
	)
	return nil
}

// MarkRecurringPaymentFailed records a failed cycle so support can follow
// up; the subscription itself stays active on the provider side.
func (s *service) MarkRecurringPaymentFailed(ctx context.Context, initialOrder *Order, reason string) error {
	payment, err := s.repo.GetRecurringPaymentByInitialOrder(ctx, initialOrder.ID)
	if err != nil {
		return err
	}
	if payment == nil {
		return ErrNoRecurringPayment
	}

	if err := s.repo.SetRecurringPaymentError(ctx, payment.ID, reason); err != nil {
		return err
	}

	logger.FromCtx(ctx).Warn("recurring payment cycle failed",
		zap.String("subscription_id", payment.SubscriptionID),
		zap.String("reason", reason),
	)
	return nil
}
