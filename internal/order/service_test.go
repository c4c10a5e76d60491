package order

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	getOrderByGUID                    func(ctx context.Context, guid uuid.UUID) (*Order, error)
	getRecurringPaymentByInitialOrder func(ctx context.Context, orderID uint) (*RecurringPayment, error)
	getRecurringPaymentOrders         func(ctx context.Context, recurringPaymentID uint) ([]*Order, error)
	createRecurringPaymentTx          func(ctx context.Context, payment *RecurringPayment) error
	createRecurringOrderTx            func(ctx context.Context, recurringPaymentID uint, order *Order) error
	setRecurringPaymentError          func(ctx context.Context, recurringPaymentID uint, lastError string) error
}

func (f *fakeRepository) GetOrderByGUID(ctx context.Context, guid uuid.UUID) (*Order, error) {
	return f.getOrderByGUID(ctx, guid)
}

func (f *fakeRepository) GetRecurringPaymentByInitialOrder(ctx context.Context, orderID uint) (*RecurringPayment, error) {
	return f.getRecurringPaymentByInitialOrder(ctx, orderID)
}

func (f *fakeRepository) GetRecurringPaymentOrders(ctx context.Context, recurringPaymentID uint) ([]*Order, error) {
	return f.getRecurringPaymentOrders(ctx, recurringPaymentID)
}

func (f *fakeRepository) CreateRecurringPaymentTx(ctx context.Context, payment *RecurringPayment) error {
	return f.createRecurringPaymentTx(ctx, payment)
}

func (f *fakeRepository) CreateRecurringOrderTx(ctx context.Context, recurringPaymentID uint, order *Order) error {
	return f.createRecurringOrderTx(ctx, recurringPaymentID, order)
}

func (f *fakeRepository) SetRecurringPaymentError(ctx context.Context, recurringPaymentID uint, lastError string) error {
	return f.setRecurringPaymentError(ctx, recurringPaymentID, lastError)
}

func TestRegisterRecurringPayment(t *testing.T) {
	ctx := context.Background()
	guid := uuid.New()

	t.Run("records the initial order as the first cycle", func(t *testing.T) {
		var created *RecurringPayment
		repo := &fakeRepository{
			getOrderByGUID: func(_ context.Context, g uuid.UUID) (*Order, error) {
				assert.Equal(t, guid, g)
				return &Order{ID: 1, GUID: g, CustomerID: 42}, nil
			},
			createRecurringPaymentTx: func(_ context.Context, payment *RecurringPayment) error {
				created = payment
				return nil
			},
		}

		err := NewService(repo).RegisterRecurringPayment(ctx, guid, "7001")

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, uint(1), created.InitialOrderID)
		assert.Equal(t, "7001", created.SubscriptionID)
		assert.True(t, created.Active)
	})

	t.Run("unknown order guid", func(t *testing.T) {
		repo := &fakeRepository{
			getOrderByGUID: func(context.Context, uuid.UUID) (*Order, error) {
				return nil, nil
			},
		}

		err := NewService(repo).RegisterRecurringPayment(ctx, guid, "7001")

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestAdvanceRecurringPayment(t *testing.T) {
	ctx := context.Background()
	initialOrder := &Order{ID: 1, GUID: uuid.New(), CustomerID: 42, Total: 36}

	t.Run("clones the initial order as a paid cycle", func(t *testing.T) {
		var insertedInto uint
		var cycleOrder *Order
		repo := &fakeRepository{
			getRecurringPaymentByInitialOrder: func(_ context.Context, orderID uint) (*RecurringPayment, error) {
				assert.Equal(t, uint(1), orderID)
				return &RecurringPayment{ID: 3, InitialOrderID: 1, SubscriptionID: "7001"}, nil
			},
			createRecurringOrderTx: func(_ context.Context, recurringPaymentID uint, order *Order) error {
				insertedInto = recurringPaymentID
				cycleOrder = order
				return nil
			},
		}

		err := NewService(repo).AdvanceRecurringPayment(ctx, initialOrder, ChargeResult{
			TransactionID:     "pg-456",
			AuthCode:          "T12345",
			TransactionResult: "Transaction is S",
		})

		require.NoError(t, err)
		assert.Equal(t, uint(3), insertedInto)
		require.NotNil(t, cycleOrder)
		assert.Equal(t, uint(42), cycleOrder.CustomerID)
		assert.Equal(t, 36.0, cycleOrder.Total)
		assert.Equal(t, "Paid", cycleOrder.PaymentStatus)
		assert.Equal(t, "T12345", cycleOrder.AuthorizationTransactionCode)
		assert.Equal(t, "pg-456", cycleOrder.CaptureTransactionID)
		assert.NotEqual(t, initialOrder.GUID, cycleOrder.GUID)
	})

	t.Run("order without a subscription", func(t *testing.T) {
		repo := &fakeRepository{
			getRecurringPaymentByInitialOrder: func(context.Context, uint) (*RecurringPayment, error) {
				return nil, nil
			},
		}

		err := NewService(repo).AdvanceRecurringPayment(ctx, initialOrder, ChargeResult{})

		assert.ErrorIs(t, err, ErrNoRecurringPayment)
	})
}

func TestMarkRecurringPaymentFailed(t *testing.T) {
	ctx := context.Background()
	initialOrder := &Order{ID: 1}

	t.Run("stores the failure reason", func(t *testing.T) {
		var storedReason string
		repo := &fakeRepository{
			getRecurringPaymentByInitialOrder: func(context.Context, uint) (*RecurringPayment, error) {
				return &RecurringPayment{ID: 3, SubscriptionID: "7001"}, nil
			},
			setRecurringPaymentError: func(_ context.Context, recurringPaymentID uint, lastError string) error {
				assert.Equal(t, uint(3), recurringPaymentID)
				storedReason = lastError
				return nil
			},
		}

		err := NewService(repo).MarkRecurringPaymentFailed(ctx, initialOrder, "qualpay error: recurring payment failed")

		require.NoError(t, err)
		assert.Equal(t, "qualpay error: recurring payment failed", storedReason)
	})

	t.Run("propagates repository failure", func(t *testing.T) {
		repo := &fakeRepository{
			getRecurringPaymentByInitialOrder: func(context.Context, uint) (*RecurringPayment, error) {
				return nil, errors.New("db error")
			},
		}

		err := NewService(repo).MarkRecurringPaymentFailed(ctx, initialOrder, "reason")

		assert.Error(t, err)
	})
}
