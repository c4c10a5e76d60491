package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetOrderByGUID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	guid := uuid.New()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "guid", "customer_id", "total", "payment_status",
			"authorization_transaction_id", "capture_transaction_id", "created_at",
		}).AddRow(
			1, guid, 42, 36.0, "Paid", "", "pg-123", time.Now(),
		)

		mock.ExpectQuery(`SELECT id, guid, .* FROM orders WHERE guid = \$1`).
			WithArgs(guid).
			WillReturnRows(rows)

		o, err := repo.GetOrderByGUID(ctx, guid)
		assert.NoError(t, err)
		require.NotNil(t, o)
		assert.Equal(t, uint(1), o.ID)
		assert.Equal(t, "pg-123", o.CaptureTransactionID)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, guid, .* FROM orders WHERE guid = \$1`).
			WithArgs(guid).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		o, err := repo.GetOrderByGUID(ctx, guid)
		assert.NoError(t, err)
		assert.Nil(t, o)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, guid, .* FROM orders`).
			WillReturnError(errors.New("db error"))

		_, err := repo.GetOrderByGUID(ctx, guid)
		assert.Error(t, err)
	})
}

func TestRepository_CreateRecurringPaymentTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		payment := &RecurringPayment{
			InitialOrderID: 1,
			SubscriptionID: "7001",
			Active:         true,
			CreatedAt:      time.Now(),
		}

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO recurring_payments`).
			WithArgs(payment.InitialOrderID, payment.SubscriptionID, payment.Active, payment.CreatedAt).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
		mock.ExpectExec(`INSERT INTO recurring_payment_history`).
			WithArgs(uint(5), payment.InitialOrderID, payment.CreatedAt).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := repo.CreateRecurringPaymentTx(ctx, payment)
		assert.NoError(t, err)
		assert.Equal(t, uint(5), payment.ID)
	})

	t.Run("RollbackOnHistoryFailure", func(t *testing.T) {
		payment := &RecurringPayment{
			InitialOrderID: 1,
			SubscriptionID: "7001",
			Active:         true,
			CreatedAt:      time.Now(),
		}

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO recurring_payments`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
		mock.ExpectExec(`INSERT INTO recurring_payment_history`).
			WillReturnError(errors.New("constraint violation"))
		mock.ExpectRollback()

		err := repo.CreateRecurringPaymentTx(ctx, payment)
		assert.Error(t, err)
	})
}

func TestRepository_CreateRecurringOrderTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	cycleOrder := &Order{
		GUID:                         uuid.New(),
		CustomerID:                   42,
		Total:                        36,
		PaymentStatus:                "Paid",
		AuthorizationTransactionCode: "T12345",
		CaptureTransactionID:         "pg-456",
		CaptureTransactionResult:     "Approved",
		CreatedAt:                    time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(
			cycleOrder.GUID, cycleOrder.CustomerID, cycleOrder.Total,
			cycleOrder.PaymentStatus, cycleOrder.AuthorizationTransactionCode,
			cycleOrder.CaptureTransactionID, cycleOrder.CaptureTransactionResult,
			cycleOrder.CreatedAt,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectExec(`INSERT INTO recurring_payment_history`).
		WithArgs(uint(3), uint(9), cycleOrder.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = repo.CreateRecurringOrderTx(ctx, 3, cycleOrder)
	assert.NoError(t, err)
	assert.Equal(t, uint(9), cycleOrder.ID)
}

func TestRepository_GetRecurringPaymentOrders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{
		"id", "guid", "customer_id", "total", "payment_status",
		"capture_transaction_id", "created_at",
	}).
		AddRow(1, uuid.New(), 42, 36.0, "Paid", "pg-123", time.Now()).
		AddRow(9, uuid.New(), 42, 36.0, "Paid", "pg-456", time.Now())

	mock.ExpectQuery(`SELECT o.id, o.guid, .* FROM orders o JOIN recurring_payment_history h`).
		WithArgs(uint(3)).
		WillReturnRows(rows)

	orders, err := repo.GetRecurringPaymentOrders(ctx, 3)
	assert.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "pg-456", orders[1].CaptureTransactionID)
}

func TestRepository_SetRecurringPaymentError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE recurring_payments SET last_error = \$1`).
		WithArgs("qualpay error: recurring payment failed", sqlmock.AnyArg(), uint(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.SetRecurringPaymentError(context.Background(), 3, "qualpay error: recurring payment failed")
	assert.NoError(t, err)
}
