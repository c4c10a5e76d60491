package order

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	GetOrderByGUID(ctx context.Context, guid uuid.UUID) (*Order, error)
	GetRecurringPaymentByInitialOrder(ctx context.Context, orderID uint) (*RecurringPayment, error)
	GetRecurringPaymentOrders(ctx context.Context, recurringPaymentID uint) ([]*Order, error)

	CreateRecurringPaymentTx(ctx context.Context, payment *RecurringPayment) error
	CreateRecurringOrderTx(ctx context.Context, recurringPaymentID uint, order *Order) error
	SetRecurringPaymentError(ctx context.Context, recurringPaymentID uint, lastError string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrderByGUID(ctx context.Context, guid uuid.UUID) (*Order, error) {
	query := `
		SELECT id, guid, customer_id, total, payment_status,
		       authorization_transaction_id, capture_transaction_id, created_at
		FROM orders
		WHERE guid = $1
	`

	var o Order
	err := r.db.QueryRowContext(ctx, query, guid).Scan(
		&o.ID,
		&o.GUID,
		&o.CustomerID,
		&o.Total,
		&o.PaymentStatus,
		&o.AuthorizationTransactionID,
		&o.CaptureTransactionID,
		&o.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) GetRecurringPaymentByInitialOrder(ctx context.Context, orderID uint) (*RecurringPayment, error) {
	query := `
		SELECT id, initial_order_id, subscription_id, active, last_error, created_at
		FROM recurring_payments
		WHERE initial_order_id = $1
	`

	var p RecurringPayment
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&p.ID,
		&p.InitialOrderID,
		&p.SubscriptionID,
		&p.Active,
		&p.LastError,
		&p.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// GetRecurringPaymentOrders lists every settled cycle of the series,
// oldest first. The initial order is always the first row.
func (r *repository) GetRecurringPaymentOrders(ctx context.Context, recurringPaymentID uint) ([]*Order, error) {
	query := `
		SELECT o.id, o.guid, o.customer_id, o.total, o.payment_status,
		       o.capture_transaction_id, o.created_at
		FROM orders o
		JOIN recurring_payment_history h ON h.order_id = o.id
		WHERE h.recurring_payment_id = $1
		ORDER BY o.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, recurringPaymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID,
			&o.GUID,
			&o.CustomerID,
			&o.Total,
			&o.PaymentStatus,
			&o.CaptureTransactionID,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}

	return orders, rows.Err()
}

// CreateRecurringPaymentTx inserts the recurring payment and records its
// initial order as the first cycle of the series, atomically.
func (r *repository) CreateRecurringPaymentTx(ctx context.Context, payment *RecurringPayment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO recurring_payments (initial_order_id, subscription_id, active, last_error, created_at)
		VALUES ($1, $2, $3, '', $4)
		RETURNING id
	`,
		payment.InitialOrderID,
		payment.SubscriptionID,
		payment.Active,
		payment.CreatedAt,
	).Scan(&payment.ID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recurring_payment_history (recurring_payment_id, order_id, created_at)
		VALUES ($1, $2, $3)
	`,
		payment.ID,
		payment.InitialOrderID,
		payment.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// CreateRecurringOrderTx inserts a new order for a settled cycle and
// appends it to the series, atomically.
func (r *repository) CreateRecurringOrderTx(ctx context.Context, recurringPaymentID uint, order *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			guid, customer_id, total, payment_status, authorization_transaction_code,
			capture_transaction_id, capture_transaction_result, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`,
		order.GUID,
		order.CustomerID,
		order.Total,
		order.PaymentStatus,
		order.AuthorizationTransactionCode,
		order.CaptureTransactionID,
		order.CaptureTransactionResult,
		order.CreatedAt,
	).Scan(&order.ID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recurring_payment_history (recurring_payment_id, order_id, created_at)
		VALUES ($1, $2, $3)
	`,
		recurringPaymentID,
		order.ID,
		order.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) SetRecurringPaymentError(ctx context.Context, recurringPaymentID uint, lastError string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE recurring_payments
		SET last_error = $1, updated_at = $2
		WHERE id = $3
	`,
		lastError,
		time.Now(),
		recurringPaymentID,
	)
	return err
}
