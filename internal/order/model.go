package order

import (
	"time"

	"github.com/google/uuid"
)

// Order is the store-side record a payment attaches to. GUID is the
// public correlation id carried to the gateway as the purchase id and as
// the subscription plan description.
type Order struct {
	ID         uint
	GUID       uuid.UUID
	CustomerID uint
	Total      float64

	PaymentStatus string

	AuthorizationTransactionID     string
	AuthorizationTransactionCode   string
	AuthorizationTransactionResult string
	CaptureTransactionID           string
	CaptureTransactionResult       string

	CreatedAt time.Time
}

// RecurringPayment links a subscription to the order that started it.
// Every settled cycle, the initial purchase included, gets its own order
// row in the series.
type RecurringPayment struct {
	ID             uint
	InitialOrderID uint
	SubscriptionID string
	Active         bool
	LastError      string
	CreatedAt      time.Time
}

// ChargeResult carries the provider-side identifiers of one settled
// recurring cycle.
type ChargeResult struct {
	TransactionID     string
	AuthCode          string
	TransactionResult string
}
