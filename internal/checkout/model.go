package checkout

import (
	"time"

	"oakmart-be/internal/store"

	"github.com/google/uuid"
)

// TransactionType selects how a checkout charge is processed.
type TransactionType string

const (
	TransactionAuthorization TransactionType = "authorization"
	TransactionSale          TransactionType = "sale"
)

// PaymentStatus is the status emitted to the order workflow.
type PaymentStatus string

const (
	StatusAuthorized        PaymentStatus = "Authorized"
	StatusPaid              PaymentStatus = "Paid"
	StatusRefunded          PaymentStatus = "Refunded"
	StatusPartiallyRefunded PaymentStatus = "PartiallyRefunded"
	StatusVoided            PaymentStatus = "Voided"
)

// CustomValueKey keys the typed per-attempt values the storefront passes
// along with a payment. Keys are consumed (removed) when read.
type CustomValueKey int

const (
	// KeySelectedCardID holds the id of a previously saved vault card the
	// customer picked at checkout.
	KeySelectedCardID CustomValueKey = iota
	// KeyTokenizedCardID holds a card id already tokenized by the
	// provider's embedded fields.
	KeyTokenizedCardID
	// KeySaveCard marks that the customer asked to keep the card for
	// future purchases.
	KeySaveCard
)

// CyclePeriod describes the unit of a recurring product's billing cycle.
type CyclePeriod int

const (
	PeriodDays CyclePeriod = iota
	PeriodWeeks
	PeriodMonths
	PeriodYears
)

// CardDetails carries raw card fields collected by the store's own form,
// used only when embedded fields are disabled. Never persisted.
type CardDetails struct {
	CardholderName string
	CardNumber     string
	Cvv2           string
	ExpireMonth    int
	ExpireYear     int
}

// PaymentRequest is everything a checkout or recurring action needs.
// Built per attempt, ephemeral.
type PaymentRequest struct {
	OrderGUID     uuid.UUID
	OrderTotal    float64
	StoreCurrency string

	Customer store.Customer
	Cart     store.Cart
	Card     CardDetails

	CustomValues map[CustomValueKey]string

	RecurringCyclePeriod CyclePeriod
	RecurringCycleLength int
	RecurringTotalCycles int
}

// ConsumeCustomValue reads and removes a custom value, so it can never be
// applied twice within one attempt.
func (r *PaymentRequest) ConsumeCustomValue(key CustomValueKey) (string, bool) {
	value, ok := r.CustomValues[key]
	if ok {
		delete(r.CustomValues, key)
	}
	return value, ok
}

// PaymentResult is handed back to the order workflow.
type PaymentResult struct {
	NewPaymentStatus PaymentStatus

	AuthCode   string
	AvsResult  string
	Cvv2Result string

	AuthorizationTransactionID     string
	AuthorizationTransactionResult string
	CaptureTransactionID           string
	CaptureTransactionResult       string

	SubscriptionID string
}

// Clock lets tests pin subscription start dates.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
