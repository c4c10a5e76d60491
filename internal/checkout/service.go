package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"oakmart-be/internal/config"
	"oakmart-be/internal/logger"
	"oakmart-be/internal/qualpay"
	"oakmart-be/internal/store"
	"oakmart-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	usdCurrencyCode = "USD"
	usdNumericISO   = "840"

	maxPurchaseIDLen = 25
)

var (
	// ErrUnsupportedCurrency rejects stores whose primary currency the
	// gateway cannot settle.
	ErrUnsupportedCurrency = errors.New("USD is not a primary store currency")
	// ErrRecurringUnavailable is returned when recurring billing is
	// disabled in the merchant settings.
	ErrRecurringUnavailable = errors.New("recurring payments are not available")
	// ErrGuestRecurring rejects recurring billing for guest checkouts;
	// subscriptions need a vault customer keyed by a registered account.
	ErrGuestRecurring = errors.New("recurring payments are available only for registered customers")
	// ErrRecurringSetup is returned when the vault customer could not be
	// ensured before creating a subscription.
	ErrRecurringSetup = errors.New("failed to create recurring payment")
)

// GatewayClient is the transaction-processing surface consumed by checkout.
type GatewayClient interface {
	Tokenize(ctx context.Context, request qualpay.TokenizeRequest) (string, error)
	Authorization(ctx context.Context, request qualpay.TransactionRequest) (*qualpay.TransactionResponse, error)
	Sale(ctx context.Context, request qualpay.TransactionRequest) (*qualpay.TransactionResponse, error)
	Capture(ctx context.Context, transactionID string, amount float64) (*qualpay.TransactionResponse, error)
	Void(ctx context.Context, transactionID string) (*qualpay.TransactionResponse, error)
	Refund(ctx context.Context, transactionID string, amount float64) (*qualpay.TransactionResponse, error)
}

// VaultClient is the vault/recurring platform surface consumed by checkout.
type VaultClient interface {
	GetBillingCards(ctx context.Context, customerID string) ([]qualpay.BillingCard, error)
	AddSubscription(ctx context.Context, request qualpay.AddSubscriptionRequest) (*qualpay.Subscription, error)
	CancelSubscription(ctx context.Context, customerID, subscriptionID string) (*qualpay.Subscription, error)
	GetTransientKey(ctx context.Context) (*qualpay.EmbeddedKey, error)
}

// VaultManager ensures provider-side customer and card state.
type VaultManager interface {
	EnsureCustomer(ctx context.Context, customer store.Customer) (*qualpay.VaultCustomer, error)
	AttachCard(ctx context.Context, customerID, cardID string, primary bool, billing *store.Address) error
	EnsurePrimaryCard(ctx context.Context, customerID, cardID string, billing *store.Address) error
}

// OrderWorkflow is the slice of the host order processing this service
// drives after a subscription is created.
type OrderWorkflow interface {
	RegisterRecurringPayment(ctx context.Context, orderGUID uuid.UUID, subscriptionID string) error
}

type Service interface {
	ProcessPayment(ctx context.Context, request *PaymentRequest) (*PaymentResult, error)
	ProcessRecurringPayment(ctx context.Context, request *PaymentRequest) (*PaymentResult, error)
	Capture(ctx context.Context, transactionID string, amount float64) (*PaymentResult, error)
	Refund(ctx context.Context, transactionID string, amount float64, partial bool) (*PaymentResult, error)
	Void(ctx context.Context, transactionID string) (*PaymentResult, error)
	CancelRecurringPayment(ctx context.Context, customerID, subscriptionID string) error
	TransientKey(ctx context.Context) (string, error)
}

type service struct {
	settings  config.QualpaySettings
	gateway   GatewayClient
	vault     VaultClient
	customers VaultManager
	orders    OrderWorkflow
	clock     Clock
}

func NewService(settings config.QualpaySettings, gateway GatewayClient, vault VaultClient,
	customers VaultManager, orders OrderWorkflow, clock Clock) Service {
	return &service{
		settings:  settings,
		gateway:   gateway,
		vault:     vault,
		customers: customers,
		orders:    orders,
		clock:     clock,
	}
}

// ProcessPayment charges the checkout as a single authorization or sale,
// depending on the configured transaction type.
func (s *service) ProcessPayment(ctx context.Context, request *PaymentRequest) (*PaymentResult, error) {
	ctx = logger.WithCustomer(ctx, request.Customer.VaultID())

	if !strings.EqualFold(request.StoreCurrency, usdCurrencyCode) {
		return nil, ErrUnsupportedCurrency
	}

	transactionRequest, source, err := s.buildTransactionRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	var response *qualpay.TransactionResponse
	switch TransactionType(s.settings.TransactionType) {
	case TransactionAuthorization:
		response, err = s.gateway.Authorization(ctx, *transactionRequest)
	case TransactionSale:
		response, err = s.gateway.Sale(ctx, *transactionRequest)
	default:
		return nil, fmt.Errorf("transaction type %q is not supported", s.settings.TransactionType)
	}
	if err != nil {
		return nil, err
	}

	// the charge went through; persisting the card is best effort
	s.saveCardIfRequested(ctx, request, source)

	result := &PaymentResult{
		AuthCode:   response.AuthCode,
		AvsResult:  response.AuthAvsResult,
		Cvv2Result: response.AuthCvv2Result,
	}
	if TransactionType(s.settings.TransactionType) == TransactionAuthorization {
		result.AuthorizationTransactionID = response.PgID
		result.AuthorizationTransactionResult = response.Rmsg
		result.NewPaymentStatus = StatusAuthorized
	} else {
		result.CaptureTransactionID = response.PgID
		result.CaptureTransactionResult = response.Rmsg
		result.NewPaymentStatus = StatusPaid
	}
	return result, nil
}

func (s *service) buildTransactionRequest(ctx context.Context, request *PaymentRequest) (*qualpay.TransactionRequest, CardSource, error) {
	items, taxTotal := buildLineItems(request.Cart, request.OrderTotal)
	serializedItems, err := json.Marshal(items)
	if err != nil {
		return nil, CardSource{}, err
	}

	var billingEmail string
	if billing := request.Customer.BillingAddress; billing != nil {
		billingEmail = billing.Email
	}

	transactionRequest := &qualpay.TransactionRequest{
		PurchaseID:    utils.Truncate(request.OrderGUID.String(), maxPurchaseIDLen),
		AmtTran:       round2(request.OrderTotal),
		TranCurrency:  usdNumericISO,
		EmailReceipt:  billingEmail != "",
		CustomerEmail: billingEmail,
		LineItems:     string(serializedItems),
		AmtTax:        round2(taxTotal),
	}

	source, err := s.resolveCardSource(ctx, request)
	if err != nil {
		return nil, CardSource{}, err
	}

	transactionRequest.CardID = source.CardID
	if source.Kind == CardSourceVault {
		transactionRequest.CustomerID = request.Customer.VaultID()
	}
	return transactionRequest, source, nil
}

// saveCardIfRequested attaches a freshly tokenized card to the customer's
// vault after a successful charge. Failures are logged, never fatal.
func (s *service) saveCardIfRequested(ctx context.Context, request *PaymentRequest, source CardSource) {
	if _, requested := request.ConsumeCustomValue(KeySaveCard); !requested {
		return
	}
	if !s.settings.UseCustomerVault || source.Kind != CardSourceToken {
		return
	}

	if _, err := s.customers.EnsureCustomer(ctx, request.Customer); err != nil {
		logger.FromCtx(ctx).Warn("could not ensure vault customer for card save", zap.Error(err))
		return
	}
	if err := s.customers.AttachCard(ctx, request.Customer.VaultID(), source.CardID, false, request.Customer.BillingAddress); err != nil {
		logger.FromCtx(ctx).Warn("could not save card to vault", zap.Error(err))
	}
}

// ProcessRecurringPayment creates a provider-managed subscription for the
// order. The first cycle is the immediate purchase, so the plan duration
// is one less than the total number of cycles.
func (s *service) ProcessRecurringPayment(ctx context.Context, request *PaymentRequest) (*PaymentResult, error) {
	ctx = logger.WithCustomer(ctx, request.Customer.VaultID())

	if !s.settings.UseRecurringBilling {
		return nil, ErrRecurringUnavailable
	}
	if request.Customer.IsGuest {
		return nil, ErrGuestRecurring
	}
	if !strings.EqualFold(request.StoreCurrency, usdCurrencyCode) {
		return nil, ErrUnsupportedCurrency
	}

	if _, err := s.customers.EnsureCustomer(ctx, request.Customer); err != nil {
		return nil, fmt.Errorf("qualpay error: %w", ErrRecurringSetup)
	}

	cycle, err := buildSchedule(request.RecurringCyclePeriod, request.RecurringCycleLength, s.clock.Now())
	if err != nil {
		return nil, err
	}

	source, err := s.resolveCardSource(ctx, request)
	if err != nil {
		return nil, err
	}

	// the charging card must be the customer's primary card
	customerID := request.Customer.VaultID()
	billing := request.Customer.BillingAddress
	if source.Kind == CardSourceVault {
		err = s.customers.EnsurePrimaryCard(ctx, customerID, source.CardID, billing)
	} else {
		err = s.customers.AttachCard(ctx, customerID, source.CardID, true, billing)
	}
	if err != nil {
		return nil, ErrCardUnresolved
	}

	subscription, err := s.vault.AddSubscription(ctx, qualpay.AddSubscriptionRequest{
		ProfileID:     s.settings.ProfileID,
		AmtTran:       round2(request.OrderTotal),
		AmtSetup:      round2(request.OrderTotal),
		TranCurrency:  usdCurrencyCode,
		CustomerID:    customerID,
		PlanDesc:      request.OrderGUID.String(),
		PlanDuration:  request.RecurringTotalCycles - 1,
		PlanFrequency: cycle.Frequency,
		Interval:      cycle.Interval,
		DateStart:     cycle.StartDate.Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}

	subscriptionID := strconv.FormatInt(subscription.SubscriptionID, 10)
	if err := s.orders.RegisterRecurringPayment(ctx, request.OrderGUID, subscriptionID); err != nil {
		logger.FromCtx(ctx).Error("could not register recurring payment",
			zap.String("subscription_id", subscriptionID),
			zap.Error(err),
		)
	}

	result := &PaymentResult{
		SubscriptionID:   subscriptionID,
		NewPaymentStatus: StatusPaid,
	}
	if response := subscription.Response; response != nil {
		result.AuthCode = response.AuthCode
		result.AvsResult = response.AuthAvsResult
		result.Cvv2Result = response.AuthCvv2Result
		result.AuthorizationTransactionID = response.PgID
		result.AuthorizationTransactionResult = response.Rmsg
		result.CaptureTransactionID = response.PgID
		result.CaptureTransactionResult = response.Rmsg
	}
	return result, nil
}

// Capture settles the full amount of a previously authorized transaction.
func (s *service) Capture(ctx context.Context, transactionID string, amount float64) (*PaymentResult, error) {
	response, err := s.gateway.Capture(ctx, transactionID, round2(amount))
	if err != nil {
		return nil, err
	}
	return &PaymentResult{
		CaptureTransactionID:     response.PgID,
		CaptureTransactionResult: response.Rmsg,
		NewPaymentStatus:         StatusPaid,
	}, nil
}

// Refund returns part or all of a captured transaction.
func (s *service) Refund(ctx context.Context, transactionID string, amount float64, partial bool) (*PaymentResult, error) {
	if _, err := s.gateway.Refund(ctx, transactionID, round2(amount)); err != nil {
		return nil, err
	}
	status := StatusRefunded
	if partial {
		status = StatusPartiallyRefunded
	}
	return &PaymentResult{NewPaymentStatus: status}, nil
}

// Void cancels an authorized, uncaptured transaction.
func (s *service) Void(ctx context.Context, transactionID string) (*PaymentResult, error) {
	if _, err := s.gateway.Void(ctx, transactionID); err != nil {
		return nil, err
	}
	return &PaymentResult{NewPaymentStatus: StatusVoided}, nil
}

// CancelRecurringPayment stops future cycles of the subscription.
func (s *service) CancelRecurringPayment(ctx context.Context, customerID, subscriptionID string) error {
	_, err := s.vault.CancelSubscription(ctx, customerID, subscriptionID)
	return err
}

// TransientKey fetches a short-lived embedded-fields credential for one
// checkout session.
func (s *service) TransientKey(ctx context.Context) (string, error) {
	key, err := s.vault.GetTransientKey(ctx)
	if err != nil {
		return "", err
	}
	return key.TransientKey, nil
}
