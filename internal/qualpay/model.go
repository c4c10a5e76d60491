package qualpay

// Wire types for the two Qualpay API surfaces: the payment gateway ("pg",
// transaction processing) and the platform (vault, recurring billing,
// webhooks, embedded fields).

// TransactionRequest is built fresh for every authorization/sale attempt.
// PurchaseID is capped at 25 characters by the provider.
type TransactionRequest struct {
	MerchantID    int64   `json:"merchant_id"`
	DeveloperID   string  `json:"developer_id,omitempty"`
	PurchaseID    string  `json:"purchase_id,omitempty"`
	AmtTran       float64 `json:"amt_tran"`
	TranCurrency  string  `json:"tran_currency"`
	EmailReceipt  bool    `json:"email_receipt,omitempty"`
	CustomerEmail string  `json:"customer_email,omitempty"`
	CardID        string  `json:"card_id,omitempty"`
	CustomerID    string  `json:"customer_id,omitempty"`
	LineItems     string  `json:"line_items,omitempty"`
	AmtTax        float64 `json:"amt_tax,omitempty"`
}

type TokenizeRequest struct {
	MerchantID     int64  `json:"merchant_id"`
	DeveloperID    string `json:"developer_id,omitempty"`
	SingleUse      bool   `json:"single_use"`
	CardholderName string `json:"cardholder_name,omitempty"`
	CardNumber     string `json:"card_number,omitempty"`
	Cvv2           string `json:"cvv2,omitempty"`
	ExpDate        string `json:"exp_date,omitempty"`
	AvsAddress     string `json:"avs_address,omitempty"`
	AvsZip         string `json:"avs_zip,omitempty"`
}

type CaptureRequest struct {
	MerchantID  int64   `json:"merchant_id"`
	DeveloperID string  `json:"developer_id,omitempty"`
	AmtTran     float64 `json:"amt_tran"`
}

type VoidRequest struct {
	MerchantID  int64  `json:"merchant_id"`
	DeveloperID string `json:"developer_id,omitempty"`
}

type RefundRequest struct {
	MerchantID  int64   `json:"merchant_id"`
	DeveloperID string  `json:"developer_id,omitempty"`
	AmtTran     float64 `json:"amt_tran"`
}

// TransactionResponse is immutable once received. Rcode "000" is the only
// success code on the pg surface.
type TransactionResponse struct {
	Rcode          string `json:"rcode"`
	Rmsg           string `json:"rmsg"`
	PgID           string `json:"pg_id"`
	AuthCode       string `json:"auth_code"`
	AuthAvsResult  string `json:"auth_avs_result"`
	AuthCvv2Result string `json:"auth_cvv2_result"`
	CardID         string `json:"card_id"`
}

// LineItem is one externally reported transaction line. Description is
// capped at 25 characters, ProductCode at 12. CreditType "D" is a debit.
type LineItem struct {
	CreditType  string  `json:"credit_type"`
	Description string  `json:"description"`
	MeasureUnit string  `json:"measure_unit"`
	ProductCode string  `json:"product_code"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// platformResponse is the envelope every platform surface call comes back
// in. Code 0 is the only success code.
type platformResponse[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type AddCustomerRequest struct {
	CustomerID        string                      `json:"customer_id"`
	CustomerEmail     string                      `json:"customer_email,omitempty"`
	CustomerFirstName string                      `json:"customer_first_name,omitempty"`
	CustomerLastName  string                      `json:"customer_last_name,omitempty"`
	CustomerFirmName  string                      `json:"customer_firm_name,omitempty"`
	CustomerPhone     string                      `json:"customer_phone,omitempty"`
	ShippingAddresses []AddShippingAddressRequest `json:"shipping_addresses,omitempty"`
}

type AddShippingAddressRequest struct {
	Primary             bool   `json:"primary"`
	ShippingFirstName   string `json:"shipping_first_name,omitempty"`
	ShippingLastName    string `json:"shipping_last_name,omitempty"`
	ShippingFirmName    string `json:"shipping_firm_name,omitempty"`
	ShippingAddr1       string `json:"shipping_addr1,omitempty"`
	ShippingAddr2       string `json:"shipping_addr2,omitempty"`
	ShippingCity        string `json:"shipping_city,omitempty"`
	ShippingState       string `json:"shipping_state,omitempty"`
	ShippingCountryCode string `json:"shipping_country_code,omitempty"`
	ShippingZip         string `json:"shipping_zip,omitempty"`
}

// VaultCustomer is the provider-side customer record, keyed by the store's
// internal customer id.
type VaultCustomer struct {
	CustomerID        string        `json:"customer_id"`
	CustomerEmail     string        `json:"customer_email"`
	CustomerFirstName string        `json:"customer_first_name"`
	CustomerLastName  string        `json:"customer_last_name"`
	BillingCards      []BillingCard `json:"billing_cards,omitempty"`
}

// BillingCard is a stored card in the vault. The provider does not enforce
// a single primary card; this core manages the flag explicitly.
type BillingCard struct {
	CardID       string `json:"card_id"`
	CardNumber   string `json:"card_number,omitempty"`
	ExpDate      string `json:"exp_date,omitempty"`
	CardType     string `json:"card_type,omitempty"`
	Primary      bool   `json:"primary"`
	BillingAddr1 string `json:"billing_addr1,omitempty"`
	BillingZip   string `json:"billing_zip,omitempty"`
}

type billingCardList struct {
	BillingCards []BillingCard `json:"billing_cards"`
}

type AddBillingCardRequest struct {
	CardID       string `json:"card_id"`
	Verify       bool   `json:"verify"`
	Primary      bool   `json:"primary"`
	BillingAddr1 string `json:"billing_addr1,omitempty"`
	BillingZip   string `json:"billing_zip,omitempty"`
}

type UpdateBillingCardRequest struct {
	CardID       string `json:"card_id"`
	Primary      bool   `json:"primary"`
	BillingAddr1 string `json:"billing_addr1,omitempty"`
	BillingZip   string `json:"billing_zip,omitempty"`
}

type deleteBillingCardRequest struct {
	CardID string `json:"card_id"`
}

// PlanFrequency is the provider's billing-frequency vocabulary.
type PlanFrequency int

const (
	FrequencyWeekly  PlanFrequency = 0
	FrequencyMonthly PlanFrequency = 3
	FrequencyAnnual  PlanFrequency = 6
)

type AddSubscriptionRequest struct {
	ProfileID     string         `json:"profile_id"`
	AmtTran       float64        `json:"amt_tran"`
	AmtSetup      float64        `json:"amt_setup,omitempty"`
	TranCurrency  string         `json:"tran_currency"`
	CustomerID    string         `json:"customer_id"`
	PlanDesc      string         `json:"plan_desc"`
	PlanDuration  int            `json:"plan_duration"`
	PlanFrequency *PlanFrequency `json:"plan_frequency,omitempty"`
	Interval      *int           `json:"interval,omitempty"`
	DateStart     string         `json:"date_start"`
}

// Subscription is created once per recurring order and never mutated after;
// later operations reference it only by id. PlanDesc carries the order
// correlation id.
type Subscription struct {
	SubscriptionID int64                `json:"subscription_id"`
	ProfileID      string               `json:"profile_id,omitempty"`
	CustomerID     string               `json:"customer_id,omitempty"`
	PlanDesc       string               `json:"plan_desc,omitempty"`
	PlanDuration   int                  `json:"plan_duration,omitempty"`
	AmtTran        float64              `json:"amt_tran,omitempty"`
	Status         string               `json:"status,omitempty"`
	Response       *TransactionResponse `json:"response,omitempty"`
}

type cancelSubscriptionRequest struct {
	CustomerID string `json:"customer_id"`
}

// Transaction is one settled charge of a subscription.
type Transaction struct {
	PgID       string  `json:"pg_id"`
	AuthCode   string  `json:"auth_code"`
	TranStatus string  `json:"tran_status"`
	AmtTran    float64 `json:"amt_tran"`
	TranDate   string  `json:"tran_date"`
}

type Webhook struct {
	WebhookID       int64    `json:"webhook_id,omitempty"`
	Label           string   `json:"label"`
	NotificationURL string   `json:"notification_url"`
	EmailAddress    []string `json:"email_address,omitempty"`
	Events          []string `json:"events"`
	Status          string   `json:"status"`
	Secret          string   `json:"secret,omitempty"`
}

// EmbeddedKey is a transient key authorizing one embedded-fields session.
type EmbeddedKey struct {
	TransientKey string `json:"transient_key"`
}

// WebhookEvent is the inbound notification envelope, constructed once per
// call from verified bytes.
type WebhookEvent[T any] struct {
	Event string `json:"event"`
	Data  T      `json:"data"`
}
