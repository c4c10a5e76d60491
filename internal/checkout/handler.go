package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"oakmart-be/internal/middleware"
	"oakmart-be/internal/qualpay"
	"oakmart-be/internal/store"
	"oakmart-be/internal/utils"

	"github.com/google/uuid"
)

// CardStore is the vault slice the card management endpoints use.
type CardStore interface {
	Cards(ctx context.Context, customerID string) ([]qualpay.BillingCard, error)
	AttachCard(ctx context.Context, customerID, cardID string, primary bool, billing *store.Address) error
	RemoveCard(ctx context.Context, customerID, cardID string) error
}

// Handler exposes the checkout and card management endpoints.
type Handler struct {
	service Service
	cards   CardStore
}

func NewHandler(service Service, cards CardStore) *Handler {
	return &Handler{service: service, cards: cards}
}

type payRequest struct {
	OrderGUID     string         `json:"order_guid"`
	OrderTotal    float64        `json:"order_total"`
	StoreCurrency string         `json:"store_currency"`
	Customer      store.Customer `json:"customer"`
	Cart          store.Cart     `json:"cart"`

	Card *PaymentInfo `json:"card,omitempty"`

	SelectedCardID  string `json:"selected_card_id,omitempty"`
	TokenizedCardID string `json:"tokenized_card_id,omitempty"`
	SaveCard        bool   `json:"save_card,omitempty"`

	RecurringCyclePeriod string `json:"recurring_cycle_period,omitempty"`
	RecurringCycleLength int    `json:"recurring_cycle_length,omitempty"`
	RecurringTotalCycles int    `json:"recurring_total_cycles,omitempty"`
}

var cyclePeriods = map[string]CyclePeriod{
	"days":   PeriodDays,
	"weeks":  PeriodWeeks,
	"months": PeriodMonths,
	"years":  PeriodYears,
}

func (p *payRequest) toPaymentRequest() (*PaymentRequest, error) {
	orderGUID, err := uuid.Parse(p.OrderGUID)
	if err != nil {
		return nil, errors.New("order_guid is not a valid uuid")
	}

	request := &PaymentRequest{
		OrderGUID:            orderGUID,
		OrderTotal:           p.OrderTotal,
		StoreCurrency:        p.StoreCurrency,
		Customer:             p.Customer,
		Cart:                 p.Cart,
		CustomValues:         map[CustomValueKey]string{},
		RecurringCyclePeriod: cyclePeriods[strings.ToLower(p.RecurringCyclePeriod)],
		RecurringCycleLength: p.RecurringCycleLength,
		RecurringTotalCycles: p.RecurringTotalCycles,
	}

	if p.SelectedCardID != "" {
		request.CustomValues[KeySelectedCardID] = p.SelectedCardID
	}
	if p.TokenizedCardID != "" {
		request.CustomValues[KeyTokenizedCardID] = p.TokenizedCardID
	}
	if p.SaveCard {
		request.CustomValues[KeySaveCard] = "true"
	}

	if p.Card != nil {
		if messages := ValidatePaymentInfo(*p.Card); len(messages) > 0 {
			return nil, errors.New(strings.Join(messages, "; "))
		}
		request.Card = CardDetails{
			CardholderName: p.Card.CardholderName,
			CardNumber:     p.Card.CardNumber,
			Cvv2:           p.Card.CardCode,
			ExpireMonth:    p.Card.ExpireMonth,
			ExpireYear:     p.Card.ExpireYear,
		}
	}

	return request, nil
}

// Pay handles POST /checkout/pay.
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	h.process(w, r, h.service.ProcessPayment)
}

// PayRecurring handles POST /checkout/recurring.
func (h *Handler) PayRecurring(w http.ResponseWriter, r *http.Request) {
	h.process(w, r, h.service.ProcessRecurringPayment)
}

func (h *Handler) process(w http.ResponseWriter, r *http.Request,
	run func(ctx context.Context, request *PaymentRequest) (*PaymentResult, error)) {

	var payload payRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	request, err := payload.toPaymentRequest()
	if err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := run(r.Context(), request)
	if err != nil {
		utils.WriteJSONError(w, err.Error(), paymentErrorStatus(err))
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

// paymentErrorStatus maps known rejections to 4xx; everything else,
// including gateway failures, is a 502.
func paymentErrorStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnsupportedCurrency),
		errors.Is(err, ErrGuestRecurring),
		errors.Is(err, ErrRecurringUnavailable),
		errors.Is(err, ErrMinimumWeekly),
		errors.Is(err, ErrCardUnresolved):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

type captureRequest struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Partial       bool    `json:"partial,omitempty"`
}

// Capture handles POST /checkout/capture.
func (h *Handler) Capture(w http.ResponseWriter, r *http.Request) {
	var payload captureRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	result, err := h.service.Capture(r.Context(), payload.TransactionID, payload.Amount)
	if err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadGateway)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// Refund handles POST /checkout/refund.
func (h *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	var payload captureRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	result, err := h.service.Refund(r.Context(), payload.TransactionID, payload.Amount, payload.Partial)
	if err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadGateway)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// Void handles POST /checkout/void.
func (h *Handler) Void(w http.ResponseWriter, r *http.Request) {
	var payload captureRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	result, err := h.service.Void(r.Context(), payload.TransactionID)
	if err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadGateway)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

type cancelRequest struct {
	CustomerID     string `json:"customer_id"`
	SubscriptionID string `json:"subscription_id"`
}

// CancelRecurring handles POST /checkout/cancel-recurring.
func (h *Handler) CancelRecurring(w http.ResponseWriter, r *http.Request) {
	var payload cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	if err := h.service.CancelRecurringPayment(r.Context(), payload.CustomerID, payload.SubscriptionID); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadGateway)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// TransientKey handles GET /checkout/transient-key for the embedded-fields
// frontend.
func (h *Handler) TransientKey(w http.ResponseWriter, r *http.Request) {
	key, err := h.service.TransientKey(r.Context())
	if err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadGateway)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"transient_key": key})
}

// ListCards handles GET /cards for the authenticated customer.
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerIDFromContext(r.Context())
	if !ok {
		utils.WriteJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	cards, err := h.cards.Cards(r.Context(), strconv.FormatUint(uint64(customerID), 10))
	if err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadGateway)
		return
	}
	utils.WriteJSON(w, http.StatusOK, cards)
}

type addCardRequest struct {
	CardID         string         `json:"card_id"`
	Primary        bool           `json:"primary,omitempty"`
	BillingAddress *store.Address `json:"billing_address,omitempty"`
}

// AddCard handles POST /cards: attaches an already tokenized card to the
// authenticated customer's vault.
func (h *Handler) AddCard(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerIDFromContext(r.Context())
	if !ok {
		utils.WriteJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var payload addCardRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.CardID == "" {
		utils.WriteJSONError(w, "card_id is required", http.StatusBadRequest)
		return
	}

	err := h.cards.AttachCard(r.Context(), strconv.FormatUint(uint64(customerID), 10),
		payload.CardID, payload.Primary, payload.BillingAddress)
	if err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadGateway)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

type deleteCardRequest struct {
	CardID string `json:"card_id"`
}

// DeleteCard handles DELETE /cards for the authenticated customer.
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerIDFromContext(r.Context())
	if !ok {
		utils.WriteJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var payload deleteCardRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.CardID == "" {
		utils.WriteJSONError(w, "card_id is required", http.StatusBadRequest)
		return
	}

	if err := h.cards.RemoveCard(r.Context(), strconv.FormatUint(uint64(customerID), 10), payload.CardID); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadGateway)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
