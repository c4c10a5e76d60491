package vault

import (
	"context"

	"oakmart-be/internal/logger"
	"oakmart-be/internal/qualpay"
	"oakmart-be/internal/store"

	"go.uber.org/zap"
)

// Client is the provider vault surface the manager drives.
type Client interface {
	GetCustomer(ctx context.Context, customerID string) (*qualpay.VaultCustomer, error)
	AddCustomer(ctx context.Context, request qualpay.AddCustomerRequest) (*qualpay.VaultCustomer, error)
	GetBillingCards(ctx context.Context, customerID string) ([]qualpay.BillingCard, error)
	AddBillingCard(ctx context.Context, customerID string, request qualpay.AddBillingCardRequest) error
	UpdateBillingCard(ctx context.Context, customerID string, request qualpay.UpdateBillingCardRequest) error
	DeleteBillingCard(ctx context.Context, customerID, cardID string) error
}

// Manager keeps provider-side customer and card records in step with the
// store's customers. Vault records are keyed by the store customer id.
type Manager struct {
	client Client
}

func NewManager(client Client) *Manager {
	return &Manager{client: client}
}

// EnsureCustomer returns the vault record for the store customer, creating
// it on first use. The created record carries the customer's primary
// shipping address when one is set.
func (m *Manager) EnsureCustomer(ctx context.Context, customer store.Customer) (*qualpay.VaultCustomer, error) {
	customerID := customer.VaultID()

	existing, err := m.client.GetCustomer(ctx, customerID)
	if err == nil && existing != nil {
		return existing, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Debug("vault customer lookup missed, creating",
			zap.String("vault_customer_id", customerID),
			zap.Error(err),
		)
	}

	request := qualpay.AddCustomerRequest{
		CustomerID:        customerID,
		CustomerEmail:     customer.Email,
		CustomerFirstName: customer.FirstName,
		CustomerLastName:  customer.LastName,
		CustomerFirmName:  customer.Company,
		CustomerPhone:     customer.Phone,
	}
	if shipping := customer.ShippingAddress; shipping != nil {
		request.ShippingAddresses = []qualpay.AddShippingAddressRequest{{
			Primary:             true,
			ShippingFirstName:   shipping.FirstName,
			ShippingLastName:    shipping.LastName,
			ShippingFirmName:    shipping.Company,
			ShippingAddr1:       shipping.Line1,
			ShippingAddr2:       shipping.Line2,
			ShippingCity:        shipping.City,
			ShippingState:       shipping.StateCode,
			ShippingCountryCode: shipping.CountryCode,
			ShippingZip:         shipping.Zip,
		}}
	}

	return m.client.AddCustomer(ctx, request)
}

// Cards lists the customer's stored cards.
func (m *Manager) Cards(ctx context.Context, customerID string) ([]qualpay.BillingCard, error) {
	return m.client.GetBillingCards(ctx, customerID)
}

// AttachCard stores a tokenized card on the vault customer, verifying it
// with the issuer before acceptance.
func (m *Manager) AttachCard(ctx context.Context, customerID, cardID string, primary bool, billing *store.Address) error {
	request := qualpay.AddBillingCardRequest{
		CardID:  cardID,
		Verify:  true,
		Primary: primary,
	}
	if billing != nil {
		request.BillingAddr1 = billing.Line1
		request.BillingZip = billing.Zip
	}
	return m.client.AddBillingCard(ctx, customerID, request)
}

// EnsurePrimaryCard makes the stored card the customer's primary card.
// The provider does not demote other cards on its own; the most recent
// promotion wins.
func (m *Manager) EnsurePrimaryCard(ctx context.Context, customerID, cardID string, billing *store.Address) error {
	cards, err := m.client.GetBillingCards(ctx, customerID)
	if err != nil {
		return err
	}

	for _, card := range cards {
		if card.CardID != cardID {
			continue
		}
		if card.Primary {
			return nil
		}
		request := qualpay.UpdateBillingCardRequest{
			CardID:  cardID,
			Primary: true,
		}
		if billing != nil {
			request.BillingAddr1 = billing.Line1
			request.BillingZip = billing.Zip
		}
		return m.client.UpdateBillingCard(ctx, customerID, request)
	}

	return m.AttachCard(ctx, customerID, cardID, true, billing)
}

// RemoveCard deletes a stored card from the vault customer.
func (m *Manager) RemoveCard(ctx context.Context, customerID, cardID string) error {
	return m.client.DeleteBillingCard(ctx, customerID, cardID)
}
