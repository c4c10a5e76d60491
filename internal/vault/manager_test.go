package vault

import (
	"context"
	"errors"
	"testing"

	"oakmart-be/internal/qualpay"
	"oakmart-be/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	getCustomer       func(ctx context.Context, customerID string) (*qualpay.VaultCustomer, error)
	addCustomer       func(ctx context.Context, request qualpay.AddCustomerRequest) (*qualpay.VaultCustomer, error)
	getBillingCards   func(ctx context.Context, customerID string) ([]qualpay.BillingCard, error)
	addBillingCard    func(ctx context.Context, customerID string, request qualpay.AddBillingCardRequest) error
	updateBillingCard func(ctx context.Context, customerID string, request qualpay.UpdateBillingCardRequest) error
	deleteBillingCard func(ctx context.Context, customerID, cardID string) error
}

func (f *fakeClient) GetCustomer(ctx context.Context, customerID string) (*qualpay.VaultCustomer, error) {
	return f.getCustomer(ctx, customerID)
}

func (f *fakeClient) AddCustomer(ctx context.Context, request qualpay.AddCustomerRequest) (*qualpay.VaultCustomer, error) {
	return f.addCustomer(ctx, request)
}

func (f *fakeClient) GetBillingCards(ctx context.Context, customerID string) ([]qualpay.BillingCard, error) {
	return f.getBillingCards(ctx, customerID)
}

func (f *fakeClient) AddBillingCard(ctx context.Context, customerID string, request qualpay.AddBillingCardRequest) error {
	return f.addBillingCard(ctx, customerID, request)
}

func (f *fakeClient) UpdateBillingCard(ctx context.Context, customerID string, request qualpay.UpdateBillingCardRequest) error {
	return f.updateBillingCard(ctx, customerID, request)
}

func (f *fakeClient) DeleteBillingCard(ctx context.Context, customerID, cardID string) error {
	return f.deleteBillingCard(ctx, customerID, cardID)
}

func testCustomer() store.Customer {
	return store.Customer{
		ID:        42,
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		ShippingAddress: &store.Address{
			FirstName:   "Jane",
			LastName:    "Doe",
			Line1:       "1 Main St",
			City:        "Springfield",
			StateCode:   "CA",
			CountryCode: "US",
			Zip:         "90001",
		},
	}
}

func TestEnsureCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("returns existing vault record without creating", func(t *testing.T) {
		client := &fakeClient{
			getCustomer: func(_ context.Context, customerID string) (*qualpay.VaultCustomer, error) {
				assert.Equal(t, "42", customerID)
				return &qualpay.VaultCustomer{CustomerID: "42"}, nil
			},
			addCustomer: func(context.Context, qualpay.AddCustomerRequest) (*qualpay.VaultCustomer, error) {
				t.Fatal("should not create an existing customer")
				return nil, nil
			},
		}

		record, err := NewManager(client).EnsureCustomer(ctx, testCustomer())

		require.NoError(t, err)
		assert.Equal(t, "42", record.CustomerID)
	})

	t.Run("creates record with primary shipping address on miss", func(t *testing.T) {
		var created qualpay.AddCustomerRequest
		client := &fakeClient{
			getCustomer: func(context.Context, string) (*qualpay.VaultCustomer, error) {
				return nil, errors.New("qualpay error: error code - 11, customer not found")
			},
			addCustomer: func(_ context.Context, request qualpay.AddCustomerRequest) (*qualpay.VaultCustomer, error) {
				created = request
				return &qualpay.VaultCustomer{CustomerID: request.CustomerID}, nil
			},
		}

		record, err := NewManager(client).EnsureCustomer(ctx, testCustomer())

		require.NoError(t, err)
		assert.Equal(t, "42", record.CustomerID)
		assert.Equal(t, "jane@example.com", created.CustomerEmail)
		require.Len(t, created.ShippingAddresses, 1)
		assert.True(t, created.ShippingAddresses[0].Primary)
		assert.Equal(t, "1 Main St", created.ShippingAddresses[0].ShippingAddr1)
	})

	t.Run("propagates creation failure", func(t *testing.T) {
		client := &fakeClient{
			getCustomer: func(context.Context, string) (*qualpay.VaultCustomer, error) {
				return nil, errors.New("not found")
			},
			addCustomer: func(context.Context, qualpay.AddCustomerRequest) (*qualpay.VaultCustomer, error) {
				return nil, errors.New("qualpay error: error code - 99, bad request")
			},
		}

		_, err := NewManager(client).EnsureCustomer(ctx, testCustomer())

		assert.Error(t, err)
	})
}

func TestEnsurePrimaryCard(t *testing.T) {
	ctx := context.Background()

	t.Run("no-op when the card is already primary", func(t *testing.T) {
		client := &fakeClient{
			getBillingCards: func(context.Context, string) ([]qualpay.BillingCard, error) {
				return []qualpay.BillingCard{{CardID: "card-1", Primary: true}}, nil
			},
			updateBillingCard: func(context.Context, string, qualpay.UpdateBillingCardRequest) error {
				t.Fatal("should not update a card that is already primary")
				return nil
			},
		}

		err := NewManager(client).EnsurePrimaryCard(ctx, "42", "card-1", nil)

		assert.NoError(t, err)
	})

	t.Run("promotes a stored non-primary card", func(t *testing.T) {
		var updated qualpay.UpdateBillingCardRequest
		client := &fakeClient{
			getBillingCards: func(context.Context, string) ([]qualpay.BillingCard, error) {
				return []qualpay.BillingCard{
					{CardID: "card-1", Primary: true},
					{CardID: "card-2", Primary: false},
				}, nil
			},
			updateBillingCard: func(_ context.Context, customerID string, request qualpay.UpdateBillingCardRequest) error {
				assert.Equal(t, "42", customerID)
				updated = request
				return nil
			},
		}

		err := NewManager(client).EnsurePrimaryCard(ctx, "42", "card-2", &store.Address{Line1: "1 Main St", Zip: "90001"})

		require.NoError(t, err)
		assert.Equal(t, "card-2", updated.CardID)
		assert.True(t, updated.Primary)
		assert.Equal(t, "90001", updated.BillingZip)
	})

	t.Run("attaches an unknown card as primary", func(t *testing.T) {
		var attached qualpay.AddBillingCardRequest
		client := &fakeClient{
			getBillingCards: func(context.Context, string) ([]qualpay.BillingCard, error) {
				return []qualpay.BillingCard{{CardID: "card-1", Primary: true}}, nil
			},
			addBillingCard: func(_ context.Context, _ string, request qualpay.AddBillingCardRequest) error {
				attached = request
				return nil
			},
		}

		err := NewManager(client).EnsurePrimaryCard(ctx, "42", "card-9", nil)

		require.NoError(t, err)
		assert.Equal(t, "card-9", attached.CardID)
		assert.True(t, attached.Primary)
		assert.True(t, attached.Verify)
	})

	t.Run("propagates card listing failure", func(t *testing.T) {
		client := &fakeClient{
			getBillingCards: func(context.Context, string) ([]qualpay.BillingCard, error) {
				return nil, errors.New("qualpay error: network down")
			},
		}

		err := NewManager(client).EnsurePrimaryCard(ctx, "42", "card-1", nil)

		assert.Error(t, err)
	})
}

func TestAttachCard(t *testing.T) {
	client := &fakeClient{
		addBillingCard: func(_ context.Context, customerID string, request qualpay.AddBillingCardRequest) error {
			assert.Equal(t, "42", customerID)
			assert.True(t, request.Verify)
			assert.False(t, request.Primary)
			assert.Equal(t, "1 Main St", request.BillingAddr1)
			return nil
		},
	}

	err := NewManager(client).AttachCard(context.Background(), "42", "card-1", false, &store.Address{Line1: "1 Main St"})

	assert.NoError(t, err)
}
