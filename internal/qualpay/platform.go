package qualpay

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// Platform surface: customer vault, recurring billing, embedded fields and
// webhook management. Code 0 is the only success code.

const platformSuccessCode = 0

// GetCustomer fetches a vault customer by the store's customer id.
func (c *Client) GetCustomer(ctx context.Context, customerID string) (*VaultCustomer, error) {
	return invoke(ctx, c, "get_customer", func(int64) (*VaultCustomer, error) {
		var response platformResponse[*VaultCustomer]
		if err := c.platform().do(ctx, http.MethodGet, "/vault/customer/"+customerID, nil, &response); err != nil {
			return nil, err
		}
		if response.Code != platformSuccessCode {
			return nil, remoteError(response.Code, response.Message)
		}
		return response.Data, nil
	})
}

// AddCustomer creates a new vault customer.
func (c *Client) AddCustomer(ctx context.Context, request AddCustomerRequest) (*VaultCustomer, error) {
	return invoke(ctx, c, "add_customer", func(int64) (*VaultCustomer, error) {
		var response platformResponse[*VaultCustomer]
		if err := c.platform().do(ctx, http.MethodPost, "/vault/customer", request, &response); err != nil {
			return nil, err
		}
		if response.Code != platformSuccessCode {
			return nil, remoteError(response.Code, response.Message)
		}
		return response.Data, nil
	})
}

// GetBillingCards lists the customer's stored cards. A missing customer
// surfaces as an error from the provider, never as a nil slice panic.
func (c *Client) GetBillingCards(ctx context.Context, customerID string) ([]BillingCard, error) {
	return invoke(ctx, c, "get_billing_cards", func(int64) ([]BillingCard, error) {
		var response platformResponse[*billingCardList]
		if err := c.platform().do(ctx, http.MethodGet, "/vault/customer/"+customerID+"/billing_cards", nil, &response); err != nil {
			return nil, err
		}
		if response.Code != platformSuccessCode {
			return nil, remoteError(response.Code, response.Message)
		}
		if response.Data == nil {
			return []BillingCard{}, nil
		}
		return response.Data.BillingCards, nil
	})
}

// AddBillingCard attaches a tokenized card to the vault customer.
func (c *Client) AddBillingCard(ctx context.Context, customerID string, request AddBillingCardRequest) error {
	_, err := invoke(ctx, c, "add_billing_card", func(int64) (bool, error) {
		var response platformResponse[*BillingCard]
		if err := c.platform().do(ctx, http.MethodPost, "/vault/customer/"+customerID+"/billing_cards", request, &response); err != nil {
			return false, err
		}
		if response.Code != platformSuccessCode {
			return false, remoteError(response.Code, response.Message)
		}
		return true, nil
	})
	return err
}

// UpdateBillingCard updates a stored card, typically to flip its primary flag.
func (c *Client) UpdateBillingCard(ctx context.Context, customerID string, request UpdateBillingCardRequest) error {
	_, err := invoke(ctx, c, "update_billing_card", func(int64) (bool, error) {
		var response platformResponse[*BillingCard]
		if err := c.platform().do(ctx, http.MethodPut, "/vault/customer/"+customerID+"/billing_cards", request, &response); err != nil {
			return false, err
		}
		if response.Code != platformSuccessCode {
			return false, remoteError(response.Code, response.Message)
		}
		return true, nil
	})
	return err
}

// DeleteBillingCard removes a stored card from the vault customer.
func (c *Client) DeleteBillingCard(ctx context.Context, customerID, cardID string) error {
	_, err := invoke(ctx, c, "delete_billing_card", func(int64) (bool, error) {
		request := deleteBillingCardRequest{CardID: cardID}

		var response platformResponse[*BillingCard]
		if err := c.platform().do(ctx, http.MethodDelete, "/vault/customer/"+customerID+"/billing_cards", request, &response); err != nil {
			return false, err
		}
		if response.Code != platformSuccessCode {
			return false, remoteError(response.Code, response.Message)
		}
		return true, nil
	})
	return err
}

// GetTransientKey fetches a short-lived credential for one embedded-fields
// session.
func (c *Client) GetTransientKey(ctx context.Context) (*EmbeddedKey, error) {
	return invoke(ctx, c, "get_transient_key", func(int64) (*EmbeddedKey, error) {
		var response platformResponse[*EmbeddedKey]
		if err := c.platform().do(ctx, http.MethodGet, "/embedded", nil, &response); err != nil {
			return nil, err
		}
		if response.Code != platformSuccessCode {
			return nil, remoteError(response.Code, response.Message)
		}
		return response.Data, nil
	})
}

// AddSubscription creates a provider-managed recurring charge schedule.
func (c *Client) AddSubscription(ctx context.Context, request AddSubscriptionRequest) (*Subscription, error) {
	return invoke(ctx, c, "add_subscription", func(int64) (*Subscription, error) {
		var response platformResponse[*Subscription]
		if err := c.platform().do(ctx, http.MethodPost, "/subscription", request, &response); err != nil {
			return nil, err
		}
		if response.Code != platformSuccessCode {
			return nil, remoteError(response.Code, response.Message)
		}
		return response.Data, nil
	})
}

// CancelSubscription stops future cycles of a subscription.
func (c *Client) CancelSubscription(ctx context.Context, customerID, subscriptionID string) (*Subscription, error) {
	return invoke(ctx, c, "cancel_subscription", func(int64) (*Subscription, error) {
		if _, err := strconv.ParseInt(subscriptionID, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid subscription id %q", subscriptionID)
		}
		request := cancelSubscriptionRequest{CustomerID: customerID}

		var response platformResponse[*Subscription]
		if err := c.platform().do(ctx, http.MethodPost, "/subscription/"+subscriptionID+"/cancel", request, &response); err != nil {
			return nil, err
		}
		if response.Code != platformSuccessCode {
			return nil, remoteError(response.Code, response.Message)
		}
		return response.Data, nil
	})
}

// GetSubscriptionTransactions lists the settled charges of a subscription,
// most recent first.
func (c *Client) GetSubscriptionTransactions(ctx context.Context, subscriptionID int64) ([]Transaction, error) {
	return invoke(ctx, c, "get_subscription_transactions", func(int64) ([]Transaction, error) {
		path := "/subscription/" + strconv.FormatInt(subscriptionID, 10) + "/transactions"

		var response platformResponse[[]Transaction]
		if err := c.platform().do(ctx, http.MethodGet, path, nil, &response); err != nil {
			return nil, err
		}
		if response.Code != platformSuccessCode {
			return nil, remoteError(response.Code, response.Message)
		}
		if response.Data == nil {
			return []Transaction{}, nil
		}
		return response.Data, nil
	})
}

// GetWebhook fetches a registered webhook by id.
func (c *Client) GetWebhook(ctx context.Context, webhookID int64) (*Webhook, error) {
	return invoke(ctx, c, "get_webhook", func(int64) (*Webhook, error) {
		var response platformResponse[*Webhook]
		if err := c.platform().do(ctx, http.MethodGet, "/webhook/"+strconv.FormatInt(webhookID, 10), nil, &response); err != nil {
			return nil, err
		}
		if response.Code != platformSuccessCode {
			return nil, remoteError(response.Code, response.Message)
		}
		return response.Data, nil
	})
}

// AddWebhook registers a new webhook with the provider.
func (c *Client) AddWebhook(ctx context.Context, request Webhook) (*Webhook, error) {
	return invoke(ctx, c, "add_webhook", func(int64) (*Webhook, error) {
		var response platformResponse[*Webhook]
		if err := c.platform().do(ctx, http.MethodPost, "/webhook", request, &response); err != nil {
			return nil, err
		}
		if response.Code != platformSuccessCode {
			return nil, remoteError(response.Code, response.Message)
		}
		return response.Data, nil
	})
}
