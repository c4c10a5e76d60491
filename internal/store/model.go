// Package store holds the read-only contracts this service consumes from the
// host shop: customers, addresses and the checkout cart. The shop owns these
// records; the payment integration only reads them.
package store

import "strconv"

type Customer struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company,omitempty"`
	Phone     string `json:"phone,omitempty"`
	IsGuest   bool   `json:"is_guest"`

	BillingAddress  *Address `json:"billing_address,omitempty"`
	ShippingAddress *Address `json:"shipping_address,omitempty"`
}

// VaultID is the identifier the customer is keyed by on the provider side.
func (c Customer) VaultID() string {
	return strconv.FormatUint(uint64(c.ID), 10)
}

type Address struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Company     string `json:"company,omitempty"`
	Line1       string `json:"line1"`
	Line2       string `json:"line2,omitempty"`
	City        string `json:"city"`
	StateCode   string `json:"state_code"`
	CountryCode string `json:"country_code"`
	Zip         string `json:"zip"`
	Email       string `json:"email,omitempty"`
}

// Cart is a priced snapshot of the customer's checkout. Unit prices and the
// fee/shipping amounts exclude tax; TaxTotal carries the whole cart's tax.
type Cart struct {
	Items         []CartItem          `json:"items"`
	Attributes    []CheckoutAttribute `json:"attributes,omitempty"`
	TaxTotal      float64             `json:"tax_total"`
	PaymentFee    float64             `json:"payment_fee"`
	ShippingTotal float64             `json:"shipping_total"`
}

type CartItem struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	SKU         string  `json:"sku"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
}

// CheckoutAttribute is an extra checkout option the customer picked
// (gift wrap, engraving, ...) priced through its own tax calculation.
type CheckoutAttribute struct {
	Name  string  `json:"name"`
	Value string  `json:"value"`
	Price float64 `json:"price"`
}
