package checkout

import (
	"fmt"
	"math"

	"oakmart-be/internal/qualpay"
	"oakmart-be/internal/store"
	"oakmart-be/internal/utils"
)

const (
	maxDescriptionLen = 25
	maxProductCodeLen = 12
)

// round2 rounds to 2 decimals, half to even. All money amounts pass
// through here before being reported to the provider or compared.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

func newLineItem(price float64, description, productCode string, quantity int) qualpay.LineItem {
	return qualpay.LineItem{
		CreditType:  "D",
		Description: utils.Truncate(description, maxDescriptionLen),
		MeasureUnit: "*",
		ProductCode: utils.Truncate(productCode, maxProductCodeLen),
		Quantity:    quantity,
		UnitPrice:   price,
	}
}

// buildLineItems derives the externally reported transaction lines from the
// cart: one line per real product, one per non-empty checkout attribute
// value, plus surcharge and shipping lines when non-zero. When the summed
// lines plus tax overshoot the order total, a single negative discount line
// is appended so the report reconciles to the true charged amount.
// Returns the lines and the cart's tax total.
func buildLineItems(cart store.Cart, orderTotal float64) ([]qualpay.LineItem, float64) {
	var items []qualpay.LineItem

	for _, cartItem := range cart.Items {
		if cartItem.ProductID == 0 {
			continue
		}
		items = append(items, newLineItem(cartItem.UnitPrice, cartItem.ProductName, cartItem.SKU, cartItem.Quantity))
	}

	for _, attribute := range cart.Attributes {
		if attribute.Value == "" {
			continue
		}
		description := fmt.Sprintf("%s (%s)", attribute.Name, attribute.Value)
		items = append(items, newLineItem(attribute.Price, description, "checkout", 1))
	}

	if cart.PaymentFee > 0 {
		items = append(items, newLineItem(cart.PaymentFee, "Payment (Qualpay)", "payment", 1))
	}

	if cart.ShippingTotal > 0 {
		items = append(items, newLineItem(cart.ShippingTotal, "Shipping rate", "shipping", 1))
	}

	var sum float64
	for _, item := range items {
		sum += item.UnitPrice * float64(item.Quantity)
	}

	difference := round2(orderTotal - sum - cart.TaxTotal)
	if difference < 0 {
		items = append(items, newLineItem(difference, "Discount amount", "discounts", 1))
	}

	return items, cart.TaxTotal
}
