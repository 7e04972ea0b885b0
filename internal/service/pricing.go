// internal/service/pricing.go
package service

import "github.com/unclebandit/hvac-backend/internal/model"

// CalculateTotals prices items in place and returns the document totals.
// A percentage discount is taken off the subtotal; a fixed one is an
// amount. The discount never exceeds the subtotal. Tax applies to the
// discounted amount. Every value is rounded to cents.
func CalculateTotals(items []model.LineItem, discount float64, discountType model.DiscountType, taxRate float64) model.Totals {
	var subtotal float64
	for i := range items {
		items[i].Total = model.RoundMoney(items[i].Quantity * items[i].UnitPrice)
		subtotal += items[i].Total
	}
	subtotal = model.RoundMoney(subtotal)

	discountAmount := discount
	if discountType == model.DiscountPercentage {
		discountAmount = subtotal * discount / 100
	}
	discountAmount = model.RoundMoney(discountAmount)
	if discountAmount > subtotal {
		discountAmount = subtotal
	}
	if discountAmount < 0 {
		discountAmount = 0
	}

	taxable := subtotal - discountAmount
	tax := model.RoundMoney(taxable * taxRate / 100)

	return model.Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxAmount:      tax,
		Total:          model.RoundMoney(taxable + tax),
	}
}
