package domain

import "github.com/shopspring/decimal"

// ServiceFeeRate is the flat 5% surcharge applied to the ticket subtotal.
var ServiceFeeRate = decimal.New(5, -2)

// Totals carries the priced breakdown of one checkout. Values keep full
// decimal precision; rounding to 2 places happens only at the display boundary.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	ServiceFee decimal.Decimal `json:"serviceFee"`
	Total      decimal.Decimal `json:"total"`
}

// Quote prices quantity tickets at unitAmount. Quantity has a floor of 1.
// A zero unit amount yields zero fee and zero total (free events).
func Quote(unitAmount decimal.Decimal, quantity int) Totals {
	if quantity < 1 {
		quantity = 1
	}
	subtotal := unitAmount.Mul(decimal.NewFromInt(int64(quantity)))
	fee := subtotal.Mul(ServiceFeeRate)
	return Totals{
		Subtotal:   subtotal,
		ServiceFee: fee,
		Total:      subtotal.Add(fee),
	}
}
