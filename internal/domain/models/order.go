package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrderConfirmed = "confirmed"

type BuyerDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// PaymentInstrument holds raw card input. It is never persisted and is
// cleared from the checkout session as soon as it leaves the payment step.
type PaymentInstrument struct {
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVC        string `json:"cvc"`
	BillingZip string `json:"billingZip"`
}

type Order struct {
	ID         string          `json:"id"`
	EventID    string          `json:"eventId"`
	Quantity   int             `json:"quantity"`
	Buyer      BuyerDetails    `json:"buyer"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	ServiceFee decimal.Decimal `json:"serviceFee"`
	Total      decimal.Decimal `json:"total"`
	Currency   string          `json:"currency"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
}
