package gateway

import (
	"context"

	"eventwave/internal/domain/models"

	"github.com/shopspring/decimal"
)

// OrderRequest is the single submission a checkout session makes.
// Instrument is nil for free events.
type OrderRequest struct {
	EventID    string
	Quantity   int
	Buyer      models.BuyerDetails
	Instrument *models.PaymentInstrument
	Subtotal   decimal.Decimal
	ServiceFee decimal.Decimal
	Total      decimal.Decimal
	Currency   string
}

type Confirmation struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// Gateway is the system of record for orders and payments. Implementations
// must be safe for concurrent use; failures are reported through the typed
// domain errors (validation, payment declined, capacity exceeded, unavailable).
type Gateway interface {
	SubmitOrder(ctx context.Context, req OrderRequest) (Confirmation, error)
}
