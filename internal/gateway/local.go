package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	intconfig "eventwave/internal/config"
	"eventwave/internal/domain"
	"eventwave/internal/domain/models"
	"eventwave/internal/repositories"
	"eventwave/internal/utils"

	"github.com/google/uuid"
)

// DeclineCard is the test card number the simulated processor always
// rejects, mirroring the usual processor sandbox convention.
const DeclineCard = "4000000000000002"

// Local is the in-process system of record for orders: it re-prices the
// request, captures payment (simulated), and reserves capacity plus writes
// the order in one transaction.
type Local struct {
	DB     *sql.DB
	Events repositories.EventRepository
	Orders repositories.OrderRepository
}

func (g Local) db() *sql.DB {
	if g.DB != nil {
		return g.DB
	}
	return intconfig.DB
}

func (g Local) SubmitOrder(ctx context.Context, req OrderRequest) (Confirmation, error) {
	if req.Quantity < 1 {
		return Confirmation{}, domain.ValidationError{Field: "quantity", Msg: "must be at least 1"}
	}
	if req.Buyer.Email == "" {
		return Confirmation{}, domain.ValidationError{Field: "email", Msg: "buyer email required"}
	}

	ev, err := g.Events.GetByID(req.EventID)
	if err != nil {
		return Confirmation{}, asUnavailable(err)
	}

	// the total is always recomputed from the unit price; a stale or
	// tampered client total is rejected rather than charged
	expected := domain.Quote(ev.Price.Amount, req.Quantity)
	if !expected.Total.Equal(req.Total) {
		return Confirmation{}, domain.ValidationError{Field: "total", Msg: "total does not match current pricing"}
	}

	if expected.Total.IsPositive() {
		if err := capture(req.Instrument); err != nil {
			return Confirmation{}, err
		}
	}

	order := models.Order{
		ID:         uuid.NewString(),
		EventID:    ev.ID,
		Quantity:   req.Quantity,
		Buyer:      req.Buyer,
		Subtotal:   expected.Subtotal,
		ServiceFee: expected.ServiceFee,
		Total:      expected.Total,
		Currency:   ev.Price.Currency,
		Status:     models.OrderConfirmed,
		CreatedAt:  time.Now(),
	}

	tx, err := g.db().BeginTx(ctx, nil)
	if err != nil {
		return Confirmation{}, asUnavailable(err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := g.Events.ReserveCapacityTx(tx, ev.ID, req.Quantity); err != nil {
		return Confirmation{}, asUnavailable(err)
	}
	if err := g.Orders.CreateTx(tx, order); err != nil {
		return Confirmation{}, asUnavailable(err)
	}
	if err := tx.Commit(); err != nil {
		return Confirmation{}, asUnavailable(err)
	}

	utils.LogEvent("", "gateway", "order_confirmed",
		fmt.Sprintf("order_id=%s event_id=%s qty=%d total=%s", order.ID, ev.ID, order.Quantity, utils.FormatAmount(order.Total)))

	return Confirmation{OrderID: order.ID, Status: order.Status}, nil
}

// capture simulates card processing for paid orders.
func capture(instrument *models.PaymentInstrument) error {
	if instrument == nil {
		return domain.ValidationError{Field: "paymentInstrument", Msg: "payment details required for paid events"}
	}
	card := utils.DigitsOnly(instrument.CardNumber)
	if n := len(card); n < 12 || n > 19 {
		return domain.ValidationError{Field: "cardNumber", Msg: "card number is not valid"}
	}
	if instrument.Expiry == "" || instrument.CVC == "" || instrument.BillingZip == "" {
		return domain.ValidationError{Field: "paymentInstrument", Msg: "incomplete payment details"}
	}
	if card == DeclineCard {
		return domain.PaymentDeclinedError{Msg: "card was declined"}
	}
	return nil
}

// asUnavailable wraps infrastructure failures as transient gateway errors
// while letting typed domain errors pass through untouched.
func asUnavailable(err error) error {
	if domain.IsNotFound(err) || domain.IsValidation(err) || domain.IsCapacityExceeded(err) || domain.IsPaymentDeclined(err) {
		return err
	}
	return domain.UnavailableError{Msg: "order service unavailable", Err: err}
}
