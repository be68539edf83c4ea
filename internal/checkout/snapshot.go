package checkout

import (
	"eventwave/internal/domain"
	"eventwave/internal/domain/models"
	"eventwave/internal/utils"
)

// TotalsView is the display form of priced totals, rounded to two places.
type TotalsView struct {
	Subtotal   string `json:"subtotal"`
	ServiceFee string `json:"serviceFee"`
	Total      string `json:"total"`
	Currency   string `json:"currency"`
}

// Snapshot is the session state exposed to the client view.
type Snapshot struct {
	ID           string              `json:"id"`
	EventID      string              `json:"eventId"`
	CurrentStep  Step                `json:"currentStep"`
	Quantity     int                 `json:"quantity"`
	Totals       TotalsView          `json:"totals"`
	Buyer        models.BuyerDetails `json:"buyer"`
	Errors       map[string]string   `json:"errors,omitempty"`
	Message      string              `json:"message,omitempty"`
	IsSubmitting bool                `json:"isSubmitting"`
	SoldOut      bool                `json:"soldOut"`
	OrderID      string              `json:"orderId,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := s.totals
	if s.step == StepConfirmation {
		// confirmation shows what was actually charged
		totals = s.frozen
	}

	var fields map[string]string
	if len(s.fieldErrors) > 0 {
		fields = make(map[string]string, len(s.fieldErrors))
		for k, v := range s.fieldErrors {
			fields[k] = v
		}
	}

	return Snapshot{
		ID:           s.id,
		EventID:      s.event.ID,
		CurrentStep:  s.step,
		Quantity:     s.quantity,
		Totals:       totalsView(totals, s.event.Price.Currency),
		Buyer:        s.buyer,
		Errors:       fields,
		Message:      s.lastMessage,
		IsSubmitting: s.submitting,
		SoldOut:      s.soldOut,
		OrderID:      s.orderID,
	}
}

func totalsView(t domain.Totals, currency string) TotalsView {
	return TotalsView{
		Subtotal:   utils.FormatAmount(t.Subtotal),
		ServiceFee: utils.FormatAmount(t.ServiceFee),
		Total:      utils.FormatAmount(t.Total),
		Currency:   currency,
	}
}
