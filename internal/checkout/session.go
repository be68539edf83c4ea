package checkout

import (
	"context"
	"net/mail"
	"strings"
	"sync"
	"time"

	"eventwave/internal/domain"
	"eventwave/internal/domain/models"
	"eventwave/internal/gateway"
	"eventwave/internal/utils"

	"github.com/google/uuid"
)

// Step is the checkout wizard position. Transitions only move forward
// (details -> payment -> confirmation) except for Back, which reopens details.
type Step string

const (
	StepDetails      Step = "details"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

// Session drives one buyer's in-progress ticket purchase for a single event.
// The event snapshot is immutable for the session lifetime; quantity can only
// change while the session is still on the details step. At most one gateway
// submission is in flight at any time.
type Session struct {
	mu sync.Mutex

	id       string
	event    models.Event
	quantity int
	step     Step

	buyer      models.BuyerDetails
	instrument models.PaymentInstrument

	totals domain.Totals
	frozen domain.Totals // locked at submission time, shown on confirmation

	fieldErrors domain.FieldErrors
	lastMessage string

	submitting bool
	soldOut    bool
	closed     bool
	orderID    string

	gw gateway.Gateway

	createdAt time.Time
	lastSeen  time.Time
}

func NewSession(event models.Event, quantity int, gw gateway.Gateway) (*Session, error) {
	if gw == nil {
		return nil, domain.InternalError{Msg: "checkout gateway not configured"}
	}
	if event.ID == "" {
		return nil, domain.ValidationError{Field: "eventId", Msg: "event id required"}
	}
	if event.Price.Amount.IsNegative() {
		return nil, domain.ValidationError{Field: "price", Msg: "price cannot be negative"}
	}
	if event.Status == models.EventPast {
		return nil, domain.ConflictError{Resource: "event", Msg: "event already ended"}
	}
	if quantity < 1 {
		quantity = 1
	}

	now := time.Now()
	return &Session{
		id:        uuid.NewString(),
		event:     event,
		quantity:  quantity,
		step:      StepDetails,
		totals:    domain.Quote(event.Price.Amount, quantity),
		gw:        gw,
		createdAt: now,
		lastSeen:  now,
	}, nil
}

func (s *Session) ID() string {
	return s.id
}

// SetQuantity adjusts the ticket count and requotes totals. It is only
// allowed while the session is still on the details step.
func (s *Session) SetQuantity(quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if err := s.guardOpen(); err != nil {
		return err
	}
	if s.step != StepDetails {
		return domain.ConflictError{Resource: "checkout", Msg: "quantity is locked after details are submitted"}
	}
	if quantity < 1 {
		return domain.ValidationError{Field: "quantity", Msg: "must be at least 1"}
	}

	if quantity != s.quantity {
		// a different quantity makes a previous sold-out verdict stale
		s.soldOut = false
	}
	s.quantity = quantity
	s.totals = domain.Quote(s.event.Price.Amount, quantity)
	return nil
}

// SubmitDetails validates buyer information and advances to the payment
// step. Free events skip payment entirely: the order is submitted here with
// no payment instrument.
func (s *Session) SubmitDetails(ctx context.Context, buyer models.BuyerDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if err := s.guardOpen(); err != nil {
		return err
	}
	if s.step != StepDetails {
		return domain.ConflictError{Resource: "checkout", Msg: "details already submitted"}
	}

	clean, fields := validateBuyer(buyer)
	if len(fields) > 0 {
		s.fieldErrors = fields
		return fields
	}
	s.fieldErrors = nil
	s.buyer = clean

	if s.event.Price.Free() {
		return s.submitOrder(ctx, nil)
	}

	s.step = StepPayment
	return nil
}

// SubmitPayment validates the card input and performs the single gateway
// submission. The totals charged are frozen before the call so a later
// quantity change can never drift from the amount submitted.
func (s *Session) SubmitPayment(ctx context.Context, instrument models.PaymentInstrument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if err := s.guardOpen(); err != nil {
		return err
	}
	if s.step != StepPayment {
		return domain.ConflictError{Resource: "checkout", Msg: "session is not on the payment step"}
	}
	if s.soldOut {
		return domain.CapacityExceededError{}
	}

	clean, fields := validateInstrument(instrument)
	if len(fields) > 0 {
		s.fieldErrors = fields
		return fields
	}
	s.fieldErrors = nil
	s.instrument = clean

	inst := clean
	return s.submitOrder(ctx, &inst)
}

// Back reopens the details step. The payment instrument is cleared, not
// preserved: card data must never survive a step change.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if err := s.guardOpen(); err != nil {
		return err
	}
	if s.step != StepPayment {
		return domain.ConflictError{Resource: "checkout", Msg: "nothing to go back to"}
	}

	s.step = StepDetails
	s.instrument = models.PaymentInstrument{}
	s.fieldErrors = nil
	s.lastMessage = ""
	return nil
}

// Close ends the session. Rejected while a submission is in flight so an
// order cannot be orphaned mid-capture.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return domain.ConflictError{Resource: "checkout", Msg: "submission in progress"}
	}
	s.closed = true
	s.instrument = models.PaymentInstrument{}
	return nil
}

// Busy reports whether a gateway call is in flight. The store sweeper must
// not evict a busy session.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

func (s *Session) guardOpen() error {
	if s.closed {
		return domain.NotFoundError{Resource: "checkout session"}
	}
	if s.submitting {
		return domain.ConflictError{Resource: "checkout", Msg: "submission in progress"}
	}
	return nil
}

// submitOrder performs the single gateway call. Caller holds s.mu with input
// already validated; the lock is released for the round-trip so snapshots
// stay responsive, and the submitting flag keeps every other mutation out.
func (s *Session) submitOrder(ctx context.Context, instrument *models.PaymentInstrument) error {
	s.submitting = true
	s.frozen = s.totals

	req := gateway.OrderRequest{
		EventID:    s.event.ID,
		Quantity:   s.quantity,
		Buyer:      s.buyer,
		Instrument: instrument,
		Subtotal:   s.frozen.Subtotal,
		ServiceFee: s.frozen.ServiceFee,
		Total:      s.frozen.Total,
		Currency:   s.event.Price.Currency,
	}

	s.mu.Unlock()
	conf, err := s.gw.SubmitOrder(ctx, req)
	s.mu.Lock()

	s.submitting = false
	if err != nil {
		switch {
		case domain.IsCapacityExceeded(err):
			s.soldOut = true
			s.lastMessage = err.Error()
		case domain.IsPaymentDeclined(err), domain.IsUnavailable(err):
			s.lastMessage = err.Error()
		default:
			if fields, ok := domain.FieldErrorsOf(err); ok {
				s.fieldErrors = fields
			}
			s.lastMessage = "could not complete the order"
		}
		return err
	}

	if conf.OrderID == "" {
		// local fallback keeps the confirmation usable when the gateway
		// reports success without an id
		conf.OrderID = uuid.NewString()
	}

	s.step = StepConfirmation
	s.orderID = conf.OrderID
	s.instrument = models.PaymentInstrument{}
	s.fieldErrors = nil
	s.lastMessage = ""
	return nil
}

func (s *Session) touch() {
	s.lastSeen = time.Now()
}

func (s *Session) expired(ttl time.Duration, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return false
	}
	return s.closed || now.Sub(s.lastSeen) > ttl
}

func validateBuyer(b models.BuyerDetails) (models.BuyerDetails, domain.FieldErrors) {
	clean := models.BuyerDetails{
		FirstName: utils.NormalizeSpace(b.FirstName),
		LastName:  utils.NormalizeSpace(b.LastName),
		Email:     strings.ToLower(utils.TrimOrEmpty(b.Email)),
		Phone:     utils.TrimOrEmpty(b.Phone),
	}

	fields := domain.FieldErrors{}
	if clean.FirstName == "" {
		fields["firstName"] = "first name is required"
	}
	if clean.LastName == "" {
		fields["lastName"] = "last name is required"
	}
	if clean.Email == "" {
		fields["email"] = "email is required"
	} else if _, err := mail.ParseAddress(clean.Email); err != nil {
		fields["email"] = "email is not valid"
	}
	if clean.Phone == "" {
		fields["phone"] = "phone number is required"
	}

	if len(fields) == 0 {
		return clean, nil
	}
	return clean, fields
}

func validateInstrument(in models.PaymentInstrument) (models.PaymentInstrument, domain.FieldErrors) {
	clean := models.PaymentInstrument{
		CardNumber: utils.DigitsOnly(in.CardNumber),
		Expiry:     utils.TrimOrEmpty(in.Expiry),
		CVC:        utils.TrimOrEmpty(in.CVC),
		BillingZip: utils.TrimOrEmpty(in.BillingZip),
	}

	fields := domain.FieldErrors{}
	if n := len(clean.CardNumber); n < 12 || n > 19 {
		fields["cardNumber"] = "card number is not valid"
	}
	if clean.Expiry == "" {
		fields["expiry"] = "expiry is required"
	}
	if n := len(utils.DigitsOnly(clean.CVC)); n < 3 || n > 4 {
		fields["cvc"] = "security code is not valid"
	}
	if clean.BillingZip == "" {
		fields["billingZip"] = "billing zip is required"
	}

	if len(fields) == 0 {
		return clean, nil
	}
	return clean, fields
}
