package gateway

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"eventwave/internal/domain"
	"eventwave/internal/domain/models"
	"eventwave/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

var eventColumns = []string{
	"id", "title", "description", "start_date", "start_time",
	"venue_name", "venue_address", "lat", "lng",
	"price_amount", "currency", "category_id",
	"image", "capacity", "sold",
	"organizer_id", "organizer_name", "organizer_avatar", "organizer_description",
}

func eventRow(price string, capacity, sold int) *sqlmock.Rows {
	return sqlmock.NewRows(eventColumns).AddRow(
		"evt-1", "Indie Night", "", "2030-05-01", "19:00",
		"The Venue", "1 Main St", nil, nil,
		price, "$", 1,
		"", capacity, sold,
		7, "Host Co", "", "",
	)
}

func newLocal(t *testing.T) (Local, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return Local{
		DB:     db,
		Events: repositories.EventRepository{DB: db},
		Orders: repositories.OrderRepository{DB: db},
	}, mock
}

func orderRequest(total string, instrument *models.PaymentInstrument) OrderRequest {
	return OrderRequest{
		EventID:  "evt-1",
		Quantity: 3,
		Buyer: models.BuyerDetails{
			FirstName: "Ada", LastName: "Lovelace",
			Email: "ada@example.com", Phone: "+1 555 0100",
		},
		Instrument: instrument,
		Total:      decimal.RequireFromString(total),
		Currency:   "$",
	}
}

func validCard() *models.PaymentInstrument {
	return &models.PaymentInstrument{
		CardNumber: "4242424242424242",
		Expiry:     "12/30",
		CVC:        "123",
		BillingZip: "94107",
	}
}

func TestSubmitOrderConfirms(t *testing.T) {
	gw, mock := newLocal(t)

	mock.ExpectQuery("FROM events").WithArgs("evt-1").
		WillReturnRows(eventRow("50.00", 100, 10))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE events").WithArgs(3, "evt-1", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	conf, err := gw.SubmitOrder(context.Background(), orderRequest("157.5", validCard()))
	if err != nil {
		t.Fatalf("SubmitOrder returned error: %v", err)
	}
	if conf.OrderID == "" {
		t.Fatalf("expected order id")
	}
	if conf.Status != models.OrderConfirmed {
		t.Fatalf("unexpected status %q", conf.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitOrderFreeEventWithoutInstrument(t *testing.T) {
	gw, mock := newLocal(t)

	mock.ExpectQuery("FROM events").WithArgs("evt-1").
		WillReturnRows(eventRow("0", 0, 0))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE events").WithArgs(3, "evt-1", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	conf, err := gw.SubmitOrder(context.Background(), orderRequest("0", nil))
	if err != nil {
		t.Fatalf("free order should confirm without card data, got %v", err)
	}
	if conf.OrderID == "" {
		t.Fatalf("expected order id")
	}
}

func TestSubmitOrderRejectsStaleTotal(t *testing.T) {
	gw, mock := newLocal(t)

	mock.ExpectQuery("FROM events").WithArgs("evt-1").
		WillReturnRows(eventRow("60.00", 100, 0))

	_, err := gw.SubmitOrder(context.Background(), orderRequest("157.5", validCard()))
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error on total mismatch, got %v", err)
	}
}

func TestSubmitOrderDeclinesTestCard(t *testing.T) {
	gw, mock := newLocal(t)

	mock.ExpectQuery("FROM events").WithArgs("evt-1").
		WillReturnRows(eventRow("50.00", 100, 0))

	card := validCard()
	card.CardNumber = DeclineCard
	_, err := gw.SubmitOrder(context.Background(), orderRequest("157.5", card))
	if !domain.IsPaymentDeclined(err) {
		t.Fatalf("expected payment declined, got %v", err)
	}
}

func TestSubmitOrderRequiresInstrumentWhenPaid(t *testing.T) {
	gw, mock := newLocal(t)

	mock.ExpectQuery("FROM events").WithArgs("evt-1").
		WillReturnRows(eventRow("50.00", 100, 0))

	_, err := gw.SubmitOrder(context.Background(), orderRequest("157.5", nil))
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitOrderCapacityExceeded(t *testing.T) {
	gw, mock := newLocal(t)

	mock.ExpectQuery("FROM events").WithArgs("evt-1").
		WillReturnRows(eventRow("50.00", 12, 10))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE events").WithArgs(3, "evt-1", 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COALESCE\\(capacity").WithArgs("evt-1").
		WillReturnRows(sqlmock.NewRows([]string{"capacity", "sold"}).AddRow(12, 10))
	mock.ExpectRollback()

	_, err := gw.SubmitOrder(context.Background(), orderRequest("157.5", validCard()))
	if !domain.IsCapacityExceeded(err) {
		t.Fatalf("expected capacity exceeded, got %v", err)
	}
	var capErr domain.CapacityExceededError
	if ok := errors.As(err, &capErr); !ok || capErr.Available != 2 {
		t.Fatalf("expected 2 tickets left, got %+v", capErr)
	}
}

func TestSubmitOrderUnavailableOnDBError(t *testing.T) {
	gw, mock := newLocal(t)

	mock.ExpectQuery("FROM events").WithArgs("evt-1").
		WillReturnError(fmt.Errorf("connection refused"))

	_, err := gw.SubmitOrder(context.Background(), orderRequest("157.5", validCard()))
	if !domain.IsUnavailable(err) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestSubmitOrderUnknownEvent(t *testing.T) {
	gw, mock := newLocal(t)

	mock.ExpectQuery("FROM events").WithArgs("evt-1").
		WillReturnRows(sqlmock.NewRows(eventColumns))

	_, err := gw.SubmitOrder(context.Background(), orderRequest("157.5", validCard()))
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
