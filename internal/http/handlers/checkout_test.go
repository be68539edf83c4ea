package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventwave/internal/checkout"
	"eventwave/internal/domain"
	"eventwave/internal/domain/models"
	"eventwave/internal/gateway"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type stubGateway struct {
	err error
}

func (g *stubGateway) SubmitOrder(ctx context.Context, req gateway.OrderRequest) (gateway.Confirmation, error) {
	if g.err != nil {
		return gateway.Confirmation{}, g.err
	}
	return gateway.Confirmation{OrderID: "ord-1", Status: models.OrderConfirmed}, nil
}

func testEvent() models.Event {
	return models.Event{
		ID:     "ev-1",
		Title:  "Summer Fest",
		Date:   "2099-09-12",
		Time:   "18:00",
		Price:  models.Price{Amount: decimal.RequireFromString("50.00"), Currency: "$"},
		Status: models.EventUpcoming,
	}
}

func checkoutRouter(t *testing.T, gw gateway.Gateway) (*gin.Engine, *checkout.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := checkout.NewStore(30 * time.Minute)
	t.Cleanup(store.Close)
	SetCheckout(store, gw)
	t.Cleanup(func() { SetCheckout(nil, nil) })

	r := gin.New()
	co := r.Group("/api/v1/checkout")
	co.GET("/:id", GetCheckout)
	co.PUT("/:id/quantity", UpdateQuantity)
	co.POST("/:id/details", SubmitDetails)
	co.POST("/:id/payment", SubmitPayment)
	co.POST("/:id/back", StepBack)
	co.DELETE("/:id", CancelCheckout)
	return r, store
}

func seedSession(t *testing.T, store *checkout.Store, gw gateway.Gateway, ev models.Event, qty int) *checkout.Session {
	t.Helper()
	session, err := checkout.NewSession(ev, qty, gw)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	store.Put(session)
	return session
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeCheckout(t *testing.T, w *httptest.ResponseRecorder) checkout.Snapshot {
	t.Helper()
	var resp struct {
		Checkout checkout.Snapshot `json:"checkout"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, w.Body.String())
	}
	return resp.Checkout
}

func TestCheckoutFlowOverHTTP(t *testing.T) {
	gw := &stubGateway{}
	r, store := checkoutRouter(t, gw)
	session := seedSession(t, store, gw, testEvent(), 2)
	base := "/api/v1/checkout/" + session.ID()

	w := doJSON(t, r, http.MethodPut, base+"/quantity", gin.H{"quantity": 3})
	if w.Code != http.StatusOK {
		t.Fatalf("quantity update: status %d body %s", w.Code, w.Body.String())
	}
	snap := decodeCheckout(t, w)
	if snap.Totals.Total != "157.50" {
		t.Fatalf("expected total 157.50, got %s", snap.Totals.Total)
	}

	w = doJSON(t, r, http.MethodPost, base+"/details", gin.H{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
		"phone":      "555-0100",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("details: status %d body %s", w.Code, w.Body.String())
	}
	if snap = decodeCheckout(t, w); snap.CurrentStep != checkout.StepPayment {
		t.Fatalf("expected payment step, got %s", snap.CurrentStep)
	}

	w = doJSON(t, r, http.MethodPost, base+"/payment", gin.H{
		"card_number": "4242 4242 4242 4242",
		"expiry":      "12/30",
		"cvc":         "123",
		"billing_zip": "94107",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("payment: status %d body %s", w.Code, w.Body.String())
	}
	snap = decodeCheckout(t, w)
	if snap.CurrentStep != checkout.StepConfirmation {
		t.Fatalf("expected confirmation step, got %s", snap.CurrentStep)
	}
	if snap.OrderID != "ord-1" {
		t.Fatalf("expected order id from gateway, got %q", snap.OrderID)
	}
}

func TestSubmitDetailsValidationReturns400WithFields(t *testing.T) {
	gw := &stubGateway{}
	r, store := checkoutRouter(t, gw)
	session := seedSession(t, store, gw, testEvent(), 1)

	w := doJSON(t, r, http.MethodPost, "/api/v1/checkout/"+session.ID()+"/details", gin.H{
		"first_name": "",
		"email":      "not-an-email",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "validation_error" {
		t.Fatalf("expected validation_error code, got %q", resp.Code)
	}
	if resp.Details["email"] == "" || resp.Details["firstName"] == "" {
		t.Fatalf("expected field errors for email and firstName, got %v", resp.Details)
	}
}

func TestPaymentDeclinedReturns402(t *testing.T) {
	gw := &stubGateway{err: domain.PaymentDeclinedError{Msg: "card declined"}}
	r, store := checkoutRouter(t, gw)
	session := seedSession(t, store, gw, testEvent(), 1)
	base := "/api/v1/checkout/" + session.ID()

	doJSON(t, r, http.MethodPost, base+"/details", gin.H{
		"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com", "phone": "555-0100",
	})
	w := doJSON(t, r, http.MethodPost, base+"/payment", gin.H{
		"card_number": "4000000000000002", "expiry": "12/30", "cvc": "123", "billing_zip": "94107",
	})
	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d body %s", w.Code, w.Body.String())
	}
}

func TestSoldOutReturns409(t *testing.T) {
	gw := &stubGateway{err: domain.CapacityExceededError{Available: 1}}
	r, store := checkoutRouter(t, gw)
	session := seedSession(t, store, gw, testEvent(), 2)
	base := "/api/v1/checkout/" + session.ID()

	doJSON(t, r, http.MethodPost, base+"/details", gin.H{
		"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com", "phone": "555-0100",
	})
	w := doJSON(t, r, http.MethodPost, base+"/payment", gin.H{
		"card_number": "4242424242424242", "expiry": "12/30", "cvc": "123", "billing_zip": "94107",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "sold_out" {
		t.Fatalf("expected sold_out code, got %q", resp.Code)
	}
}

func TestGatewayUnavailableReturns503(t *testing.T) {
	gw := &stubGateway{err: domain.UnavailableError{Msg: "gateway timeout"}}
	r, store := checkoutRouter(t, gw)
	session := seedSession(t, store, gw, testEvent(), 1)
	base := "/api/v1/checkout/" + session.ID()

	doJSON(t, r, http.MethodPost, base+"/details", gin.H{
		"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com", "phone": "555-0100",
	})
	w := doJSON(t, r, http.MethodPost, base+"/payment", gin.H{
		"card_number": "4242424242424242", "expiry": "12/30", "cvc": "123", "billing_zip": "94107",
	})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d body %s", w.Code, w.Body.String())
	}
}

func TestUnknownSessionReturns404(t *testing.T) {
	r, _ := checkoutRouter(t, &stubGateway{})

	w := doJSON(t, r, http.MethodGet, "/api/v1/checkout/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCancelCheckoutRemovesSession(t *testing.T) {
	gw := &stubGateway{}
	r, store := checkoutRouter(t, gw)
	session := seedSession(t, store, gw, testEvent(), 1)
	base := "/api/v1/checkout/" + session.ID()

	w := doJSON(t, r, http.MethodDelete, base, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: status %d body %s", w.Code, w.Body.String())
	}
	if w = doJSON(t, r, http.MethodGet, base, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after cancel, got %d", w.Code)
	}
}
