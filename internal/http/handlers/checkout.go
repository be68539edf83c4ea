package handlers

import (
	"net/http"
	"sync"

	"eventwave/internal/checkout"
	"eventwave/internal/domain"
	"eventwave/internal/domain/models"
	"eventwave/internal/gateway"
	"eventwave/internal/http/middleware"
	"eventwave/internal/monitoring"
	"eventwave/internal/services"
	"eventwave/internal/utils"

	"github.com/gin-gonic/gin"
)

var (
	checkoutMu    sync.RWMutex
	checkoutStore *checkout.Store
	checkoutGw    gateway.Gateway
)

// SetCheckout installs the session store and reservation gateway used by the
// checkout endpoints.
func SetCheckout(store *checkout.Store, gw gateway.Gateway) {
	checkoutMu.Lock()
	defer checkoutMu.Unlock()
	checkoutStore = store
	checkoutGw = gw
}

func checkoutDeps() (*checkout.Store, gateway.Gateway, bool) {
	checkoutMu.RLock()
	defer checkoutMu.RUnlock()
	return checkoutStore, checkoutGw, checkoutStore != nil && checkoutGw != nil
}

func submissionOutcome(err error) string {
	switch {
	case err == nil:
		return "confirmed"
	case domain.IsPaymentDeclined(err):
		return "payment_declined"
	case domain.IsCapacityExceeded(err):
		return "sold_out"
	case domain.IsUnavailable(err):
		return "unavailable"
	default:
		return "validation_error"
	}
}

func loadSession(c *gin.Context) (*checkout.Session, bool) {
	store, _, ok := checkoutDeps()
	if !ok {
		respondError(c, http.StatusServiceUnavailable, "gateway_unavailable", "checkout is not available", nil)
		return nil, false
	}
	session, err := store.Get(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return nil, false
	}
	return session, true
}

type startCheckoutRequest struct {
	EventID  string `json:"event_id"`
	Quantity int    `json:"quantity"`
}

// POST /api/v1/checkout
func StartCheckout(c *gin.Context) {
	store, gw, ok := checkoutDeps()
	if !ok {
		respondError(c, http.StatusServiceUnavailable, "gateway_unavailable", "checkout is not available", nil)
		return
	}

	var req startCheckoutRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.EventID == "" {
		RespondDomainError(c, domain.ValidationError{Field: "event_id", Msg: "event id is required"})
		return
	}

	svc := services.CatalogService{RequestID: middleware.GetRequestID(c)}
	event, err := svc.EventByID(req.EventID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	session, err := checkout.NewSession(event, req.Quantity, gw)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	store.Put(session)
	monitoring.SessionStarted()
	utils.LogEvent(middleware.GetRequestID(c), "checkout", "start", "session "+session.ID()+" for event "+event.ID)

	c.JSON(http.StatusCreated, gin.H{"checkout": session.Snapshot()})
}

// GET /api/v1/checkout/:id
func GetCheckout(c *gin.Context) {
	session, ok := loadSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkout": session.Snapshot()})
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// PUT /api/v1/checkout/:id/quantity
func UpdateQuantity(c *gin.Context) {
	session, ok := loadSession(c)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if err := session.SetQuantity(req.Quantity); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkout": session.Snapshot()})
}

type submitDetailsRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// POST /api/v1/checkout/:id/details
func SubmitDetails(c *gin.Context) {
	session, ok := loadSession(c)
	if !ok {
		return
	}

	var req submitDetailsRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	buyer := models.BuyerDetails{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}

	err := session.SubmitDetails(c.Request.Context(), buyer)
	if err != nil {
		// Free events submit the order here, so gateway outcomes surface too.
		if outcome := submissionOutcome(err); outcome != "validation_error" {
			monitoring.GatewaySubmission(outcome)
		}
		RespondDomainError(c, err)
		return
	}

	snap := session.Snapshot()
	if snap.CurrentStep == checkout.StepConfirmation {
		monitoring.GatewaySubmission("confirmed")
	}
	c.JSON(http.StatusOK, gin.H{"checkout": snap})
}

type submitPaymentRequest struct {
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"`
	CVC        string `json:"cvc"`
	BillingZip string `json:"billing_zip"`
}

// POST /api/v1/checkout/:id/payment
func SubmitPayment(c *gin.Context) {
	session, ok := loadSession(c)
	if !ok {
		return
	}

	var req submitPaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	instrument := models.PaymentInstrument{
		CardNumber: req.CardNumber,
		Expiry:     req.Expiry,
		CVC:        req.CVC,
		BillingZip: req.BillingZip,
	}

	err := session.SubmitPayment(c.Request.Context(), instrument)
	if err != nil {
		monitoring.GatewaySubmission(submissionOutcome(err))
		RespondDomainError(c, err)
		return
	}

	monitoring.GatewaySubmission("confirmed")
	c.JSON(http.StatusOK, gin.H{"checkout": session.Snapshot()})
}

// POST /api/v1/checkout/:id/back
func StepBack(c *gin.Context) {
	session, ok := loadSession(c)
	if !ok {
		return
	}
	if err := session.Back(); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkout": session.Snapshot()})
}

// DELETE /api/v1/checkout/:id
func CancelCheckout(c *gin.Context) {
	store, _, ok := checkoutDeps()
	if !ok {
		respondError(c, http.StatusServiceUnavailable, "gateway_unavailable", "checkout is not available", nil)
		return
	}
	session, err := store.Get(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := session.Close(); err != nil {
		RespondDomainError(c, err)
		return
	}
	store.Delete(session.ID())
	c.JSON(http.StatusOK, gin.H{"message": "checkout cancelled"})
}
