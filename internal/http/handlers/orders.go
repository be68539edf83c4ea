package handlers

import (
	"fmt"
	"net/http"

	"eventwave/internal/domain/models"
	"eventwave/internal/http/middleware"
	"eventwave/internal/repositories"
	"eventwave/internal/services"
	"eventwave/internal/utils"

	"github.com/gin-gonic/gin"
)

// OrderDTO is the order payload shape for confirmation and lookup endpoints.
type OrderDTO struct {
	ID         string              `json:"id"`
	EventID    string              `json:"eventId"`
	Quantity   int                 `json:"quantity"`
	Buyer      models.BuyerDetails `json:"buyer"`
	Subtotal   string              `json:"subtotal"`
	ServiceFee string              `json:"serviceFee"`
	Total      string              `json:"total"`
	Currency   string              `json:"currency"`
	Status     string              `json:"status"`
	CreatedAt  string              `json:"createdAt"`
}

func toOrderDTO(o models.Order) OrderDTO {
	return OrderDTO{
		ID:         o.ID,
		EventID:    o.EventID,
		Quantity:   o.Quantity,
		Buyer:      o.Buyer,
		Subtotal:   utils.FormatAmount(o.Subtotal),
		ServiceFee: utils.FormatAmount(o.ServiceFee),
		Total:      utils.FormatAmount(o.Total),
		Currency:   o.Currency,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	repo := repositories.OrderRepository{}
	order, err := repo.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": toOrderDTO(order)})
}

// GET /api/v1/orders?email=...
func ListOrdersByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "email query parameter is required", nil)
		return
	}

	repo := repositories.OrderRepository{}
	orders, err := repo.ListByEmail(email)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	out := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderDTO(o))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

// GET /api/v1/orders/:id/e-ticket
func GetOrderETicket(c *gin.Context) {
	svc := services.TicketService{RequestID: middleware.GetRequestID(c)}
	pdf, filename, err := svc.GenerateETicket(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
