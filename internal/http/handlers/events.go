package handlers

import (
	"net/http"
	"strconv"

	"eventwave/internal/domain/models"
	"eventwave/internal/http/middleware"
	"eventwave/internal/services"
	"eventwave/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func catalogService(c *gin.Context) services.CatalogService {
	return services.CatalogService{RequestID: middleware.GetRequestID(c)}
}

// EventDTO is the event payload shape for listing and detail endpoints.
// Price amounts are formatted to two decimals for display.
type EventDTO struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
	Time        string           `json:"time"`
	Location    models.Location  `json:"location"`
	Price       string           `json:"price"`
	Currency    string           `json:"currency"`
	Free        bool             `json:"free"`
	Organizer   models.Organizer `json:"organizer"`
	CategoryID  int64            `json:"categoryId"`
	Image       string           `json:"image,omitempty"`
	Capacity    int              `json:"capacity"`
	Remaining   *int             `json:"remaining,omitempty"`
	Status      string           `json:"status"`
}

func toEventDTO(ev models.Event) EventDTO {
	dto := EventDTO{
		ID:          ev.ID,
		Title:       ev.Title,
		Description: ev.Description,
		Date:        ev.Date,
		Time:        ev.Time,
		Location:    ev.Location,
		Price:       utils.FormatAmount(ev.Price.Amount),
		Currency:    ev.Price.Currency,
		Free:        ev.Price.Free(),
		Organizer:   ev.Organizer,
		CategoryID:  ev.CategoryID,
		Image:       ev.Image,
		Capacity:    ev.Capacity,
		Status:      ev.Status,
	}
	if ev.Capacity > 0 {
		remaining := ev.Capacity - ev.Sold
		if remaining < 0 {
			remaining = 0
		}
		dto.Remaining = &remaining
	}
	return dto
}

func toEventDTOs(events []models.Event) []EventDTO {
	out := make([]EventDTO, 0, len(events))
	for _, ev := range events {
		out = append(out, toEventDTO(ev))
	}
	return out
}

// GET /api/v1/events
func ListEvents(c *gin.Context) {
	svc := catalogService(c)

	var (
		events []models.Event
		err    error
	)
	switch {
	case c.Query("category") != "":
		categoryID, perr := strconv.ParseInt(c.Query("category"), 10, 64)
		if perr != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "category must be numeric", nil)
			return
		}
		events, err = svc.EventsByCategory(categoryID)
	case c.Query("filter") == "upcoming":
		events, err = svc.UpcomingEvents()
	default:
		events, err = svc.ListEvents()
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": toEventDTOs(events)})
}

// GET /api/v1/events/upcoming
func ListUpcomingEvents(c *gin.Context) {
	events, err := catalogService(c).UpcomingEvents()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": toEventDTOs(events)})
}

// GET /api/v1/events/category/:id
func ListEventsByCategory(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "category id must be numeric", nil)
		return
	}

	events, err := catalogService(c).EventsByCategory(categoryID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": toEventDTOs(events)})
}

// GET /api/v1/events/:id
func GetEvent(c *gin.Context) {
	ev, err := catalogService(c).EventByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": toEventDTO(ev)})
}

type createEventRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Location    models.Location `json:"location"`
	Price       string          `json:"price"`
	Currency    string          `json:"currency"`
	OrganizerID int64           `json:"organizerId"`
	CategoryID  int64           `json:"categoryId"`
	Image       string          `json:"image"`
	Capacity    int             `json:"capacity"`
}

// POST /api/v1/events
func CreateEvent(c *gin.Context) {
	var req createEventRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	amount := decimal.Zero
	if req.Price != "" {
		parsed, err := decimal.NewFromString(req.Price)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "price must be a decimal amount", nil)
			return
		}
		amount = parsed
	}

	ev := models.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		Price:       models.Price{Amount: amount, Currency: req.Currency},
		Organizer:   models.Organizer{ID: req.OrganizerID},
		CategoryID:  req.CategoryID,
		Image:       req.Image,
		Capacity:    req.Capacity,
	}

	created, err := catalogService(c).CreateEvent(ev)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": toEventDTO(created)})
}
