package services

import (
	"fmt"
	"time"

	"eventwave/internal/domain"
	"eventwave/internal/domain/models"
	"eventwave/internal/repositories"
	"eventwave/internal/utils"

	"github.com/google/uuid"
)

// CatalogService is the read side of the event catalog plus organizer-facing
// event/category creation. Event status (upcoming/past) is derived from the
// schedule at read time.
type CatalogService struct {
	Events     repositories.EventRepository
	Categories repositories.CategoryRepository
	RequestID  string
}

func (s CatalogService) ListEvents() ([]models.Event, error) {
	events, err := s.Events.List()
	if err != nil {
		return nil, err
	}
	deriveStatuses(events)
	return events, nil
}

func (s CatalogService) UpcomingEvents() ([]models.Event, error) {
	events, err := s.Events.ListUpcoming(utils.FormatDate(time.Now()))
	if err != nil {
		return nil, err
	}
	deriveStatuses(events)
	return events, nil
}

func (s CatalogService) EventByID(id string) (models.Event, error) {
	ev, err := s.Events.GetByID(id)
	if err != nil {
		return models.Event{}, err
	}
	ev.Status = deriveStatus(ev)
	return ev, nil
}

func (s CatalogService) EventsByCategory(categoryID int64) ([]models.Event, error) {
	if _, err := s.Categories.GetByID(categoryID); err != nil {
		return nil, err
	}
	events, err := s.Events.ListByCategory(categoryID)
	if err != nil {
		return nil, err
	}
	deriveStatuses(events)
	return events, nil
}

func (s CatalogService) CreateEvent(ev models.Event) (models.Event, error) {
	ev.Title = utils.NormalizeSpace(ev.Title)
	ev.Location.Name = utils.NormalizeSpace(ev.Location.Name)
	ev.Date = utils.TrimOrEmpty(ev.Date)
	ev.Time = utils.TrimOrEmpty(ev.Time)

	if ev.Title == "" {
		return models.Event{}, domain.ValidationError{Field: "title", Msg: "title is required"}
	}
	if _, err := utils.ParseDate(ev.Date); err != nil {
		return models.Event{}, domain.ValidationError{Field: "date", Msg: "date must be YYYY-MM-DD"}
	}
	if ev.Time == "" {
		return models.Event{}, domain.ValidationError{Field: "time", Msg: "start time is required"}
	}
	if ev.Location.Name == "" {
		return models.Event{}, domain.ValidationError{Field: "location", Msg: "venue name is required"}
	}
	if ev.Price.Amount.IsNegative() {
		return models.Event{}, domain.ValidationError{Field: "price", Msg: "price cannot be negative"}
	}
	if ev.Capacity < 0 {
		return models.Event{}, domain.ValidationError{Field: "capacity", Msg: "capacity cannot be negative"}
	}
	if ev.Price.Currency == "" {
		ev.Price.Currency = "$"
	}
	if ev.CategoryID > 0 {
		if _, err := s.Categories.GetByID(ev.CategoryID); err != nil {
			return models.Event{}, err
		}
	}

	ev.ID = uuid.NewString()
	ev.Sold = 0
	if err := s.Events.Create(ev); err != nil {
		return models.Event{}, err
	}
	ev.Status = deriveStatus(ev)

	utils.LogEvent(s.RequestID, "catalog", "create_event", fmt.Sprintf("event_id=%s title=%q", ev.ID, ev.Title))
	return ev, nil
}

func (s CatalogService) ListCategories() ([]models.Category, error) {
	return s.Categories.List()
}

func (s CatalogService) CategoryByID(id int64) (models.Category, error) {
	return s.Categories.GetByID(id)
}

func (s CatalogService) CreateCategory(c models.Category) (models.Category, error) {
	c.Name = utils.NormalizeSpace(c.Name)
	if c.Name == "" {
		return models.Category{}, domain.ValidationError{Field: "name", Msg: "name is required"}
	}
	id, err := s.Categories.Create(c)
	if err != nil {
		return models.Category{}, err
	}
	c.ID = id

	utils.LogEvent(s.RequestID, "catalog", "create_category", fmt.Sprintf("category_id=%d name=%q", c.ID, c.Name))
	return c, nil
}

func deriveStatuses(events []models.Event) {
	for i := range events {
		events[i].Status = deriveStatus(events[i])
	}
}

func deriveStatus(ev models.Event) string {
	start, err := utils.ParseDate(ev.Date)
	if err != nil {
		// unparseable schedules stay visible rather than failing reads
		return models.EventUpcoming
	}
	today, _ := utils.ParseDate(utils.FormatDate(time.Now()))
	if start.Before(today) {
		return models.EventPast
	}
	return models.EventUpcoming
}
