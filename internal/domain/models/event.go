package models

import "github.com/shopspring/decimal"

// Event statuses. Status is derived from the schedule at read time and is
// never transitioned by checkout.
const (
	EventUpcoming = "upcoming"
	EventPast     = "past"
)

type Price struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// Free reports whether the event is registration-only (no payment step).
func (p Price) Free() bool {
	return p.Amount.IsZero()
}

type Location struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

type Organizer struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar,omitempty"`
	Description string `json:"description,omitempty"`
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"` // YYYY-MM-DD, display string
	Time        string    `json:"time"` // HH:MM, display string
	Location    Location  `json:"location"`
	Price       Price     `json:"price"`
	Organizer   Organizer `json:"organizer"`
	CategoryID  int64     `json:"categoryId"`
	Image       string    `json:"image,omitempty"`
	Capacity    int       `json:"capacity"` // 0 means unlimited
	Sold        int       `json:"sold"`
	Status      string    `json:"status"`
}
