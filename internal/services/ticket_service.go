package services

import (
	"bytes"
	"fmt"
	"strings"

	"eventwave/internal/domain"
	"eventwave/internal/domain/models"
	"eventwave/internal/repositories"
	"eventwave/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// TicketService renders the e-ticket PDF for a confirmed order.
type TicketService struct {
	Orders    repositories.OrderRepository
	Events    repositories.EventRepository
	RequestID string
	Loader    func(orderID string) (ticketData, error)
}

type ticketData struct {
	OrderID      string
	Status       string
	EventTitle   string
	EventDate    string
	EventTime    string
	VenueName    string
	VenueAddress string
	BuyerName    string
	BuyerEmail   string
	Quantity     int
	Subtotal     string
	ServiceFee   string
	Total        string
}

func (s TicketService) GenerateETicket(orderID string) ([]byte, string, error) {
	data, err := s.loadTicketData(orderID)
	if err != nil {
		return nil, "", err
	}
	if data.Status != models.OrderConfirmed {
		return nil, "", domain.ConflictError{Resource: "order", Msg: "only confirmed orders have tickets"}
	}
	utils.LogEvent(s.RequestID, "tickets", "generate_eticket", fmt.Sprintf("order_id=%s", orderID))
	return buildETicketPDF(data)
}

func (s TicketService) loadTicketData(orderID string) (ticketData, error) {
	if s.Loader != nil {
		return s.Loader(orderID)
	}

	order, err := s.Orders.GetByID(orderID)
	if err != nil {
		return ticketData{}, err
	}
	event, err := s.Events.GetByID(order.EventID)
	if err != nil {
		return ticketData{}, err
	}

	return ticketData{
		OrderID:      order.ID,
		Status:       order.Status,
		EventTitle:   event.Title,
		EventDate:    event.Date,
		EventTime:    event.Time,
		VenueName:    event.Location.Name,
		VenueAddress: event.Location.Address,
		BuyerName:    strings.TrimSpace(order.Buyer.FirstName + " " + order.Buyer.LastName),
		BuyerEmail:   order.Buyer.Email,
		Quantity:     order.Quantity,
		Subtotal:     utils.FormatPrice(order.Currency, order.Subtotal),
		ServiceFee:   utils.FormatPrice(order.Currency, order.ServiceFee),
		Total:        utils.FormatPrice(order.Currency, order.Total),
	}, nil
}

func buildETicketPDF(d ticketData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Event      : %s", safe(d.EventTitle, "-")),
		fmt.Sprintf("Date/Time  : %s %s", safe(d.EventDate, "-"), safe(d.EventTime, "-")),
		fmt.Sprintf("Venue      : %s", safe(d.VenueName, "-")),
		fmt.Sprintf("Address    : %s", safe(d.VenueAddress, "-")),
		fmt.Sprintf("Name       : %s", safe(d.BuyerName, "-")),
		fmt.Sprintf("Email      : %s", safe(d.BuyerEmail, "-")),
		fmt.Sprintf("Tickets    : %d", d.Quantity),
		fmt.Sprintf("Subtotal   : %s", safe(d.Subtotal, "-")),
		fmt.Sprintf("Service Fee: %s", safe(d.ServiceFee, "-")),
		fmt.Sprintf("Total Paid : %s", safe(d.Total, "-")),
		fmt.Sprintf("Order      : #%s", safe(shortID(d.OrderID), "-")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Note: this e-ticket covers the ticket quantity shown above. Please present it at the entrance.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s.pdf", safeFilenamePart(shortID(d.OrderID)))
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

func safeFilenamePart(s string) string {
	var out strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out.WriteRune(r)
		default:
			out.WriteRune('_')
		}
	}
	return out.String()
}
