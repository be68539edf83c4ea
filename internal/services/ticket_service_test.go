package services

import (
	"testing"

	"eventwave/internal/domain"
)

func TestTicketServiceGenerate(t *testing.T) {
	loader := func(orderID string) (ticketData, error) {
		return ticketData{
			OrderID:    orderID,
			Status:     "confirmed",
			EventTitle: "Indie Night",
			EventDate:  "2030-05-01",
			EventTime:  "19:00",
			VenueName:  "The Venue",
			BuyerName:  "Ada Lovelace",
			BuyerEmail: "ada@example.com",
			Quantity:   3,
			Subtotal:   "$150.00",
			ServiceFee: "$7.50",
			Total:      "$157.50",
		}, nil
	}

	svc := TicketService{Loader: loader}

	pdf, filename, err := svc.GenerateETicket("9f1c2d3e-0000-0000-0000-000000000000")
	if err != nil {
		t.Fatalf("GenerateETicket returned error: %v", err)
	}
	if len(pdf) == 0 || filename == "" {
		t.Fatalf("GenerateETicket returned empty data")
	}
}

func TestTicketServiceRejectsUnconfirmedOrder(t *testing.T) {
	loader := func(orderID string) (ticketData, error) {
		return ticketData{OrderID: orderID, Status: "pending"}, nil
	}

	svc := TicketService{Loader: loader}

	_, _, err := svc.GenerateETicket("ord-1")
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict for unconfirmed order, got %v", err)
	}
}
