package reports

import (
	"testing"

	"pablospizza/models"
)

func fptr(f float64) *float64 { return &f }

func TestSummarize(t *testing.T) {
	bookings := []models.Booking{
		{Status: models.BookingCompleted, EstimatedPrice: 500, Participants: 20,
			EventCost: fptr(120), EventProfit: fptr(380)},
		{Status: models.BookingCompleted, EstimatedPrice: 250, Participants: 10,
			EventCost: fptr(60), EventProfit: fptr(190)},
		{Status: models.BookingCancelled, EstimatedPrice: 300},
		{Status: models.BookingPending, EstimatedPrice: 400},
	}

	s := Summarize(bookings, 2026, 8)
	if s.TotalBookings != 4 {
		t.Fatalf("total = %d, want 4", s.TotalBookings)
	}
	if s.CompletedEvents != 2 || s.Cancelled != 1 {
		t.Fatalf("completed=%d cancelled=%d", s.CompletedEvents, s.Cancelled)
	}
	if s.Revenue != 750 {
		t.Fatalf("revenue = %v, want 750", s.Revenue)
	}
	if s.Expenses != 180 || s.Profit != 570 {
		t.Fatalf("expenses=%v profit=%v", s.Expenses, s.Profit)
	}
	if s.Participants != 30 {
		t.Fatalf("participants = %d, want 30", s.Participants)
	}
}

func TestSummarizeEmptyMonth(t *testing.T) {
	s := Summarize(nil, 2026, 2)
	if s.TotalBookings != 0 || s.Revenue != 0 || s.Profit != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
	if s.Year != 2026 || s.Month != 2 {
		t.Fatalf("expected labeled month, got %+v", s)
	}
}

func TestRankClients(t *testing.T) {
	bookings := []models.Booking{
		{Status: models.BookingCompleted, ClientName: "Maria", ClientEmail: "maria@example.com", EstimatedPrice: 500},
		{Status: models.BookingCompleted, ClientName: "Maria", ClientEmail: "maria@example.com", EstimatedPrice: 250},
		{Status: models.BookingCompleted, ClientName: "Jon", ClientEmail: "jon@example.com", EstimatedPrice: 400},
		{Status: models.BookingPending, ClientName: "Pat", ClientEmail: "pat@example.com", EstimatedPrice: 900},
	}

	ranked := RankClients(bookings, 10)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(ranked))
	}
	if ranked[0].ClientEmail != "maria@example.com" || ranked[0].Revenue != 750 || ranked[0].Bookings != 2 {
		t.Fatalf("unexpected top client %+v", ranked[0])
	}
	if ranked[1].ClientEmail != "jon@example.com" {
		t.Fatalf("unexpected second client %+v", ranked[1])
	}
}

func TestRankClientsLimit(t *testing.T) {
	bookings := []models.Booking{
		{Status: models.BookingCompleted, ClientEmail: "a@example.com", EstimatedPrice: 100},
		{Status: models.BookingCompleted, ClientEmail: "b@example.com", EstimatedPrice: 200},
		{Status: models.BookingCompleted, ClientEmail: "c@example.com", EstimatedPrice: 300},
	}
	ranked := RankClients(bookings, 2)
	if len(ranked) != 2 {
		t.Fatalf("expected limit 2, got %d", len(ranked))
	}
	if ranked[0].ClientEmail != "c@example.com" {
		t.Fatalf("unexpected order %+v", ranked)
	}
}
