package models

import "time"

// Service and event type enums accepted by the booking API.
const (
	ServiceWorkshop   = "workshop"
	ServicePizzaParty = "pizza_party"
)

const (
	EventBirthday  = "birthday"
	EventCorporate = "corporate"
	EventSchool    = "school"
	EventPrivate   = "private"
)

// Booking lifecycle states.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

type Booking struct {
	ID              string     `json:"id" bson:"id"`
	ClientName      string     `json:"client_name" bson:"client_name"`
	ClientEmail     string     `json:"client_email" bson:"client_email"`
	ClientPhone     string     `json:"client_phone" bson:"client_phone"`
	ServiceType     string     `json:"service_type" bson:"service_type"`
	EventType       string     `json:"event_type" bson:"event_type"`
	EventDate       string     `json:"event_date" bson:"event_date"` // YYYY-MM-DD
	EventTime       string     `json:"event_time,omitempty" bson:"event_time,omitempty"` // HH:MM
	DurationHours   int        `json:"duration_hours" bson:"duration_hours"`
	Participants    int        `json:"participants" bson:"participants"`
	Location        string     `json:"location" bson:"location"`
	SpecialRequests string     `json:"special_requests,omitempty" bson:"special_requests,omitempty"`
	Status          string     `json:"status" bson:"status"`
	EstimatedPrice  float64    `json:"estimated_price" bson:"estimated_price"`
	EventCost       *float64   `json:"event_cost,omitempty" bson:"event_cost,omitempty"`
	EventProfit     *float64   `json:"event_profit,omitempty" bson:"event_profit,omitempty"`
	CreatedAt       time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

func ValidServiceType(s string) bool {
	return s == ServiceWorkshop || s == ServicePizzaParty
}

func ValidEventType(s string) bool {
	switch s {
	case EventBirthday, EventCorporate, EventSchool, EventPrivate:
		return true
	}
	return false
}

func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}
