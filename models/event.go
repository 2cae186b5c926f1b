package models

import "time"

type Expense struct {
	Description string  `json:"description" bson:"description"`
	Amount      float64 `json:"amount" bson:"amount"`
}

type EventFinancials struct {
	Income        float64   `json:"income" bson:"income"`
	Expenses      []Expense `json:"expenses" bson:"expenses"`
	TotalExpenses float64   `json:"total_expenses" bson:"total_expenses"`
	Profit        float64   `json:"profit" bson:"profit"`
}

// Event records an already-performed booking with its financial outcome.
type Event struct {
	ID                 string          `json:"id" bson:"id"`
	BookingID          string          `json:"booking_id" bson:"booking_id"`
	ActualParticipants int             `json:"actual_participants" bson:"actual_participants"`
	StartTime          time.Time       `json:"start_time" bson:"start_time"`
	EndTime            time.Time       `json:"end_time" bson:"end_time"`
	Notes              string          `json:"notes,omitempty" bson:"notes,omitempty"`
	Photos             []string        `json:"photos" bson:"photos"`
	Financials         EventFinancials `json:"financials" bson:"financials"`
	CreatedAt          time.Time       `json:"created_at" bson:"created_at"`
}
