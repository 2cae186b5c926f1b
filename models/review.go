package models

import "time"

type Review struct {
	ID          string    `json:"id" bson:"id"`
	ClientName  string    `json:"client_name" bson:"client_name"`
	ClientEmail string    `json:"client_email" bson:"client_email"`
	EventID     string    `json:"event_id,omitempty" bson:"event_id,omitempty"`
	Rating      int       `json:"rating" bson:"rating"` // 1..5
	Comment     string    `json:"comment" bson:"comment"`
	IsApproved  bool      `json:"is_approved" bson:"is_approved"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
