package models

import "time"

// Notification delivery states.
const (
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
	NotificationPending = "pending"
)

type Notification struct {
	ID             string    `json:"id" bson:"id"`
	RecipientPhone string    `json:"recipient_phone" bson:"recipient_phone"`
	Message        string    `json:"message" bson:"message"`
	Type           string    `json:"notification_type" bson:"notification_type"`
	Status         string    `json:"status" bson:"status"`
	SentAt         time.Time `json:"sent_at" bson:"sent_at"`
}

// NotificationEvent is the payload published on the mq channel when a
// domain action needs an outbound notice.
type NotificationEvent struct {
	Type           string `json:"type"` // booking_received, booking_confirmed, low_stock, admin_alert
	RecipientPhone string `json:"recipient_phone"`
	Message        string `json:"message"`
}
