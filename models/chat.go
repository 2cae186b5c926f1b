package models

import "time"

type ChatRoom struct {
	ID            string     `json:"id" bson:"id"`
	ClientName    string     `json:"client_name" bson:"client_name"`
	ClientEmail   string     `json:"client_email" bson:"client_email"`
	IsActive      bool       `json:"is_active" bson:"is_active"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty" bson:"last_message_at,omitempty"`
	ClosedAt      *time.Time `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
}

type ChatMessage struct {
	ID         string    `json:"id" bson:"id"`
	RoomID     string    `json:"room_id" bson:"room_id"`
	SenderID   string    `json:"sender_id" bson:"sender_id"` // "client" or "admin"
	SenderName string    `json:"sender_name" bson:"sender_name"`
	Message    string    `json:"message" bson:"message"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
	IsAdmin    bool      `json:"is_admin" bson:"is_admin"`
}
