package models

import "time"

// User is an admin back-office account.
type User struct {
	UserID        string    `json:"userid" bson:"userid"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email,omitempty" bson:"email,omitempty"`
	Password      string    `json:"password,omitempty" bson:"password"`
	Role          []string  `json:"role" bson:"role"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
	LastLogin     time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
}
