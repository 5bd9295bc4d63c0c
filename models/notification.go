package models

import "time"

// Notification is server-owned; dismissal is an explicit relation on
// the row rather than client-local state.
type Notification struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Message   string    `json:"message" db:"message"`
	Dismissed bool      `json:"dismissed" db:"dismissed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
