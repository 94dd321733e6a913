package models

import "time"

type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  *string   `json:"category,omitempty"`
	Date      *string   `json:"date,omitempty"`
	Location  *string   `json:"location,omitempty"`
	Distance  *float64  `json:"distance,omitempty"`
	Cover     *string   `json:"cover,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserEvent is a booking of an event by a user.
type UserEvent struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	EventID  string    `json:"event_id"`
	BookedAt time.Time `json:"booked_at"`
}
