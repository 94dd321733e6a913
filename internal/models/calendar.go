package models

import "time"

const DefaultCalendarType = "Personal"

// CalendarEvent is a per-user note pinned to a day of the month. A user has at most one per day.
type CalendarEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Day       int       `json:"day"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// Checkin is a dated journal entry. Date uses the YYYY-MM-DD layout.
type Checkin struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

// DateLayout is the wire and storage format of Checkin.Date.
const DateLayout = "2006-01-02"
