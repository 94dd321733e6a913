package models

import "time"

// Content is a published post shown in the discovery feed.
type Content struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Cover       *string   `json:"cover,omitempty"`
	AuthorID    *string   `json:"author_id,omitempty"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
