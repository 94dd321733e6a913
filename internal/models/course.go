package models

import "time"

type Course struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Instructor *string   `json:"instructor,omitempty"`
	Cover      *string   `json:"cover,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserCourse is an enrollment of a user in a course. Progress is a percentage.
type UserCourse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	CourseID    string     `json:"course_id"`
	Progress    int        `json:"progress"`
	Completed   bool       `json:"completed"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
