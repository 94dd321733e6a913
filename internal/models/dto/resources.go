package dto

type CreateContentRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Cover       *string `json:"cover"`
}

type CreateCourseRequest struct {
	Title      string  `json:"title"`
	Instructor *string `json:"instructor"`
	Cover      *string `json:"cover"`
}

type EnrollRequest struct {
	UserID    string `json:"user_id"`
	CourseID  string `json:"course_id"`
	Progress  int    `json:"progress"`
	Completed bool   `json:"completed"`
}

type CreateEventRequest struct {
	Title    string   `json:"title"`
	Category *string  `json:"category"`
	Date     *string  `json:"date"`
	Location *string  `json:"location"`
	Distance *float64 `json:"distance"`
	Cover    *string  `json:"cover"`
}

type BookEventRequest struct {
	UserID  string `json:"user_id"`
	EventID string `json:"event_id"`
}

type CreateGroupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Cover       *string `json:"cover"`
	Icon        *string `json:"icon"`
}

type AddMemberRequest struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
}

type CreateCalendarEventRequest struct {
	Day   int    `json:"day"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

type UpdateCalendarEventRequest struct {
	Title string `json:"title"`
}

type CreateCheckinRequest struct {
	Date    string `json:"date"`
	Type    string `json:"type"`
	Content string `json:"content"`
	Emoji   string `json:"emoji"`
}
