package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/nebula-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page bounds a list query.
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps the page into the accepted range.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

const (
	SortCreatedAt    = "created_at"
	SortViews        = "views"
	SortLikes        = "likes"
	SortMembersCount = "members_count"
)

type ContentFilter struct {
	Category string
	SortBy   string
	Page
}

type EventFilter struct {
	Category string
	Page
}

type GroupFilter struct {
	SortBy string
	Page
}

// CheckinFilter bounds check-ins by inclusive YYYY-MM-DD dates; empty means open.
type CheckinFilter struct {
	StartDate string
	EndDate   string
}

// UserStore captures persistence operations on users.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context, page Page) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, patch models.UserPatch) (models.User, error)
}

type ContentStore interface {
	ListContent(ctx context.Context, filter ContentFilter) ([]models.Content, error)
	GetContent(ctx context.Context, id string) (models.Content, error)
	CreateContent(ctx context.Context, content models.Content) (models.Content, error)
	UpdateContent(ctx context.Context, id string, patch models.ContentPatch) (models.Content, error)
	DeleteContent(ctx context.Context, id string) error
}

// CourseStore covers courses and enrollments.
type CourseStore interface {
	ListCourses(ctx context.Context, page Page) ([]models.Course, error)
	GetCourse(ctx context.Context, id string) (models.Course, error)
	CreateCourse(ctx context.Context, course models.Course) (models.Course, error)
	UpdateCourse(ctx context.Context, id string, patch models.CoursePatch) (models.Course, error)
	DeleteCourse(ctx context.Context, id string) error

	ListUserCourses(ctx context.Context, userID string) ([]models.UserCourse, error)
	GetUserCourse(ctx context.Context, id string) (models.UserCourse, error)
	// Enroll fails with ErrAlreadyExists when the user is already enrolled.
	Enroll(ctx context.Context, enrollment models.UserCourse) (models.UserCourse, error)
	UpdateProgress(ctx context.Context, id string, patch models.ProgressPatch) (models.UserCourse, error)
}

// EventStore covers events and bookings.
type EventStore interface {
	ListEvents(ctx context.Context, filter EventFilter) ([]models.Event, error)
	GetEvent(ctx context.Context, id string) (models.Event, error)
	CreateEvent(ctx context.Context, event models.Event) (models.Event, error)
	UpdateEvent(ctx context.Context, id string, patch models.EventPatch) (models.Event, error)
	DeleteEvent(ctx context.Context, id string) error

	ListUserEvents(ctx context.Context, userID string) ([]models.UserEvent, error)
	// BookEvent fails with ErrAlreadyExists when the booking exists.
	BookEvent(ctx context.Context, booking models.UserEvent) (models.UserEvent, error)
	CancelBooking(ctx context.Context, userID, eventID string) error
}

// GroupStore covers groups and membership. AddMember and RemoveMember keep
// members_count in step with the membership rows.
type GroupStore interface {
	ListGroups(ctx context.Context, filter GroupFilter) ([]models.Group, error)
	ListUserGroups(ctx context.Context, userID string) ([]models.Group, error)
	GetGroup(ctx context.Context, id string) (models.Group, error)
	CreateGroup(ctx context.Context, group models.Group) (models.Group, error)
	UpdateGroup(ctx context.Context, id string, patch models.GroupPatch) (models.Group, error)
	DeleteGroup(ctx context.Context, id string) error

	ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error)
	AddMember(ctx context.Context, member models.GroupMember) (models.GroupMember, error)
	RemoveMember(ctx context.Context, groupID, userID string) error
}

// CalendarStore keeps at most one entry per (user, day).
type CalendarStore interface {
	ListCalendarEvents(ctx context.Context, userID string) ([]models.CalendarEvent, error)
	CreateCalendarEvent(ctx context.Context, event models.CalendarEvent) (models.CalendarEvent, error)
	UpdateCalendarEvent(ctx context.Context, userID string, day int, title string) (models.CalendarEvent, error)
	DeleteCalendarEvent(ctx context.Context, userID string, day int) error
}

type CheckinStore interface {
	ListCheckins(ctx context.Context, userID string, filter CheckinFilter) ([]models.Checkin, error)
	GetCheckin(ctx context.Context, id string) (models.Checkin, error)
	CreateCheckin(ctx context.Context, checkin models.Checkin) (models.Checkin, error)
	UpdateCheckin(ctx context.Context, id string, patch models.CheckinPatch) (models.Checkin, error)
	DeleteCheckin(ctx context.Context, id string) error
}

// Store aggregates every table gateway behind one handle.
type Store interface {
	UserStore
	ContentStore
	CourseStore
	EventStore
	GroupStore
	CalendarStore
	CheckinStore

	Ping(ctx context.Context) error
	Close() error
}
