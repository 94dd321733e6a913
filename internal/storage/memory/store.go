package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps every table in process memory. It enforces the same
// uniqueness rules as the Postgres schema under a single lock.
type Store struct {
	mu   sync.RWMutex
	now  func() time.Time
	last time.Time

	users       map[string]models.User
	emails      map[string]string
	content     map[string]models.Content
	courses     map[string]models.Course
	enrollments map[string]models.UserCourse
	events      map[string]models.Event
	bookings    map[string]models.UserEvent
	groups      map[string]models.Group
	members     map[string]models.GroupMember
	calendar    map[string]models.CalendarEvent
	checkins    map[string]models.Checkin
}

// New returns an empty store.
func New() *Store {
	return &Store{
		now:         time.Now,
		users:       make(map[string]models.User),
		emails:      make(map[string]string),
		content:     make(map[string]models.Content),
		courses:     make(map[string]models.Course),
		enrollments: make(map[string]models.UserCourse),
		events:      make(map[string]models.Event),
		bookings:    make(map[string]models.UserEvent),
		groups:      make(map[string]models.Group),
		members:     make(map[string]models.GroupMember),
		calendar:    make(map[string]models.CalendarEvent),
		checkins:    make(map[string]models.Checkin),
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func newID() string {
	return uuid.NewString()
}

// timestamp must be called with the write lock held. It never repeats so
// creation order stays stable.
func (s *Store) timestamp() time.Time {
	t := s.now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func paginate[T any](items []T, page storage.Page) []T {
	page = page.Normalize()
	if page.Offset >= len(items) {
		return []T{}
	}
	end := page.Offset + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[page.Offset:end]
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setPtr[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
