package memory

import (
	"context"
	"sort"

	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/storage"
)

func (s *Store) ListCalendarEvents(_ context.Context, userID string) ([]models.CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.CalendarEvent{}
	for _, e := range s.calendar {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

func (s *Store) findCalendarEvent(userID string, day int) (string, bool) {
	for key, e := range s.calendar {
		if e.UserID == userID && e.Day == day {
			return key, true
		}
	}
	return "", false
}

func (s *Store) CreateCalendarEvent(_ context.Context, event models.CalendarEvent) (models.CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[event.UserID]; !ok {
		return models.CalendarEvent{}, storage.ErrNotFound
	}
	if _, exists := s.findCalendarEvent(event.UserID, event.Day); exists {
		return models.CalendarEvent{}, storage.ErrAlreadyExists
	}
	if event.Type == "" {
		event.Type = models.DefaultCalendarType
	}
	event.ID = newID()
	event.CreatedAt = s.timestamp()
	s.calendar[event.ID] = event
	return event, nil
}

func (s *Store) UpdateCalendarEvent(_ context.Context, userID string, day int, title string) (models.CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.findCalendarEvent(userID, day)
	if !ok {
		return models.CalendarEvent{}, storage.ErrNotFound
	}
	e := s.calendar[key]
	e.Title = title
	s.calendar[key] = e
	return e, nil
}

func (s *Store) DeleteCalendarEvent(_ context.Context, userID string, day int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.findCalendarEvent(userID, day)
	if !ok {
		return storage.ErrNotFound
	}
	delete(s.calendar, key)
	return nil
}
