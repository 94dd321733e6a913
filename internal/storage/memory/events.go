package memory

import (
	"context"
	"sort"

	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/storage"
)

func (s *Store) ListEvents(_ context.Context, filter storage.EventFilter) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Event, 0, len(s.events))
	for _, e := range s.events {
		if filter.Category != "" && (e.Category == nil || *e.Category != filter.Category) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, filter.Page), nil
}

func (s *Store) GetEvent(_ context.Context, id string) (models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return models.Event{}, storage.ErrNotFound
	}
	return e, nil
}

func (s *Store) CreateEvent(_ context.Context, event models.Event) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == "" {
		event.ID = newID()
	}
	now := s.timestamp()
	event.CreatedAt, event.UpdatedAt = now, now
	s.events[event.ID] = event
	return event, nil
}

func (s *Store) UpdateEvent(_ context.Context, id string, patch models.EventPatch) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[id]
	if !ok {
		return models.Event{}, storage.ErrNotFound
	}
	set(&e.Title, patch.Title)
	setPtr(&e.Category, patch.Category)
	setPtr(&e.Date, patch.Date)
	setPtr(&e.Location, patch.Location)
	setPtr(&e.Distance, patch.Distance)
	setPtr(&e.Cover, patch.Cover)
	e.UpdatedAt = s.timestamp()
	s.events[id] = e
	return e, nil
}

func (s *Store) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.events, id)
	for key, b := range s.bookings {
		if b.EventID == id {
			delete(s.bookings, key)
		}
	}
	return nil
}

func (s *Store) ListUserEvents(_ context.Context, userID string) ([]models.UserEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.UserEvent{}
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookedAt.After(out[j].BookedAt) })
	return out, nil
}

func (s *Store) BookEvent(_ context.Context, booking models.UserEvent) (models.UserEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[booking.UserID]; !ok {
		return models.UserEvent{}, storage.ErrNotFound
	}
	if _, ok := s.events[booking.EventID]; !ok {
		return models.UserEvent{}, storage.ErrNotFound
	}
	for _, b := range s.bookings {
		if b.UserID == booking.UserID && b.EventID == booking.EventID {
			return models.UserEvent{}, storage.ErrAlreadyExists
		}
	}
	booking.ID = newID()
	booking.BookedAt = s.timestamp()
	s.bookings[booking.ID] = booking
	return booking, nil
}

func (s *Store) CancelBooking(_ context.Context, userID, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, b := range s.bookings {
		if b.UserID == userID && b.EventID == eventID {
			delete(s.bookings, key)
			return nil
		}
	}
	return storage.ErrNotFound
}
