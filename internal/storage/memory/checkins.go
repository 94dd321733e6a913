package memory

import (
	"context"
	"sort"

	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/storage"
)

func (s *Store) ListCheckins(_ context.Context, userID string, filter storage.CheckinFilter) ([]models.Checkin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Checkin{}
	for _, c := range s.checkins {
		if c.UserID != userID {
			continue
		}
		if filter.StartDate != "" && c.Date < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && c.Date > filter.EndDate {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date == out[j].Date {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Date > out[j].Date
	})
	return out, nil
}

func (s *Store) GetCheckin(_ context.Context, id string) (models.Checkin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.checkins[id]
	if !ok {
		return models.Checkin{}, storage.ErrNotFound
	}
	return c, nil
}

func (s *Store) CreateCheckin(_ context.Context, checkin models.Checkin) (models.Checkin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[checkin.UserID]; !ok {
		return models.Checkin{}, storage.ErrNotFound
	}
	checkin.ID = newID()
	checkin.CreatedAt = s.timestamp()
	s.checkins[checkin.ID] = checkin
	return checkin, nil
}

func (s *Store) UpdateCheckin(_ context.Context, id string, patch models.CheckinPatch) (models.Checkin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.checkins[id]
	if !ok {
		return models.Checkin{}, storage.ErrNotFound
	}
	set(&c.Content, patch.Content)
	set(&c.Emoji, patch.Emoji)
	s.checkins[id] = c
	return c, nil
}

func (s *Store) DeleteCheckin(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.checkins[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.checkins, id)
	return nil
}
