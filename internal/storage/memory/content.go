package memory

import (
	"context"
	"sort"

	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/storage"
)

func (s *Store) ListContent(_ context.Context, filter storage.ContentFilter) ([]models.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Content, 0, len(s.content))
	for _, c := range s.content {
		if filter.Category != "" && (c.Category == nil || *c.Category != filter.Category) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		switch filter.SortBy {
		case storage.SortViews:
			if out[i].Views != out[j].Views {
				return out[i].Views > out[j].Views
			}
		case storage.SortLikes:
			if out[i].Likes != out[j].Likes {
				return out[i].Likes > out[j].Likes
			}
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, filter.Page), nil
}

func (s *Store) GetContent(_ context.Context, id string) (models.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.content[id]
	if !ok {
		return models.Content{}, storage.ErrNotFound
	}
	return c, nil
}

func (s *Store) CreateContent(_ context.Context, content models.Content) (models.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if content.AuthorID != nil {
		if _, ok := s.users[*content.AuthorID]; !ok {
			return models.Content{}, storage.ErrNotFound
		}
	}
	if content.ID == "" {
		content.ID = newID()
	}
	now := s.timestamp()
	content.CreatedAt, content.UpdatedAt = now, now
	s.content[content.ID] = content
	return content, nil
}

func (s *Store) UpdateContent(_ context.Context, id string, patch models.ContentPatch) (models.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.content[id]
	if !ok {
		return models.Content{}, storage.ErrNotFound
	}
	set(&c.Title, patch.Title)
	setPtr(&c.Description, patch.Description)
	setPtr(&c.Category, patch.Category)
	setPtr(&c.Cover, patch.Cover)
	c.UpdatedAt = s.timestamp()
	s.content[id] = c
	return c, nil
}

func (s *Store) DeleteContent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.content[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.content, id)
	return nil
}
