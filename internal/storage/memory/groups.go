package memory

import (
	"context"
	"sort"

	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/storage"
)

func sortGroups(groups []models.Group, sortBy string) {
	sort.Slice(groups, func(i, j int) bool {
		if sortBy == storage.SortMembersCount && groups[i].MembersCount != groups[j].MembersCount {
			return groups[i].MembersCount > groups[j].MembersCount
		}
		return groups[i].CreatedAt.After(groups[j].CreatedAt)
	})
}

func (s *Store) ListGroups(_ context.Context, filter storage.GroupFilter) ([]models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g)
	}
	sortGroups(out, filter.SortBy)
	return paginate(out, filter.Page), nil
}

func (s *Store) ListUserGroups(_ context.Context, userID string) ([]models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Group{}
	for _, m := range s.members {
		if m.UserID != userID {
			continue
		}
		if g, ok := s.groups[m.GroupID]; ok {
			out = append(out, g)
		}
	}
	sortGroups(out, storage.SortCreatedAt)
	return out, nil
}

func (s *Store) GetGroup(_ context.Context, id string) (models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[id]
	if !ok {
		return models.Group{}, storage.ErrNotFound
	}
	return g, nil
}

func (s *Store) CreateGroup(_ context.Context, group models.Group) (models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if group.ID == "" {
		group.ID = newID()
	}
	if group.MembersCount < 0 {
		group.MembersCount = 0
	}
	now := s.timestamp()
	group.CreatedAt, group.UpdatedAt = now, now
	s.groups[group.ID] = group
	return group, nil
}

func (s *Store) UpdateGroup(_ context.Context, id string, patch models.GroupPatch) (models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[id]
	if !ok {
		return models.Group{}, storage.ErrNotFound
	}
	set(&g.Name, patch.Name)
	setPtr(&g.Description, patch.Description)
	setPtr(&g.Cover, patch.Cover)
	setPtr(&g.Icon, patch.Icon)
	g.UpdatedAt = s.timestamp()
	s.groups[id] = g
	return g, nil
}

func (s *Store) DeleteGroup(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.groups, id)
	for key, m := range s.members {
		if m.GroupID == id {
			delete(s.members, key)
		}
	}
	return nil
}

func (s *Store) ListMembers(_ context.Context, groupID string) ([]models.GroupMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.GroupMember{}
	for _, m := range s.members {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

func (s *Store) AddMember(_ context.Context, member models.GroupMember) (models.GroupMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups[member.GroupID]
	if !ok {
		return models.GroupMember{}, storage.ErrNotFound
	}
	if _, ok := s.users[member.UserID]; !ok {
		return models.GroupMember{}, storage.ErrNotFound
	}
	for _, m := range s.members {
		if m.GroupID == member.GroupID && m.UserID == member.UserID {
			return models.GroupMember{}, storage.ErrAlreadyExists
		}
	}
	member.ID = newID()
	member.JoinedAt = s.timestamp()
	s.members[member.ID] = member

	group.MembersCount++
	s.groups[group.ID] = group
	return member, nil
}

func (s *Store) RemoveMember(_ context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, m := range s.members {
		if m.GroupID != groupID || m.UserID != userID {
			continue
		}
		delete(s.members, key)
		if group, ok := s.groups[groupID]; ok {
			group.MembersCount = max(group.MembersCount-1, 0)
			s.groups[groupID] = group
		}
		return nil
	}
	return storage.ErrNotFound
}
