package memory

import (
	"context"
	"sort"

	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/storage"
)

func (s *Store) ListCourses(_ context.Context, page storage.Page) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, page), nil
}

func (s *Store) GetCourse(_ context.Context, id string) (models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return models.Course{}, storage.ErrNotFound
	}
	return c, nil
}

func (s *Store) CreateCourse(_ context.Context, course models.Course) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if course.ID == "" {
		course.ID = newID()
	}
	now := s.timestamp()
	course.CreatedAt, course.UpdatedAt = now, now
	s.courses[course.ID] = course
	return course, nil
}

func (s *Store) UpdateCourse(_ context.Context, id string, patch models.CoursePatch) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[id]
	if !ok {
		return models.Course{}, storage.ErrNotFound
	}
	set(&c.Title, patch.Title)
	setPtr(&c.Instructor, patch.Instructor)
	setPtr(&c.Cover, patch.Cover)
	c.UpdatedAt = s.timestamp()
	s.courses[id] = c
	return c, nil
}

func (s *Store) DeleteCourse(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.courses, id)
	for key, e := range s.enrollments {
		if e.CourseID == id {
			delete(s.enrollments, key)
		}
	}
	return nil
}

func (s *Store) ListUserCourses(_ context.Context, userID string) ([]models.UserCourse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.UserCourse{}
	for _, e := range s.enrollments {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (s *Store) GetUserCourse(_ context.Context, id string) (models.UserCourse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.enrollments[id]
	if !ok {
		return models.UserCourse{}, storage.ErrNotFound
	}
	return e, nil
}

func (s *Store) Enroll(_ context.Context, enrollment models.UserCourse) (models.UserCourse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[enrollment.UserID]; !ok {
		return models.UserCourse{}, storage.ErrNotFound
	}
	if _, ok := s.courses[enrollment.CourseID]; !ok {
		return models.UserCourse{}, storage.ErrNotFound
	}
	for _, e := range s.enrollments {
		if e.UserID == enrollment.UserID && e.CourseID == enrollment.CourseID {
			return models.UserCourse{}, storage.ErrAlreadyExists
		}
	}
	enrollment.ID = newID()
	enrollment.StartedAt = s.timestamp()
	if enrollment.Completed {
		completedAt := enrollment.StartedAt
		enrollment.CompletedAt = &completedAt
	}
	s.enrollments[enrollment.ID] = enrollment
	return enrollment, nil
}

func (s *Store) UpdateProgress(_ context.Context, id string, patch models.ProgressPatch) (models.UserCourse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.enrollments[id]
	if !ok {
		return models.UserCourse{}, storage.ErrNotFound
	}
	set(&e.Progress, patch.Progress)
	if patch.Completed != nil {
		e.Completed = *patch.Completed
		if e.Completed {
			completedAt := s.timestamp()
			e.CompletedAt = &completedAt
		}
	}
	s.enrollments[id] = e
	return e, nil
}
