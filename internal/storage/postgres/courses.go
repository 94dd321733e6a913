package postgres

import (
	"context"
	"fmt"

	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/storage"
)

const (
	courseColumns     = `id, title, instructor, cover, created_at, updated_at`
	enrollmentColumns = `id, user_id, course_id, progress, completed, started_at, completed_at`
)

func scanCourse(row scanner) (models.Course, error) {
	var c models.Course
	err := row.Scan(&c.ID, &c.Title, &c.Instructor, &c.Cover, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func scanEnrollment(row scanner) (models.UserCourse, error) {
	var e models.UserCourse
	err := row.Scan(&e.ID, &e.UserID, &e.CourseID, &e.Progress, &e.Completed, &e.StartedAt, &e.CompletedAt)
	return e, err
}

func (s *Store) ListCourses(ctx context.Context, page storage.Page) ([]models.Course, error) {
	page = page.Normalize()
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+courseColumns+` FROM courses ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset)
	if err != nil {
		return nil, wrap("list courses", err)
	}
	defer rows.Close()

	out := []models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetCourse(ctx context.Context, id string) (models.Course, error) {
	c, err := scanCourse(s.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
	if err != nil {
		return models.Course{}, wrap("get course", err)
	}
	return c, nil
}

func (s *Store) CreateCourse(ctx context.Context, course models.Course) (models.Course, error) {
	c, err := scanCourse(s.db.QueryRowContext(ctx,
		`INSERT INTO courses (title, instructor, cover) VALUES ($1, $2, $3) RETURNING `+courseColumns,
		course.Title, course.Instructor, course.Cover))
	if err != nil {
		return models.Course{}, wrap("create course", err)
	}
	return c, nil
}

func (s *Store) UpdateCourse(ctx context.Context, id string, patch models.CoursePatch) (models.Course, error) {
	if patch.Empty() {
		return s.GetCourse(ctx, id)
	}
	var set assignments
	addIf(&set, "title", patch.Title)
	addIf(&set, "instructor", patch.Instructor)
	addIf(&set, "cover", patch.Cover)
	set.raw("updated_at = NOW()")
	where := set.next(id)

	query := fmt.Sprintf(`UPDATE courses SET %s WHERE id = %s RETURNING %s`, set.clause(), where, courseColumns)
	c, err := scanCourse(s.db.QueryRowContext(ctx, query, set.args...))
	if err != nil {
		return models.Course{}, wrap("update course", err)
	}
	return c, nil
}

func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	return s.execDelete(ctx, "delete course", `DELETE FROM courses WHERE id = $1`, id)
}

func (s *Store) ListUserCourses(ctx context.Context, userID string) ([]models.UserCourse, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+enrollmentColumns+` FROM user_courses WHERE user_id = $1 ORDER BY started_at DESC`, userID)
	if err != nil {
		return nil, wrap("list user courses", err)
	}
	defer rows.Close()

	out := []models.UserCourse{}
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) GetUserCourse(ctx context.Context, id string) (models.UserCourse, error) {
	e, err := scanEnrollment(s.db.QueryRowContext(ctx, `SELECT `+enrollmentColumns+` FROM user_courses WHERE id = $1`, id))
	if err != nil {
		return models.UserCourse{}, wrap("get enrollment", err)
	}
	return e, nil
}

// Enroll relies on the (user_id, course_id) unique constraint to reject duplicates.
func (s *Store) Enroll(ctx context.Context, enrollment models.UserCourse) (models.UserCourse, error) {
	query := `INSERT INTO user_courses (user_id, course_id, progress, completed, completed_at)
		VALUES ($1, $2, $3, $4, CASE WHEN $4 THEN NOW() END)
		RETURNING ` + enrollmentColumns
	e, err := scanEnrollment(s.db.QueryRowContext(ctx, query,
		enrollment.UserID, enrollment.CourseID, enrollment.Progress, enrollment.Completed))
	if err != nil {
		return models.UserCourse{}, wrap("enroll", err)
	}
	return e, nil
}

func (s *Store) UpdateProgress(ctx context.Context, id string, patch models.ProgressPatch) (models.UserCourse, error) {
	if patch.Empty() {
		return s.GetUserCourse(ctx, id)
	}
	var set assignments
	addIf(&set, "progress", patch.Progress)
	addIf(&set, "completed", patch.Completed)
	if patch.Completed != nil && *patch.Completed {
		set.raw("completed_at = NOW()")
	}
	where := set.next(id)

	query := fmt.Sprintf(`UPDATE user_courses SET %s WHERE id = %s RETURNING %s`, set.clause(), where, enrollmentColumns)
	e, err := scanEnrollment(s.db.QueryRowContext(ctx, query, set.args...))
	if err != nil {
		return models.UserCourse{}, wrap("update progress", err)
	}
	return e, nil
}
