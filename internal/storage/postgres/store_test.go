package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/storage"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db), mock
}

var userCols = []string{"id", "email", "name", "avatar", "role", "password_hash", "created_at", "updated_at"}

func TestCreateUser(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (email, name, avatar, role, password_hash)`)).
		WithArgs("a@example.com", "Ann", "", models.RoleUser, "digest").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u-1", "a@example.com", "Ann", "", models.RoleUser, "digest", now, now))

	u, err := s.CreateUser(context.Background(), models.User{Email: "a@example.com", Name: "Ann", PasswordHash: "digest"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, models.RoleUser, u.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := s.CreateUser(context.Background(), models.User{Email: "a@example.com"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := s.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserWrapsDriverError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WillReturnError(errors.New("connection reset"))

	_, err := s.GetUser(context.Background(), "u-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get user: connection reset")
	assert.False(t, errors.Is(err, storage.ErrNotFound))
}

func TestUpdateUserBuildsPartialSet(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()
	name := "New Name"

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET name = $1, updated_at = NOW() WHERE id = $2 RETURNING`)).
		WithArgs(name, "u-1").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u-1", "a@example.com", name, "", models.RoleUser, "digest", now, now))

	u, err := s.UpdateUser(context.Background(), "u-1", models.UserPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, u.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListContentOrdersByViews(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()
	cols := []string{"id", "title", "description", "category", "cover", "author_id", "views", "likes", "created_at", "updated_at"}

	mock.ExpectQuery(`ORDER BY views DESC, created_at DESC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs("tech", storage.DefaultLimit, 0).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("c-1", "Quantum", nil, "tech", nil, nil, int64(90), int64(3), now, now))

	items, err := s.ListContent(context.Background(), storage.ContentFilter{Category: "tech", SortBy: storage.SortViews})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Description)
	require.NotNil(t, items[0].Category)
	assert.Equal(t, "tech", *items[0].Category)
	assert.Equal(t, int64(90), items[0].Views)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListContentUnknownSortFallsBack(t *testing.T) {
	s, mock := newMockStore(t)
	cols := []string{"id", "title", "description", "category", "cover", "author_id", "views", "likes", "created_at", "updated_at"}

	mock.ExpectQuery(`ORDER BY created_at DESC\s+LIMIT`).
		WithArgs("", storage.MaxLimit, 5).
		WillReturnRows(sqlmock.NewRows(cols))

	items, err := s.ListContent(context.Background(), storage.ContentFilter{
		SortBy: "title; DROP TABLE content",
		Page:   storage.Page{Limit: 1000, Offset: 5},
	})
	require.NoError(t, err)
	assert.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteContentNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM content WHERE id = $1`)).
		WithArgs("c-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.DeleteContent(context.Background(), "c-1"), storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollDuplicate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO user_courses`)).
		WithArgs("u-1", "c-1", 0, false).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := s.Enroll(context.Background(), models.UserCourse{UserID: "u-1", CourseID: "c-1"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestEnrollMissingCourse(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO user_courses`)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := s.Enroll(context.Background(), models.UserCourse{UserID: "u-1", CourseID: "c-9"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateProgressCompletes(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()
	done := true
	cols := []string{"id", "user_id", "course_id", "progress", "completed", "started_at", "completed_at"}

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE user_courses SET completed = $1, completed_at = NOW() WHERE id = $2`)).
		WithArgs(true, "e-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("e-1", "u-1", "c-1", 40, true, now, now))

	e, err := s.UpdateProgress(context.Background(), "e-1", models.ProgressPatch{Completed: &done})
	require.NoError(t, err)
	assert.True(t, e.Completed)
	assert.NotNil(t, e.CompletedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMemberIncrementsInTx(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO group_members (group_id, user_id, is_admin)`)).
		WithArgs("g-1", "u-1", false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_id", "user_id", "is_admin", "joined_at"}).
			AddRow("m-1", "g-1", "u-1", false, now))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE groups SET members_count = members_count + 1`)).
		WithArgs("g-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	m, err := s.AddMember(context.Background(), models.GroupMember{GroupID: "g-1", UserID: "u-1"})
	require.NoError(t, err)
	assert.Equal(t, "m-1", m.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMemberDuplicateRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO group_members`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, err := s.AddMember(context.Background(), models.GroupMember{GroupID: "g-1", UserID: "u-1"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveMemberDecrementsWithFloor(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`)).
		WithArgs("g-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`GREATEST(members_count - 1, 0)`)).
		WithArgs("g-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.RemoveMember(context.Background(), "g-1", "u-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveMemberMissing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM group_members`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, s.RemoveMember(context.Background(), "g-1", "u-1"), storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCalendarEventDuplicateDay(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO calendar_events (user_id, day, title, type)`)).
		WithArgs("u-1", 5, "Read", models.DefaultCalendarType).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := s.CreateCalendarEvent(context.Background(), models.CalendarEvent{UserID: "u-1", Day: 5, Title: "Read"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListCheckinsPassesBounds(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY date DESC, created_at DESC`)).
		WithArgs("u-1", "2024-01-01", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "date", "type", "content", "emoji", "created_at"}).
			AddRow("k-1", "u-1", "2024-01-03", "mood", "ok", ":)", now))

	items, err := s.ListCheckins(context.Background(), "u-1", storage.CheckinFilter{StartDate: "2024-01-01"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "2024-01-03", items[0].Date)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMalformedIDMapsToNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM groups WHERE id = $1`)).
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	_, err := s.GetGroup(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRunMigrations(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, RunMigrations(context.Background(), db))
	assert.Equal(t, ".", gotDir)

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	err = RunMigrations(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply migrations: boom")
}
