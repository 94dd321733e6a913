package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/storage"
)

func mustUser(t *testing.T, s *Store, email string) models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), models.User{Email: email, Name: email, PasswordHash: "x"})
	require.NoError(t, err)
	return u
}

func strPtr(v string) *string { return &v }

func TestCreateUserUniqueEmail(t *testing.T) {
	s := New()
	u := mustUser(t, s, "a@example.com")
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotEmpty(t, u.ID)

	_, err := s.CreateUser(context.Background(), models.User{Email: "a@example.com"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	found, err := s.FindByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = s.FindByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateUserPartial(t *testing.T) {
	s := New()
	u := mustUser(t, s, "a@example.com")

	updated, err := s.UpdateUser(context.Background(), u.ID, models.UserPatch{Avatar: strPtr("https://img/1.png")})
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", updated.Name)
	assert.Equal(t, "https://img/1.png", updated.Avatar)
	assert.Equal(t, "x", updated.PasswordHash)

	_, err = s.UpdateUser(context.Background(), "nope", models.UserPatch{Name: strPtr("n")})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListUsersPaginates(t *testing.T) {
	s := New()
	for _, email := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		mustUser(t, s, email)
	}

	page, err := s.ListUsers(context.Background(), storage.Page{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "a@x.io", page[0].Email)

	rest, err := s.ListUsers(context.Background(), storage.Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "c@x.io", rest[0].Email)

	empty, err := s.ListUsers(context.Background(), storage.Page{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListContentSortAndFilter(t *testing.T) {
	s := New()
	ctx := context.Background()
	tech := strPtr("tech")
	_, err := s.CreateContent(ctx, models.Content{Title: "old", Category: tech, Views: 50, Likes: 1})
	require.NoError(t, err)
	_, err = s.CreateContent(ctx, models.Content{Title: "new", Category: tech, Views: 5, Likes: 9})
	require.NoError(t, err)
	_, err = s.CreateContent(ctx, models.Content{Title: "art", Category: strPtr("art")})
	require.NoError(t, err)

	byDate, err := s.ListContent(ctx, storage.ContentFilter{Category: "tech"})
	require.NoError(t, err)
	require.Len(t, byDate, 2)
	assert.Equal(t, "new", byDate[0].Title)

	byViews, err := s.ListContent(ctx, storage.ContentFilter{Category: "tech", SortBy: storage.SortViews})
	require.NoError(t, err)
	assert.Equal(t, "old", byViews[0].Title)

	byLikes, err := s.ListContent(ctx, storage.ContentFilter{SortBy: storage.SortLikes})
	require.NoError(t, err)
	require.Len(t, byLikes, 3)
	assert.Equal(t, "new", byLikes[0].Title)
}

func TestEnrollOnce(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := mustUser(t, s, "a@example.com")
	c, err := s.CreateCourse(ctx, models.Course{Title: "Go"})
	require.NoError(t, err)

	e, err := s.Enroll(ctx, models.UserCourse{UserID: u.ID, CourseID: c.ID})
	require.NoError(t, err)
	assert.Nil(t, e.CompletedAt)

	_, err = s.Enroll(ctx, models.UserCourse{UserID: u.ID, CourseID: c.ID})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	_, err = s.Enroll(ctx, models.UserCourse{UserID: u.ID, CourseID: "missing"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	done := true
	progress := 100
	updated, err := s.UpdateProgress(ctx, e.ID, models.ProgressPatch{Progress: &progress, Completed: &done})
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Progress)
	assert.True(t, updated.Completed)
	assert.NotNil(t, updated.CompletedAt)

	require.NoError(t, s.DeleteCourse(ctx, c.ID))
	list, err := s.ListUserCourses(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBookingLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := mustUser(t, s, "a@example.com")
	ev, err := s.CreateEvent(ctx, models.Event{Title: "Forum"})
	require.NoError(t, err)

	_, err = s.BookEvent(ctx, models.UserEvent{UserID: u.ID, EventID: ev.ID})
	require.NoError(t, err)
	_, err = s.BookEvent(ctx, models.UserEvent{UserID: u.ID, EventID: ev.ID})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	require.NoError(t, s.CancelBooking(ctx, u.ID, ev.ID))
	assert.ErrorIs(t, s.CancelBooking(ctx, u.ID, ev.ID), storage.ErrNotFound)
}

func TestGroupMembersCount(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := mustUser(t, s, "a@example.com")
	g, err := s.CreateGroup(ctx, models.Group{Name: "Quantum"})
	require.NoError(t, err)

	_, err = s.AddMember(ctx, models.GroupMember{GroupID: g.ID, UserID: u.ID})
	require.NoError(t, err)
	got, _ := s.GetGroup(ctx, g.ID)
	assert.Equal(t, 1, got.MembersCount)

	_, err = s.AddMember(ctx, models.GroupMember{GroupID: g.ID, UserID: u.ID})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	got, _ = s.GetGroup(ctx, g.ID)
	assert.Equal(t, 1, got.MembersCount)

	mine, err := s.ListUserGroups(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, g.ID, mine[0].ID)

	require.NoError(t, s.RemoveMember(ctx, g.ID, u.ID))
	got, _ = s.GetGroup(ctx, g.ID)
	assert.Equal(t, 0, got.MembersCount)

	assert.ErrorIs(t, s.RemoveMember(ctx, g.ID, u.ID), storage.ErrNotFound)
}

func TestRemoveMemberFloorsAtZero(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := mustUser(t, s, "a@example.com")
	g, err := s.CreateGroup(ctx, models.Group{Name: "Drifted"})
	require.NoError(t, err)
	_, err = s.AddMember(ctx, models.GroupMember{GroupID: g.ID, UserID: u.ID})
	require.NoError(t, err)

	s.mu.Lock()
	drifted := s.groups[g.ID]
	drifted.MembersCount = 0
	s.groups[g.ID] = drifted
	s.mu.Unlock()

	require.NoError(t, s.RemoveMember(ctx, g.ID, u.ID))
	got, _ := s.GetGroup(ctx, g.ID)
	assert.Equal(t, 0, got.MembersCount)
}

func TestCalendarOnePerDay(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := mustUser(t, s, "a@example.com")

	created, err := s.CreateCalendarEvent(ctx, models.CalendarEvent{UserID: u.ID, Day: 5, Title: "Read"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCalendarType, created.Type)

	_, err = s.CreateCalendarEvent(ctx, models.CalendarEvent{UserID: u.ID, Day: 5, Title: "Again"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	updated, err := s.UpdateCalendarEvent(ctx, u.ID, 5, "Write")
	require.NoError(t, err)
	assert.Equal(t, "Write", updated.Title)

	require.NoError(t, s.DeleteCalendarEvent(ctx, u.ID, 5))
	assert.ErrorIs(t, s.DeleteCalendarEvent(ctx, u.ID, 5), storage.ErrNotFound)
	_, err = s.UpdateCalendarEvent(ctx, u.ID, 5, "x")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCheckinsDateRange(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := mustUser(t, s, "a@example.com")
	for _, d := range []string{"2024-01-01", "2024-01-15", "2024-02-01"} {
		_, err := s.CreateCheckin(ctx, models.Checkin{UserID: u.ID, Date: d, Type: "mood", Content: d})
		require.NoError(t, err)
	}

	all, err := s.ListCheckins(ctx, u.ID, storage.CheckinFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-02-01", all[0].Date)

	january, err := s.ListCheckins(ctx, u.ID, storage.CheckinFilter{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.NoError(t, err)
	require.Len(t, january, 2)
	assert.Equal(t, "2024-01-15", january[0].Date)
}
