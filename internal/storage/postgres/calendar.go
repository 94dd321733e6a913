package postgres

import (
	"context"
	"fmt"

	"github.com/hongminglow/nebula-be/internal/models"
)

const calendarColumns = `id, user_id, day, title, type, created_at`

func scanCalendarEvent(row scanner) (models.CalendarEvent, error) {
	var e models.CalendarEvent
	err := row.Scan(&e.ID, &e.UserID, &e.Day, &e.Title, &e.Type, &e.CreatedAt)
	return e, err
}

func (s *Store) ListCalendarEvents(ctx context.Context, userID string) ([]models.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+calendarColumns+` FROM calendar_events WHERE user_id = $1 ORDER BY day`, userID)
	if err != nil {
		return nil, wrap("list calendar events", err)
	}
	defer rows.Close()

	out := []models.CalendarEvent{}
	for rows.Next() {
		e, err := scanCalendarEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calendar event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CreateCalendarEvent relies on the (user_id, day) unique constraint.
func (s *Store) CreateCalendarEvent(ctx context.Context, event models.CalendarEvent) (models.CalendarEvent, error) {
	if event.Type == "" {
		event.Type = models.DefaultCalendarType
	}
	e, err := scanCalendarEvent(s.db.QueryRowContext(ctx,
		`INSERT INTO calendar_events (user_id, day, title, type) VALUES ($1, $2, $3, $4) RETURNING `+calendarColumns,
		event.UserID, event.Day, event.Title, event.Type))
	if err != nil {
		return models.CalendarEvent{}, wrap("create calendar event", err)
	}
	return e, nil
}

func (s *Store) UpdateCalendarEvent(ctx context.Context, userID string, day int, title string) (models.CalendarEvent, error) {
	e, err := scanCalendarEvent(s.db.QueryRowContext(ctx,
		`UPDATE calendar_events SET title = $1 WHERE user_id = $2 AND day = $3 RETURNING `+calendarColumns,
		title, userID, day))
	if err != nil {
		return models.CalendarEvent{}, wrap("update calendar event", err)
	}
	return e, nil
}

func (s *Store) DeleteCalendarEvent(ctx context.Context, userID string, day int) error {
	return s.execDelete(ctx, "delete calendar event",
		`DELETE FROM calendar_events WHERE user_id = $1 AND day = $2`, userID, day)
}
