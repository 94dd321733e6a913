package postgres

import (
	"context"
	"fmt"

	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/storage"
)

const (
	eventColumns   = `id, title, category, date, location, distance, cover, created_at, updated_at`
	bookingColumns = `id, user_id, event_id, booked_at`
)

func scanEvent(row scanner) (models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Title, &e.Category, &e.Date, &e.Location, &e.Distance, &e.Cover, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func scanBooking(row scanner) (models.UserEvent, error) {
	var b models.UserEvent
	err := row.Scan(&b.ID, &b.UserID, &b.EventID, &b.BookedAt)
	return b, err
}

func (s *Store) ListEvents(ctx context.Context, filter storage.EventFilter) ([]models.Event, error) {
	page := filter.Page.Normalize()
	rows, err := s.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events
		WHERE ($1 = '' OR category = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, filter.Category, page.Limit, page.Offset)
	if err != nil {
		return nil, wrap("list events", err)
	}
	defer rows.Close()

	out := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) GetEvent(ctx context.Context, id string) (models.Event, error) {
	e, err := scanEvent(s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		return models.Event{}, wrap("get event", err)
	}
	return e, nil
}

func (s *Store) CreateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	query := `INSERT INTO events (title, category, date, location, distance, cover)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + eventColumns
	e, err := scanEvent(s.db.QueryRowContext(ctx, query,
		event.Title, event.Category, event.Date, event.Location, event.Distance, event.Cover))
	if err != nil {
		return models.Event{}, wrap("create event", err)
	}
	return e, nil
}

func (s *Store) UpdateEvent(ctx context.Context, id string, patch models.EventPatch) (models.Event, error) {
	if patch.Empty() {
		return s.GetEvent(ctx, id)
	}
	var set assignments
	addIf(&set, "title", patch.Title)
	addIf(&set, "category", patch.Category)
	addIf(&set, "date", patch.Date)
	addIf(&set, "location", patch.Location)
	addIf(&set, "distance", patch.Distance)
	addIf(&set, "cover", patch.Cover)
	set.raw("updated_at = NOW()")
	where := set.next(id)

	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = %s RETURNING %s`, set.clause(), where, eventColumns)
	e, err := scanEvent(s.db.QueryRowContext(ctx, query, set.args...))
	if err != nil {
		return models.Event{}, wrap("update event", err)
	}
	return e, nil
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	return s.execDelete(ctx, "delete event", `DELETE FROM events WHERE id = $1`, id)
}

func (s *Store) ListUserEvents(ctx context.Context, userID string) ([]models.UserEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM user_events WHERE user_id = $1 ORDER BY booked_at DESC`, userID)
	if err != nil {
		return nil, wrap("list user events", err)
	}
	defer rows.Close()

	out := []models.UserEvent{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) BookEvent(ctx context.Context, booking models.UserEvent) (models.UserEvent, error) {
	b, err := scanBooking(s.db.QueryRowContext(ctx,
		`INSERT INTO user_events (user_id, event_id) VALUES ($1, $2) RETURNING `+bookingColumns,
		booking.UserID, booking.EventID))
	if err != nil {
		return models.UserEvent{}, wrap("book event", err)
	}
	return b, nil
}

func (s *Store) CancelBooking(ctx context.Context, userID, eventID string) error {
	return s.execDelete(ctx, "cancel booking",
		`DELETE FROM user_events WHERE user_id = $1 AND event_id = $2`, userID, eventID)
}
