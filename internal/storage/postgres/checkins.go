package postgres

import (
	"context"
	"fmt"

	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/storage"
)

const checkinColumns = `id, user_id, to_char(date, 'YYYY-MM-DD'), type, content, emoji, created_at`

func scanCheckin(row scanner) (models.Checkin, error) {
	var c models.Checkin
	err := row.Scan(&c.ID, &c.UserID, &c.Date, &c.Type, &c.Content, &c.Emoji, &c.CreatedAt)
	return c, err
}

func (s *Store) ListCheckins(ctx context.Context, userID string, filter storage.CheckinFilter) ([]models.Checkin, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+checkinColumns+` FROM checkins
		WHERE user_id = $1
		AND ($2 = '' OR date >= NULLIF($2, '')::date)
		AND ($3 = '' OR date <= NULLIF($3, '')::date)
		ORDER BY date DESC, created_at DESC`, userID, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, wrap("list checkins", err)
	}
	defer rows.Close()

	out := []models.Checkin{}
	for rows.Next() {
		c, err := scanCheckin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checkin: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetCheckin(ctx context.Context, id string) (models.Checkin, error) {
	c, err := scanCheckin(s.db.QueryRowContext(ctx, `SELECT `+checkinColumns+` FROM checkins WHERE id = $1`, id))
	if err != nil {
		return models.Checkin{}, wrap("get checkin", err)
	}
	return c, nil
}

func (s *Store) CreateCheckin(ctx context.Context, checkin models.Checkin) (models.Checkin, error) {
	c, err := scanCheckin(s.db.QueryRowContext(ctx,
		`INSERT INTO checkins (user_id, date, type, content, emoji) VALUES ($1, $2::date, $3, $4, $5) RETURNING `+checkinColumns,
		checkin.UserID, checkin.Date, checkin.Type, checkin.Content, checkin.Emoji))
	if err != nil {
		return models.Checkin{}, wrap("create checkin", err)
	}
	return c, nil
}

func (s *Store) UpdateCheckin(ctx context.Context, id string, patch models.CheckinPatch) (models.Checkin, error) {
	if patch.Empty() {
		return s.GetCheckin(ctx, id)
	}
	var set assignments
	addIf(&set, "content", patch.Content)
	addIf(&set, "emoji", patch.Emoji)
	where := set.next(id)

	query := fmt.Sprintf(`UPDATE checkins SET %s WHERE id = %s RETURNING %s`, set.clause(), where, checkinColumns)
	c, err := scanCheckin(s.db.QueryRowContext(ctx, query, set.args...))
	if err != nil {
		return models.Checkin{}, wrap("update checkin", err)
	}
	return c, nil
}

func (s *Store) DeleteCheckin(ctx context.Context, id string) error {
	return s.execDelete(ctx, "delete checkin", `DELETE FROM checkins WHERE id = $1`, id)
}
