package postgres

import (
	"context"
	"fmt"

	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/storage"
)

const contentColumns = `id, title, description, category, cover, author_id, views, likes, created_at, updated_at`

var contentOrder = map[string]string{
	storage.SortCreatedAt: "created_at DESC",
	storage.SortViews:     "views DESC, created_at DESC",
	storage.SortLikes:     "likes DESC, created_at DESC",
}

func scanContent(row scanner) (models.Content, error) {
	var c models.Content
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.Cover, &c.AuthorID, &c.Views, &c.Likes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *Store) ListContent(ctx context.Context, filter storage.ContentFilter) ([]models.Content, error) {
	page := filter.Page.Normalize()
	order, ok := contentOrder[filter.SortBy]
	if !ok {
		order = contentOrder[storage.SortCreatedAt]
	}
	query := fmt.Sprintf(`SELECT %s FROM content
		WHERE ($1 = '' OR category = $1)
		ORDER BY %s
		LIMIT $2 OFFSET $3`, contentColumns, order)

	rows, err := s.db.QueryContext(ctx, query, filter.Category, page.Limit, page.Offset)
	if err != nil {
		return nil, wrap("list content", err)
	}
	defer rows.Close()

	out := []models.Content{}
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetContent(ctx context.Context, id string) (models.Content, error) {
	c, err := scanContent(s.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM content WHERE id = $1`, id))
	if err != nil {
		return models.Content{}, wrap("get content", err)
	}
	return c, nil
}

func (s *Store) CreateContent(ctx context.Context, content models.Content) (models.Content, error) {
	query := `INSERT INTO content (title, description, category, cover, author_id, views, likes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + contentColumns
	c, err := scanContent(s.db.QueryRowContext(ctx, query,
		content.Title, content.Description, content.Category, content.Cover, content.AuthorID, content.Views, content.Likes))
	if err != nil {
		return models.Content{}, wrap("create content", err)
	}
	return c, nil
}

func (s *Store) UpdateContent(ctx context.Context, id string, patch models.ContentPatch) (models.Content, error) {
	if patch.Empty() {
		return s.GetContent(ctx, id)
	}
	var set assignments
	addIf(&set, "title", patch.Title)
	addIf(&set, "description", patch.Description)
	addIf(&set, "category", patch.Category)
	addIf(&set, "cover", patch.Cover)
	set.raw("updated_at = NOW()")
	where := set.next(id)

	query := fmt.Sprintf(`UPDATE content SET %s WHERE id = %s RETURNING %s`, set.clause(), where, contentColumns)
	c, err := scanContent(s.db.QueryRowContext(ctx, query, set.args...))
	if err != nil {
		return models.Content{}, wrap("update content", err)
	}
	return c, nil
}

func (s *Store) DeleteContent(ctx context.Context, id string) error {
	return s.execDelete(ctx, "delete content", `DELETE FROM content WHERE id = $1`, id)
}
