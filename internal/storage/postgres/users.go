package postgres

import (
	"context"
	"fmt"

	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/storage"
)

const userColumns = `id, email, name, avatar, role, password_hash, created_at, updated_at`

func scanUser(row scanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Avatar, &u.Role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	query := `INSERT INTO users (email, name, avatar, role, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns
	created, err := scanUser(s.db.QueryRowContext(ctx, query, user.Email, user.Name, user.Avatar, user.Role, user.PasswordHash))
	if err != nil {
		return models.User{}, wrap("create user", err)
	}
	return created, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return models.User{}, wrap("get user", err)
	}
	return u, nil
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return models.User{}, wrap("find user by email", err)
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context, page storage.Page) ([]models.User, error) {
	page = page.Normalize()
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset)
	if err != nil {
		return nil, wrap("list users", err)
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (models.User, error) {
	if patch.Empty() {
		return s.GetUser(ctx, id)
	}
	var set assignments
	addIf(&set, "name", patch.Name)
	addIf(&set, "avatar", patch.Avatar)
	addIf(&set, "password_hash", patch.PasswordHash)
	set.raw("updated_at = NOW()")
	where := set.next(id)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = %s RETURNING %s`, set.clause(), where, userColumns)
	u, err := scanUser(s.db.QueryRowContext(ctx, query, set.args...))
	if err != nil {
		return models.User{}, wrap("update user", err)
	}
	return u, nil
}
