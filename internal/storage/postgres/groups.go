package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/storage"
)

const (
	groupColumns  = `id, name, description, cover, icon, members_count, created_at, updated_at`
	memberColumns = `id, group_id, user_id, is_admin, joined_at`
)

var groupOrder = map[string]string{
	storage.SortCreatedAt:    "created_at DESC",
	storage.SortMembersCount: "members_count DESC, created_at DESC",
}

func scanGroup(row scanner) (models.Group, error) {
	var g models.Group
	err := row.Scan(&g.ID, &g.Name, &g.Description, &g.Cover, &g.Icon, &g.MembersCount, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

func scanMember(row scanner) (models.GroupMember, error) {
	var m models.GroupMember
	err := row.Scan(&m.ID, &m.GroupID, &m.UserID, &m.IsAdmin, &m.JoinedAt)
	return m, err
}

func (s *Store) queryGroups(ctx context.Context, op, query string, args ...any) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	out := []models.Group{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) ListGroups(ctx context.Context, filter storage.GroupFilter) ([]models.Group, error) {
	page := filter.Page.Normalize()
	order, ok := groupOrder[filter.SortBy]
	if !ok {
		order = groupOrder[storage.SortCreatedAt]
	}
	query := fmt.Sprintf(`SELECT %s FROM groups ORDER BY %s LIMIT $1 OFFSET $2`, groupColumns, order)
	return s.queryGroups(ctx, "list groups", query, page.Limit, page.Offset)
}

func (s *Store) ListUserGroups(ctx context.Context, userID string) ([]models.Group, error) {
	query := `SELECT g.id, g.name, g.description, g.cover, g.icon, g.members_count, g.created_at, g.updated_at
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = $1
		ORDER BY g.created_at DESC`
	return s.queryGroups(ctx, "list user groups", query, userID)
}

func (s *Store) GetGroup(ctx context.Context, id string) (models.Group, error) {
	g, err := scanGroup(s.db.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM groups WHERE id = $1`, id))
	if err != nil {
		return models.Group{}, wrap("get group", err)
	}
	return g, nil
}

func (s *Store) CreateGroup(ctx context.Context, group models.Group) (models.Group, error) {
	g, err := scanGroup(s.db.QueryRowContext(ctx,
		`INSERT INTO groups (name, description, cover, icon, members_count) VALUES ($1, $2, $3, $4, $5) RETURNING `+groupColumns,
		group.Name, group.Description, group.Cover, group.Icon, max(group.MembersCount, 0)))
	if err != nil {
		return models.Group{}, wrap("create group", err)
	}
	return g, nil
}

func (s *Store) UpdateGroup(ctx context.Context, id string, patch models.GroupPatch) (models.Group, error) {
	if patch.Empty() {
		return s.GetGroup(ctx, id)
	}
	var set assignments
	addIf(&set, "name", patch.Name)
	addIf(&set, "description", patch.Description)
	addIf(&set, "cover", patch.Cover)
	addIf(&set, "icon", patch.Icon)
	set.raw("updated_at = NOW()")
	where := set.next(id)

	query := fmt.Sprintf(`UPDATE groups SET %s WHERE id = %s RETURNING %s`, set.clause(), where, groupColumns)
	g, err := scanGroup(s.db.QueryRowContext(ctx, query, set.args...))
	if err != nil {
		return models.Group{}, wrap("update group", err)
	}
	return g, nil
}

func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	return s.execDelete(ctx, "delete group", `DELETE FROM groups WHERE id = $1`, id)
}

func (s *Store) ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM group_members WHERE group_id = $1 ORDER BY joined_at`, groupID)
	if err != nil {
		return nil, wrap("list members", err)
	}
	defer rows.Close()

	out := []models.GroupMember{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AddMember inserts the membership and bumps members_count in one transaction.
func (s *Store) AddMember(ctx context.Context, member models.GroupMember) (models.GroupMember, error) {
	var created models.GroupMember
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		m, err := scanMember(tx.QueryRowContext(ctx,
			`INSERT INTO group_members (group_id, user_id, is_admin) VALUES ($1, $2, $3) RETURNING `+memberColumns,
			member.GroupID, member.UserID, member.IsAdmin))
		if err != nil {
			return wrap("add member", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE groups SET members_count = members_count + 1, updated_at = NOW() WHERE id = $1`,
			member.GroupID); err != nil {
			return wrap("increment members", err)
		}
		created = m
		return nil
	})
	if err != nil {
		return models.GroupMember{}, err
	}
	return created, nil
}

// RemoveMember deletes the membership and decrements members_count, never below zero.
func (s *Store) RemoveMember(ctx context.Context, groupID, userID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, userID)
		if err != nil {
			return wrap("remove member", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("remove member: %w", err)
		}
		if n == 0 {
			return storage.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE groups SET members_count = GREATEST(members_count - 1, 0), updated_at = NOW() WHERE id = $1`,
			groupID); err != nil {
			return wrap("decrement members", err)
		}
		return nil
	})
}
