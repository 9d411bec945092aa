package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmynk/ledgerly/internal/models"
	"github.com/mmynk/ledgerly/internal/storage"
)

// CreateUser inserts a new user.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, created_at) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Name, nullString(user.Email), user.CreatedAt)
	if err != nil {
		return mapError(err, "create user")
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, userID string) (*models.User, error) {
	u := &models.User{}
	var email *string
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, created_at FROM users WHERE id = $1`, userID,
	).Scan(&u.ID, &u.Name, &email, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err, "user", userID)
	}
	u.Email = deref(email)
	return u, nil
}

// ListUsers returns every user ordered by name.
func (s *Store) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.queryUsers(ctx, `SELECT id, name, email, created_at FROM users ORDER BY name, id`)
}

// GetUsersByIDs returns the users that exist among ids.
func (s *Store) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	result := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	users, err := s.queryUsers(ctx,
		`SELECT id, name, email, created_at FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func (s *Store) queryUsers(ctx context.Context, query string, args ...any) ([]*models.User, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u := &models.User{}
		var email *string
		if err := rows.Scan(&u.ID, &u.Name, &email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.Email = deref(email)
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateGroup inserts a group and its initial members.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO groups (id, name, created_at) VALUES ($1, $2, $3)`,
			group.ID, group.Name, group.CreatedAt); err != nil {
			return mapError(err, "insert group")
		}
		return insertMembers(ctx, tx, group.ID, group.Members, group.CreatedAt)
	})
}

// GetGroup retrieves a group with its members.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	g := &models.Group{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM groups WHERE id = $1`, groupID,
	).Scan(&g.ID, &g.Name, &g.CreatedAt)
	if err != nil {
		return nil, notFound(err, "group", groupID)
	}
	if g.Members, err = groupMembers(ctx, s.pool, groupID); err != nil {
		return nil, err
	}
	return g, nil
}

// ListGroups returns every group with its members.
func (s *Store) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, created_at FROM groups ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	groups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Group, error) {
		g := &models.Group{}
		return g, row.Scan(&g.ID, &g.Name, &g.CreatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan groups: %w", err)
	}
	for _, g := range groups {
		if g.Members, err = groupMembers(ctx, s.pool, g.ID); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// AddGroupMembers adds users to an existing group, ignoring current members.
func (s *Store) AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM groups WHERE id = $1)`, groupID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check group: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: group %s", storage.ErrNotFound, groupID)
		}
		return insertMembers(ctx, tx, groupID, userIDs, time.Now().Unix())
	})
}

// RemoveGroupMember removes one user from a group.
func (s *Store) RemoveGroupMember(ctx context.Context, groupID, userID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: member %s of group %s", storage.ErrNotFound, userID, groupID)
	}
	return nil
}

func insertMembers(ctx context.Context, db PGXDB, groupID string, userIDs []string, joinedAt int64) error {
	for _, userID := range userIDs {
		if _, err := db.Exec(ctx,
			`INSERT INTO group_members (group_id, user_id, joined_at) VALUES ($1, $2, $3)
			 ON CONFLICT (group_id, user_id) DO NOTHING`,
			groupID, userID, joinedAt); err != nil {
			return mapError(err, "insert group member")
		}
	}
	return nil
}

func groupMembers(ctx context.Context, db PGXDB, groupID string) ([]string, error) {
	rows, err := db.Query(ctx,
		`SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY joined_at, user_id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	members, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan group members: %w", err)
	}
	return members, nil
}

// CreateCategory inserts a category with a unique name.
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.CreatedAt == 0 {
		category.CreatedAt = time.Now().Unix()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3)`,
		category.ID, category.Name, category.CreatedAt)
	if err != nil {
		return mapError(err, "create category")
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (s *Store) GetCategory(ctx context.Context, categoryID string) (*models.Category, error) {
	c := &models.Category{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM categories WHERE id = $1`, categoryID,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err, "category", categoryID)
	}
	return c, nil
}

// ListCategories returns every category ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Category, error) {
		c := &models.Category{}
		return c, row.Scan(&c.ID, &c.Name, &c.CreatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan categories: %w", err)
	}
	return categories, nil
}
