package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/mmynk/ledgerly/internal/models"
	"github.com/mmynk/ledgerly/internal/storage"
)

// CreateUser registers a user. Email is optional but unique when given.
func (l *Ledger) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "required")
	}
	email = strings.TrimSpace(email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, invalid("email", "malformed address %q", email)
		}
	}

	user := &models.User{Name: name, Email: email}
	if err := l.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("storing user: %w", err)
	}
	slog.Info("User created", "user_id", user.ID)
	return user, nil
}

// GetUser returns a user by ID.
func (l *Ledger) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return l.store.GetUser(ctx, userID)
}

// ListUsers returns every user.
func (l *Ledger) ListUsers(ctx context.Context) ([]*models.User, error) {
	return l.store.ListUsers(ctx)
}

// CreateGroup creates a group with an initial member list.
func (l *Ledger) CreateGroup(ctx context.Context, name string, members []string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "required")
	}
	if err := l.checkUsers(ctx, members); err != nil {
		return nil, err
	}

	group := &models.Group{Name: name, Members: dedupe(members)}
	if err := l.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("storing group: %w", err)
	}
	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))
	return group, nil
}

// GetGroup returns a group with its members.
func (l *Ledger) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return l.store.GetGroup(ctx, groupID)
}

// ListGroups returns every group.
func (l *Ledger) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return l.store.ListGroups(ctx)
}

// AddGroupMembers adds users to a group and returns the updated group.
func (l *Ledger) AddGroupMembers(ctx context.Context, groupID string, userIDs []string) (*models.Group, error) {
	if len(userIDs) == 0 {
		return nil, invalid("user_ids", "at least one user is required")
	}
	if err := l.checkUsers(ctx, userIDs); err != nil {
		return nil, err
	}
	if err := l.store.AddGroupMembers(ctx, groupID, dedupe(userIDs)); err != nil {
		return nil, err
	}
	return l.store.GetGroup(ctx, groupID)
}

// RemoveGroupMember removes a user from a group. A member whose balance in
// the group is not zero cannot be removed.
func (l *Ledger) RemoveGroupMember(ctx context.Context, groupID, userID string) (*models.Group, error) {
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, fmt.Errorf("%w: member %s of group %s", storage.ErrNotFound, userID, groupID)
	}

	balances, err := l.store.ListBalances(ctx, storage.GroupScope(groupID))
	if err != nil {
		return nil, err
	}
	for _, b := range balances {
		if b.UserID == userID && !b.Amount.IsZero() {
			return nil, invalid("user_id", "user %s has an outstanding balance of %s in group %s",
				userID, b.Amount.StringFixed(2), groupID)
		}
	}

	if err := l.store.RemoveGroupMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	slog.Info("Group member removed", "group_id", groupID, "user_id", userID)
	return l.store.GetGroup(ctx, groupID)
}

// CreateCategory adds a category with a unique name.
func (l *Ledger) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "required")
	}
	category := &models.Category{Name: name}
	if err := l.store.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("storing category: %w", err)
	}
	return category, nil
}

// ListCategories returns every category.
func (l *Ledger) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return l.store.ListCategories(ctx)
}

func (l *Ledger) checkUsers(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	users, err := l.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if users[id] == nil {
			return invalid("members", "unknown user %s", id)
		}
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
