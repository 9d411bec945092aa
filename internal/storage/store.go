// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/mmynk/ledgerly/internal/models"
)

// DirectoryStore persists the users, groups and categories the ledger references.
type DirectoryStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)

	// GetUsersByIDs returns a map of user ID to User.
	// Users that don't exist are omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]*models.Group, error)
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error
	RemoveGroupMember(ctx context.Context, groupID, userID string) error

	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, categoryID string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

// ExpenseStore persists expenses together with their shares.
type ExpenseStore interface {
	// CreateExpense inserts the expense and its shares in one transaction.
	// The expense.ID, CreatedAt and UpdatedAt fields are populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense replaces the expense row and all of its shares in one transaction.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes the expense; its shares are removed with it.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpenses returns the expenses in scope, shares included, oldest first.
	ListExpenses(ctx context.Context, scope Scope) ([]*models.Expense, error)

	// OccurrenceExists reports whether an expense was already materialized for
	// the recurring payment on the given date.
	OccurrenceExists(ctx context.Context, recurringID string, date time.Time) (bool, error)
}

// SettlementStore persists settlements.
type SettlementStore interface {
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)
	ListSettlements(ctx context.Context, scope Scope) ([]*models.Settlement, error)
	DeleteSettlement(ctx context.Context, settlementID string) error
}

// BalanceBuilder derives balance rows from the expenses and settlements of
// the scopes being rebuilt.
type BalanceBuilder func(expenses []*models.Expense, settlements []*models.Settlement) ([]models.Balance, error)

// BalanceStore holds the derived balance cache.
type BalanceStore interface {
	// RebuildBalances reads the expenses (shares included) and settlements of
	// scopes, hands them to build and replaces the scopes' balance rows with
	// the result. Reads and writes share one transaction, so build sees a
	// single snapshot. If build or any statement fails nothing changes.
	RebuildBalances(ctx context.Context, scopes []Scope, build BalanceBuilder) error

	// ReplaceBalances deletes every balance row covered by scopes and inserts
	// balances, all inside one transaction. On error nothing changes.
	ReplaceBalances(ctx context.Context, scopes []Scope, balances []models.Balance) error

	// ListBalances returns balances in scope ordered by group then user.
	ListBalances(ctx context.Context, scope Scope) ([]models.Balance, error)
}

// RecurringStore persists recurring payment definitions.
type RecurringStore interface {
	CreateRecurringPayment(ctx context.Context, rp *models.RecurringPayment) error
	GetRecurringPayment(ctx context.Context, recurringID string) (*models.RecurringPayment, error)
	ListRecurringPayments(ctx context.Context, scope Scope) ([]*models.RecurringPayment, error)

	// ListDueRecurringPayments returns active definitions in scope whose
	// next due date is on or before asOf.
	ListDueRecurringPayments(ctx context.Context, asOf time.Time, scope Scope) ([]*models.RecurringPayment, error)

	// UpdateRecurringPayment replaces the definition and its participant list.
	UpdateRecurringPayment(ctx context.Context, rp *models.RecurringPayment) error

	// UpdateRecurringSchedule moves only the scheduling state of a definition.
	UpdateRecurringSchedule(ctx context.Context, recurringID string, nextDue *time.Time, active bool) error

	DeleteRecurringPayment(ctx context.Context, recurringID string) error
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger layer.
type Store interface {
	DirectoryStore
	ExpenseStore
	SettlementStore
	BalanceStore
	RecurringStore

	// Close releases any resources held by the store.
	Close() error
}
