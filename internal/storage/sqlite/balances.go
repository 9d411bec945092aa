package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/ledgerly/internal/models"
	"github.com/mmynk/ledgerly/internal/storage"
)

// balanceScopeFilter differs from scopeFilter because the balances table keys
// the personal context as '' rather than NULL.
func balanceScopeFilter(scope storage.Scope) (string, []any) {
	if scope.All {
		return "1 = 1", nil
	}
	return "group_id = ?", []any{scope.GroupID}
}

// RebuildBalances reads the ledger rows of scopes and replaces their balances
// with build's result inside a single transaction.
func (s *SQLiteStore) RebuildBalances(ctx context.Context, scopes []storage.Scope, build storage.BalanceBuilder) error {
	scopes = storage.Normalize(scopes)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var expenses []*models.Expense
	var settlements []*models.Settlement
	for _, scope := range scopes {
		es, err := listExpenses(ctx, tx, scope)
		if err != nil {
			return err
		}
		sts, err := listSettlements(ctx, tx, scope)
		if err != nil {
			return err
		}
		expenses = append(expenses, es...)
		settlements = append(settlements, sts...)
	}

	balances, err := build(expenses, settlements)
	if err != nil {
		return err
	}
	if err := replaceBalances(ctx, tx, scopes, balances); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReplaceBalances swaps the cached balances for the given scopes in a single
// transaction.
func (s *SQLiteStore) ReplaceBalances(ctx context.Context, scopes []storage.Scope, balances []models.Balance) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := replaceBalances(ctx, tx, storage.Normalize(scopes), balances); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func replaceBalances(ctx context.Context, tx *sql.Tx, scopes []storage.Scope, balances []models.Balance) error {
	for _, scope := range scopes {
		where, args := balanceScopeFilter(scope)
		if _, err := tx.ExecContext(ctx, `DELETE FROM balances WHERE `+where, args...); err != nil {
			return fmt.Errorf("failed to clear balances for %s: %w", scope, err)
		}
	}

	now := time.Now().Unix()
	for _, b := range balances {
		updatedAt := b.UpdatedAt
		if updatedAt == 0 {
			updatedAt = now
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO balances (user_id, group_id, amount, updated_at) VALUES (?, ?, ?, ?)`,
			b.UserID, b.GroupID, b.Amount, updatedAt,
		); err != nil {
			return mapError(err, "insert balance")
		}
	}
	return nil
}

// ListBalances returns cached balances in scope ordered by group then user.
func (s *SQLiteStore) ListBalances(ctx context.Context, scope storage.Scope) ([]models.Balance, error) {
	where, args := balanceScopeFilter(scope)
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, group_id, amount, updated_at FROM balances WHERE `+where+` ORDER BY group_id, user_id`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	defer rows.Close()

	var balances []models.Balance
	for rows.Next() {
		var b models.Balance
		if err := rows.Scan(&b.UserID, &b.GroupID, &b.Amount, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balances: %w", err)
	}
	return balances, nil
}
