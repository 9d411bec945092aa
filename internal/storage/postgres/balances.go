package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mmynk/ledgerly/internal/models"
	"github.com/mmynk/ledgerly/internal/storage"
)

// The balances table keys the personal context as '' instead of NULL.
func balanceScopeFilter(scope storage.Scope) (string, []any) {
	if scope.All {
		return "TRUE", nil
	}
	return "group_id = $1", []any{scope.GroupID}
}

// RebuildBalances reads the ledger rows of scopes and replaces their balances
// with build's result in one repeatable-read transaction.
func (s *Store) RebuildBalances(ctx context.Context, scopes []storage.Scope, build storage.BalanceBuilder) error {
	scopes = storage.Normalize(scopes)
	return s.inSnapshot(ctx, func(tx pgx.Tx) error {
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
		return replaceBalances(ctx, tx, scopes, balances)
	})
}

// ReplaceBalances swaps the cached balances for scopes in one transaction.
func (s *Store) ReplaceBalances(ctx context.Context, scopes []storage.Scope, balances []models.Balance) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		return replaceBalances(ctx, tx, storage.Normalize(scopes), balances)
	})
}

func replaceBalances(ctx context.Context, tx pgx.Tx, scopes []storage.Scope, balances []models.Balance) error {
	for _, scope := range scopes {
		where, args := balanceScopeFilter(scope)
		if _, err := tx.Exec(ctx, `DELETE FROM balances WHERE `+where, args...); err != nil {
			return fmt.Errorf("failed to clear balances for %s: %w", scope, err)
		}
	}

	now := time.Now().Unix()
	batch := &pgx.Batch{}
	for _, b := range balances {
		updatedAt := b.UpdatedAt
		if updatedAt == 0 {
			updatedAt = now
		}
		batch.Queue(`INSERT INTO balances (user_id, group_id, amount, updated_at) VALUES ($1, $2, $3, $4)`,
			b.UserID, b.GroupID, amountArg(b.Amount), updatedAt)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapError(err, "insert balances")
	}
	return nil
}

// ListBalances returns cached balances in scope ordered by group then user.
func (s *Store) ListBalances(ctx context.Context, scope storage.Scope) ([]models.Balance, error) {
	where, args := balanceScopeFilter(scope)
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, group_id, amount::text, updated_at FROM balances WHERE `+where+` ORDER BY group_id, user_id`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	defer rows.Close()

	var balances []models.Balance
	for rows.Next() {
		var b models.Balance
		var amount string
		if err := rows.Scan(&b.UserID, &b.GroupID, &amount, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		if b.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}
