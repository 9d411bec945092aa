package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the database schema.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT UNIQUE,
			created_at BIGINT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS groups (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS group_members (
			group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL REFERENCES users(id),
			joined_at BIGINT NOT NULL,
			PRIMARY KEY (group_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at BIGINT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS recurring_payments (
			id TEXT PRIMARY KEY,
			amount NUMERIC(12, 2) NOT NULL,
			category_id TEXT REFERENCES categories(id),
			payer_id TEXT NOT NULL REFERENCES users(id),
			group_id TEXT REFERENCES groups(id),
			memo TEXT NOT NULL DEFAULT '',
			frequency TEXT NOT NULL CHECK (frequency IN ('day', 'week', 'month', 'year')),
			interval_count INTEGER NOT NULL CHECK (interval_count >= 1),
			start_date DATE NOT NULL,
			next_due DATE,
			end_date DATE,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS recurring_participants (
			recurring_id TEXT NOT NULL REFERENCES recurring_payments(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL REFERENCES users(id),
			position INTEGER NOT NULL,
			PRIMARY KEY (recurring_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS expenses (
			id TEXT PRIMARY KEY,
			amount NUMERIC(12, 2) NOT NULL,
			payer_id TEXT NOT NULL REFERENCES users(id),
			category_id TEXT REFERENCES categories(id),
			memo TEXT NOT NULL DEFAULT '',
			date DATE NOT NULL,
			group_id TEXT REFERENCES groups(id),
			recurring_payment_id TEXT REFERENCES recurring_payments(id) ON DELETE SET NULL,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS expense_shares (
			expense_id TEXT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL REFERENCES users(id),
			owed_amount NUMERIC(12, 2) NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (expense_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS settlements (
			id TEXT PRIMARY KEY,
			group_id TEXT REFERENCES groups(id),
			payer_id TEXT NOT NULL REFERENCES users(id),
			receiver_id TEXT NOT NULL REFERENCES users(id),
			amount NUMERIC(12, 2) NOT NULL,
			date DATE NOT NULL,
			memo TEXT NOT NULL DEFAULT '',
			created_at BIGINT NOT NULL,
			CHECK (payer_id <> receiver_id)
		)`,

		`CREATE TABLE IF NOT EXISTS balances (
			user_id TEXT NOT NULL,
			group_id TEXT NOT NULL DEFAULT '',
			amount NUMERIC(12, 2) NOT NULL,
			updated_at BIGINT NOT NULL,
			PRIMARY KEY (group_id, user_id)
		)`,

		`CREATE UNIQUE INDEX IF NOT EXISTS idx_expenses_occurrence
			ON expenses(recurring_payment_id, date) WHERE recurring_payment_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_group_id ON expenses(group_id)`,
		`CREATE INDEX IF NOT EXISTS idx_settlements_group_id ON settlements(group_id)`,
		`CREATE INDEX IF NOT EXISTS idx_recurring_due ON recurring_payments(active, next_due)`,
	}

	for i, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
