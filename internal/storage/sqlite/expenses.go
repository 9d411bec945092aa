package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/ledgerly/internal/models"
	"github.com/mmynk/ledgerly/internal/storage"
)

const expenseColumns = `id, amount, payer_id, category_id, memo, date, group_id, recurring_payment_id, created_at, updated_at`

// CreateExpense persists a new expense and its shares in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Amount, expense.PayerID, nullString(expense.CategoryID),
		expense.Memo, formatDate(expense.Date), nullString(expense.GroupID),
		nullString(expense.RecurringPaymentID), expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "insert expense")
	}

	if err := insertShares(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense with its shares.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, expenseID)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT expense_id, user_id, owed_amount FROM expense_shares WHERE expense_id = ? ORDER BY position`,
		expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense shares: %w", err)
	}
	defer rows.Close()

	shares, err := scanShares(rows)
	if err != nil {
		return nil, err
	}
	expense.Shares = shares[expenseID]
	return expense, nil
}

// UpdateExpense replaces an expense row and all of its shares.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses
		 SET amount = ?, payer_id = ?, category_id = ?, memo = ?, date = ?, group_id = ?, updated_at = ?
		 WHERE id = ?`,
		expense.Amount, expense.PayerID, nullString(expense.CategoryID), expense.Memo,
		formatDate(expense.Date), nullString(expense.GroupID), expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return mapError(err, "update expense")
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	} else if n == 0 {
		return fmt.Errorf("%w: expense %s", storage.ErrNotFound, expense.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_shares WHERE expense_id = ?`, expense.ID); err != nil {
		return fmt.Errorf("failed to delete old shares: %w", err)
	}
	if err := insertShares(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense. Shares are removed by ON DELETE CASCADE.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}
	return nil
}

// ListExpenses returns the expenses in scope with their shares, oldest first.
// Expenses and shares are read in one transaction.
func (s *SQLiteStore) ListExpenses(ctx context.Context, scope storage.Scope) ([]*models.Expense, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	return listExpenses(ctx, tx, scope)
}

func listExpenses(ctx context.Context, q querier, scope storage.Scope) ([]*models.Expense, error) {
	where, args := scopeFilter("group_id", scope)

	rows, err := q.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE `+where+` ORDER BY date, created_at, id`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	var expenses []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	rows.Close()

	where, args = scopeFilter("e.group_id", scope)
	shareRows, err := q.QueryContext(ctx,
		`SELECT s.expense_id, s.user_id, s.owed_amount
		 FROM expense_shares s JOIN expenses e ON e.id = s.expense_id
		 WHERE `+where+` ORDER BY s.expense_id, s.position`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense shares: %w", err)
	}
	defer shareRows.Close()

	shares, err := scanShares(shareRows)
	if err != nil {
		return nil, err
	}
	for _, e := range expenses {
		e.Shares = shares[e.ID]
	}
	return expenses, nil
}

// OccurrenceExists reports whether the recurring payment already produced an
// expense dated date.
func (s *SQLiteStore) OccurrenceExists(ctx context.Context, recurringID string, date time.Time) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM expenses WHERE recurring_payment_id = ? AND date = ?`,
		recurringID, formatDate(date),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check occurrence: %w", err)
	}
	return n > 0, nil
}

func insertShares(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i := range expense.Shares {
		share := &expense.Shares[i]
		share.ExpenseID = expense.ID
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO expense_shares (expense_id, user_id, owed_amount, position) VALUES (?, ?, ?, ?)`,
			expense.ID, share.UserID, share.OwedAmount, i,
		); err != nil {
			return mapError(err, "insert expense share")
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	e := &models.Expense{}
	var categoryID, groupID, recurringID sql.NullString
	var date string
	err := row.Scan(&e.ID, &e.Amount, &e.PayerID, &categoryID, &e.Memo, &date,
		&groupID, &recurringID, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}
	if e.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	e.CategoryID = categoryID.String
	e.GroupID = groupID.String
	e.RecurringPaymentID = recurringID.String
	return e, nil
}

// scanShares groups share rows by expense ID, preserving row order.
func scanShares(rows *sql.Rows) (map[string][]models.ExpenseShare, error) {
	shares := make(map[string][]models.ExpenseShare)
	for rows.Next() {
		var sh models.ExpenseShare
		if err := rows.Scan(&sh.ExpenseID, &sh.UserID, &sh.OwedAmount); err != nil {
			return nil, fmt.Errorf("failed to scan expense share: %w", err)
		}
		shares[sh.ExpenseID] = append(shares[sh.ExpenseID], sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense shares: %w", err)
	}
	return shares, nil
}
