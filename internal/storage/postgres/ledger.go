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

const expenseColumns = `id, amount::text, payer_id, category_id, memo, date, group_id, recurring_payment_id, created_at, updated_at`

// CreateExpense inserts an expense and its shares in one transaction.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = now

	return s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO expenses (id, amount, payer_id, category_id, memo, date, group_id, recurring_payment_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			expense.ID, amountArg(expense.Amount), expense.PayerID, nullString(expense.CategoryID),
			expense.Memo, utcDate(expense.Date), nullString(expense.GroupID),
			nullString(expense.RecurringPaymentID), expense.CreatedAt, expense.UpdatedAt)
		if err != nil {
			return mapError(err, "insert expense")
		}
		return insertShares(ctx, tx, expense)
	})
}

// GetExpense retrieves an expense with its shares.
func (s *Store) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	e, err := scanExpense(s.pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, expenseID))
	if err != nil {
		return nil, notFound(err, "expense", expenseID)
	}
	shares, err := queryShares(ctx, s.pool,
		`SELECT expense_id, user_id, owed_amount::text FROM expense_shares WHERE expense_id = $1 ORDER BY position`,
		expenseID)
	if err != nil {
		return nil, err
	}
	e.Shares = shares[e.ID]
	return e, nil
}

// UpdateExpense replaces an expense and its shares.
func (s *Store) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()
	return s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE expenses
			 SET amount = $1, payer_id = $2, category_id = $3, memo = $4, date = $5, group_id = $6, updated_at = $7
			 WHERE id = $8`,
			amountArg(expense.Amount), expense.PayerID, nullString(expense.CategoryID), expense.Memo,
			utcDate(expense.Date), nullString(expense.GroupID), expense.UpdatedAt, expense.ID)
		if err != nil {
			return mapError(err, "update expense")
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: expense %s", storage.ErrNotFound, expense.ID)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM expense_shares WHERE expense_id = $1`, expense.ID); err != nil {
			return fmt.Errorf("failed to delete old shares: %w", err)
		}
		return insertShares(ctx, tx, expense)
	})
}

// DeleteExpense removes an expense and, by cascade, its shares.
func (s *Store) DeleteExpense(ctx context.Context, expenseID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}
	return nil
}

// ListExpenses returns expenses in scope with shares, oldest first. Both
// queries read the same snapshot.
func (s *Store) ListExpenses(ctx context.Context, scope storage.Scope) ([]*models.Expense, error) {
	var expenses []*models.Expense
	err := s.inSnapshot(ctx, func(tx pgx.Tx) error {
		var err error
		expenses, err = listExpenses(ctx, tx, scope)
		return err
	})
	return expenses, err
}

func listExpenses(ctx context.Context, db PGXDB, scope storage.Scope) ([]*models.Expense, error) {
	where, args := scopeFilter("group_id", scope, 1)
	rows, err := db.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE `+where+` ORDER BY date, created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	expenses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Expense, error) {
		return scanExpense(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan expenses: %w", err)
	}

	where, args = scopeFilter("e.group_id", scope, 1)
	shares, err := queryShares(ctx, db,
		`SELECT s.expense_id, s.user_id, s.owed_amount::text
		 FROM expense_shares s JOIN expenses e ON e.id = s.expense_id
		 WHERE `+where+` ORDER BY s.expense_id, s.position`, args...)
	if err != nil {
		return nil, err
	}
	for _, e := range expenses {
		e.Shares = shares[e.ID]
	}
	return expenses, nil
}

// OccurrenceExists reports whether recurringID already produced an expense on date.
func (s *Store) OccurrenceExists(ctx context.Context, recurringID string, date time.Time) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM expenses WHERE recurring_payment_id = $1 AND date = $2)`,
		recurringID, utcDate(date)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check occurrence: %w", err)
	}
	return exists, nil
}

func insertShares(ctx context.Context, db PGXDB, expense *models.Expense) error {
	for i := range expense.Shares {
		sh := &expense.Shares[i]
		sh.ExpenseID = expense.ID
		if _, err := db.Exec(ctx,
			`INSERT INTO expense_shares (expense_id, user_id, owed_amount, position) VALUES ($1, $2, $3, $4)`,
			expense.ID, sh.UserID, amountArg(sh.OwedAmount), i); err != nil {
			return mapError(err, "insert expense share")
		}
	}
	return nil
}

func queryShares(ctx context.Context, db PGXDB, query string, args ...any) (map[string][]models.ExpenseShare, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense shares: %w", err)
	}
	defer rows.Close()

	shares := make(map[string][]models.ExpenseShare)
	for rows.Next() {
		var sh models.ExpenseShare
		var owed string
		if err := rows.Scan(&sh.ExpenseID, &sh.UserID, &owed); err != nil {
			return nil, fmt.Errorf("failed to scan expense share: %w", err)
		}
		if sh.OwedAmount, err = parseAmount(owed); err != nil {
			return nil, err
		}
		shares[sh.ExpenseID] = append(shares[sh.ExpenseID], sh)
	}
	return shares, rows.Err()
}

func scanExpense(row pgx.Row) (*models.Expense, error) {
	e := &models.Expense{}
	var amount string
	var categoryID, groupID, recurringID *string
	if err := row.Scan(&e.ID, &amount, &e.PayerID, &categoryID, &e.Memo, &e.Date,
		&groupID, &recurringID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if e.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	e.Date = utcDate(e.Date)
	e.CategoryID = deref(categoryID)
	e.GroupID = deref(groupID)
	e.RecurringPaymentID = deref(recurringID)
	return e, nil
}

const settlementColumns = `id, group_id, payer_id, receiver_id, amount::text, date, memo, created_at`

// CreateSettlement inserts a settlement.
func (s *Store) CreateSettlement(ctx context.Context, st *models.Settlement) error {
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	if st.CreatedAt == 0 {
		st.CreatedAt = time.Now().Unix()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO settlements (id, group_id, payer_id, receiver_id, amount, date, memo, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		st.ID, nullString(st.GroupID), st.PayerID, st.ReceiverID, amountArg(st.Amount),
		utcDate(st.Date), st.Memo, st.CreatedAt)
	if err != nil {
		return mapError(err, "insert settlement")
	}
	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *Store) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	st, err := scanSettlement(s.pool.QueryRow(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE id = $1`, settlementID))
	if err != nil {
		return nil, notFound(err, "settlement", settlementID)
	}
	return st, nil
}

// ListSettlements returns settlements in scope, oldest first.
func (s *Store) ListSettlements(ctx context.Context, scope storage.Scope) ([]*models.Settlement, error) {
	return listSettlements(ctx, s.pool, scope)
}

func listSettlements(ctx context.Context, db PGXDB, scope storage.Scope) ([]*models.Settlement, error) {
	where, args := scopeFilter("group_id", scope, 1)
	rows, err := db.Query(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE `+where+` ORDER BY date, created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	settlements, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Settlement, error) {
		return scanSettlement(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan settlements: %w", err)
	}
	return settlements, nil
}

// DeleteSettlement removes a settlement.
func (s *Store) DeleteSettlement(ctx context.Context, settlementID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM settlements WHERE id = $1`, settlementID)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: settlement %s", storage.ErrNotFound, settlementID)
	}
	return nil
}

func scanSettlement(row pgx.Row) (*models.Settlement, error) {
	st := &models.Settlement{}
	var amount string
	var groupID *string
	if err := row.Scan(&st.ID, &groupID, &st.PayerID, &st.ReceiverID, &amount, &st.Date, &st.Memo, &st.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if st.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	st.Date = utcDate(st.Date)
	st.GroupID = deref(groupID)
	return st, nil
}
