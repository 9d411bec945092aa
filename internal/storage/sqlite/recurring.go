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

const recurringColumns = `id, amount, category_id, payer_id, group_id, memo, frequency, interval_count,
	start_date, next_due, end_date, active, created_at, updated_at`

// CreateRecurringPayment persists a definition and its participant list.
func (s *SQLiteStore) CreateRecurringPayment(ctx context.Context, rp *models.RecurringPayment) error {
	if rp.ID == "" {
		rp.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if rp.CreatedAt == 0 {
		rp.CreatedAt = now
	}
	rp.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO recurring_payments (`+recurringColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rp.ID, rp.Amount, nullString(rp.CategoryID), rp.PayerID, nullString(rp.GroupID), rp.Memo,
		string(rp.Frequency), rp.Interval, formatDate(rp.StartDate), nullDate(rp.NextDue),
		nullDate(rp.EndDate), rp.Active, rp.CreatedAt, rp.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "insert recurring payment")
	}

	if err := insertParticipants(ctx, tx, rp); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetRecurringPayment retrieves a definition with its participants.
func (s *SQLiteStore) GetRecurringPayment(ctx context.Context, recurringID string) (*models.RecurringPayment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recurringColumns+` FROM recurring_payments WHERE id = ?`, recurringID)
	rp, err := scanRecurring(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: recurring payment %s", storage.ErrNotFound, recurringID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.attachParticipants(ctx, []*models.RecurringPayment{rp}); err != nil {
		return nil, err
	}
	return rp, nil
}

// ListRecurringPayments returns every definition in scope.
func (s *SQLiteStore) ListRecurringPayments(ctx context.Context, scope storage.Scope) ([]*models.RecurringPayment, error) {
	where, args := scopeFilter("group_id", scope)
	return s.queryRecurring(ctx,
		`SELECT `+recurringColumns+` FROM recurring_payments WHERE `+where+` ORDER BY created_at, id`,
		args...)
}

// ListDueRecurringPayments returns active definitions in scope due on or before asOf.
func (s *SQLiteStore) ListDueRecurringPayments(ctx context.Context, asOf time.Time, scope storage.Scope) ([]*models.RecurringPayment, error) {
	where, args := scopeFilter("group_id", scope)
	args = append([]any{formatDate(asOf)}, args...)
	return s.queryRecurring(ctx,
		`SELECT `+recurringColumns+` FROM recurring_payments
		 WHERE active = 1 AND next_due IS NOT NULL AND next_due <= ? AND `+where+`
		 ORDER BY next_due, id`,
		args...)
}

// UpdateRecurringPayment replaces a definition and its participant list.
func (s *SQLiteStore) UpdateRecurringPayment(ctx context.Context, rp *models.RecurringPayment) error {
	rp.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE recurring_payments
		 SET amount = ?, category_id = ?, payer_id = ?, group_id = ?, memo = ?, frequency = ?,
		     interval_count = ?, start_date = ?, next_due = ?, end_date = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		rp.Amount, nullString(rp.CategoryID), rp.PayerID, nullString(rp.GroupID), rp.Memo,
		string(rp.Frequency), rp.Interval, formatDate(rp.StartDate), nullDate(rp.NextDue),
		nullDate(rp.EndDate), rp.Active, rp.UpdatedAt, rp.ID,
	)
	if err != nil {
		return mapError(err, "update recurring payment")
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to update recurring payment: %w", err)
	} else if n == 0 {
		return fmt.Errorf("%w: recurring payment %s", storage.ErrNotFound, rp.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recurring_participants WHERE recurring_id = ?`, rp.ID); err != nil {
		return fmt.Errorf("failed to delete old participants: %w", err)
	}
	if err := insertParticipants(ctx, tx, rp); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateRecurringSchedule writes only next_due and active.
func (s *SQLiteStore) UpdateRecurringSchedule(ctx context.Context, recurringID string, nextDue *time.Time, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE recurring_payments SET next_due = ?, active = ?, updated_at = ? WHERE id = ?`,
		nullDate(nextDue), active, time.Now().Unix(), recurringID,
	)
	if err != nil {
		return fmt.Errorf("failed to update recurring schedule: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update recurring schedule: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: recurring payment %s", storage.ErrNotFound, recurringID)
	}
	return nil
}

// DeleteRecurringPayment removes a definition. Expenses it already produced
// stay in the ledger with their link cleared.
func (s *SQLiteStore) DeleteRecurringPayment(ctx context.Context, recurringID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recurring_payments WHERE id = ?`, recurringID)
	if err != nil {
		return fmt.Errorf("failed to delete recurring payment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete recurring payment: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: recurring payment %s", storage.ErrNotFound, recurringID)
	}
	return nil
}

func (s *SQLiteStore) queryRecurring(ctx context.Context, query string, args ...any) ([]*models.RecurringPayment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring payments: %w", err)
	}
	var out []*models.RecurringPayment
	for rows.Next() {
		rp, err := scanRecurring(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, rp)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating recurring payments: %w", err)
	}
	rows.Close()

	if err := s.attachParticipants(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) attachParticipants(ctx context.Context, rps []*models.RecurringPayment) error {
	if len(rps) == 0 {
		return nil
	}
	byID := make(map[string]*models.RecurringPayment, len(rps))
	args := make([]any, len(rps))
	for i, rp := range rps {
		byID[rp.ID] = rp
		args[i] = rp.ID
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT recurring_id, user_id FROM recurring_participants
		 WHERE recurring_id IN (`+placeholders(len(rps))+`) ORDER BY recurring_id, position`,
		args...)
	if err != nil {
		return fmt.Errorf("failed to get recurring participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recurringID, userID string
		if err := rows.Scan(&recurringID, &userID); err != nil {
			return fmt.Errorf("failed to scan recurring participant: %w", err)
		}
		if rp := byID[recurringID]; rp != nil {
			rp.Participants = append(rp.Participants, userID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating recurring participants: %w", err)
	}
	return nil
}

func insertParticipants(ctx context.Context, tx *sql.Tx, rp *models.RecurringPayment) error {
	for i, userID := range rp.Participants {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recurring_participants (recurring_id, user_id, position) VALUES (?, ?, ?)`,
			rp.ID, userID, i,
		); err != nil {
			return mapError(err, "insert recurring participant")
		}
	}
	return nil
}

func scanRecurring(row rowScanner) (*models.RecurringPayment, error) {
	rp := &models.RecurringPayment{}
	var categoryID, groupID, nextDue, endDate sql.NullString
	var frequency, startDate string
	err := row.Scan(&rp.ID, &rp.Amount, &categoryID, &rp.PayerID, &groupID, &rp.Memo, &frequency,
		&rp.Interval, &startDate, &nextDue, &endDate, &rp.Active, &rp.CreatedAt, &rp.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan recurring payment: %w", err)
	}

	rp.CategoryID = categoryID.String
	rp.GroupID = groupID.String
	rp.Frequency = models.Frequency(frequency)
	if rp.StartDate, err = parseDate(startDate); err != nil {
		return nil, err
	}
	if rp.NextDue, err = parseNullDate(nextDue); err != nil {
		return nil, err
	}
	if rp.EndDate, err = parseNullDate(endDate); err != nil {
		return nil, err
	}
	return rp, nil
}
