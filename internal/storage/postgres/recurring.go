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

const recurringColumns = `id, amount::text, category_id, payer_id, group_id, memo, frequency, interval_count,
	start_date, next_due, end_date, active, created_at, updated_at`

// CreateRecurringPayment inserts a definition with its participants.
func (s *Store) CreateRecurringPayment(ctx context.Context, rp *models.RecurringPayment) error {
	if rp.ID == "" {
		rp.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if rp.CreatedAt == 0 {
		rp.CreatedAt = now
	}
	rp.UpdatedAt = now

	return s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO recurring_payments (id, amount, category_id, payer_id, group_id, memo, frequency,
			     interval_count, start_date, next_due, end_date, active, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			rp.ID, amountArg(rp.Amount), nullString(rp.CategoryID), rp.PayerID, nullString(rp.GroupID),
			rp.Memo, string(rp.Frequency), rp.Interval, utcDate(rp.StartDate), nullDate(rp.NextDue),
			nullDate(rp.EndDate), rp.Active, rp.CreatedAt, rp.UpdatedAt)
		if err != nil {
			return mapError(err, "insert recurring payment")
		}
		return insertParticipants(ctx, tx, rp)
	})
}

// GetRecurringPayment retrieves a definition by ID.
func (s *Store) GetRecurringPayment(ctx context.Context, recurringID string) (*models.RecurringPayment, error) {
	rp, err := scanRecurring(s.pool.QueryRow(ctx,
		`SELECT `+recurringColumns+` FROM recurring_payments WHERE id = $1`, recurringID))
	if err != nil {
		return nil, notFound(err, "recurring payment", recurringID)
	}
	if err := s.attachParticipants(ctx, []*models.RecurringPayment{rp}); err != nil {
		return nil, err
	}
	return rp, nil
}

// ListRecurringPayments returns every definition in scope.
func (s *Store) ListRecurringPayments(ctx context.Context, scope storage.Scope) ([]*models.RecurringPayment, error) {
	where, args := scopeFilter("group_id", scope, 1)
	return s.queryRecurring(ctx,
		`SELECT `+recurringColumns+` FROM recurring_payments WHERE `+where+` ORDER BY created_at, id`, args...)
}

// ListDueRecurringPayments returns active definitions in scope due on or before asOf.
func (s *Store) ListDueRecurringPayments(ctx context.Context, asOf time.Time, scope storage.Scope) ([]*models.RecurringPayment, error) {
	where, args := scopeFilter("group_id", scope, 2)
	args = append([]any{utcDate(asOf)}, args...)
	return s.queryRecurring(ctx,
		`SELECT `+recurringColumns+` FROM recurring_payments
		 WHERE active AND next_due IS NOT NULL AND next_due <= $1 AND `+where+`
		 ORDER BY next_due, id`, args...)
}

// UpdateRecurringPayment replaces a definition and its participants.
func (s *Store) UpdateRecurringPayment(ctx context.Context, rp *models.RecurringPayment) error {
	rp.UpdatedAt = time.Now().Unix()
	return s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE recurring_payments
			 SET amount = $1, category_id = $2, payer_id = $3, group_id = $4, memo = $5, frequency = $6,
			     interval_count = $7, start_date = $8, next_due = $9, end_date = $10, active = $11, updated_at = $12
			 WHERE id = $13`,
			amountArg(rp.Amount), nullString(rp.CategoryID), rp.PayerID, nullString(rp.GroupID), rp.Memo,
			string(rp.Frequency), rp.Interval, utcDate(rp.StartDate), nullDate(rp.NextDue),
			nullDate(rp.EndDate), rp.Active, rp.UpdatedAt, rp.ID)
		if err != nil {
			return mapError(err, "update recurring payment")
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: recurring payment %s", storage.ErrNotFound, rp.ID)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM recurring_participants WHERE recurring_id = $1`, rp.ID); err != nil {
			return fmt.Errorf("failed to delete old participants: %w", err)
		}
		return insertParticipants(ctx, tx, rp)
	})
}

// UpdateRecurringSchedule writes only next_due and active.
func (s *Store) UpdateRecurringSchedule(ctx context.Context, recurringID string, nextDue *time.Time, active bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE recurring_payments SET next_due = $1, active = $2, updated_at = $3 WHERE id = $4`,
		nullDate(nextDue), active, time.Now().Unix(), recurringID)
	if err != nil {
		return fmt.Errorf("failed to update recurring schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: recurring payment %s", storage.ErrNotFound, recurringID)
	}
	return nil
}

// DeleteRecurringPayment removes a definition; its expenses keep existing unlinked.
func (s *Store) DeleteRecurringPayment(ctx context.Context, recurringID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM recurring_payments WHERE id = $1`, recurringID)
	if err != nil {
		return fmt.Errorf("failed to delete recurring payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: recurring payment %s", storage.ErrNotFound, recurringID)
	}
	return nil
}

func (s *Store) queryRecurring(ctx context.Context, query string, args ...any) ([]*models.RecurringPayment, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring payments: %w", err)
	}
	rps, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.RecurringPayment, error) {
		return scanRecurring(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan recurring payments: %w", err)
	}
	if err := s.attachParticipants(ctx, rps); err != nil {
		return nil, err
	}
	return rps, nil
}

func (s *Store) attachParticipants(ctx context.Context, rps []*models.RecurringPayment) error {
	if len(rps) == 0 {
		return nil
	}
	byID := make(map[string]*models.RecurringPayment, len(rps))
	ids := make([]string, len(rps))
	for i, rp := range rps {
		byID[rp.ID] = rp
		ids[i] = rp.ID
	}

	rows, err := s.pool.Query(ctx,
		`SELECT recurring_id, user_id FROM recurring_participants
		 WHERE recurring_id = ANY($1) ORDER BY recurring_id, position`, ids)
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
	return rows.Err()
}

func insertParticipants(ctx context.Context, db PGXDB, rp *models.RecurringPayment) error {
	for i, userID := range rp.Participants {
		if _, err := db.Exec(ctx,
			`INSERT INTO recurring_participants (recurring_id, user_id, position) VALUES ($1, $2, $3)`,
			rp.ID, userID, i); err != nil {
			return mapError(err, "insert recurring participant")
		}
	}
	return nil
}

func scanRecurring(row pgx.Row) (*models.RecurringPayment, error) {
	rp := &models.RecurringPayment{}
	var amount, frequency string
	var categoryID, groupID *string
	if err := row.Scan(&rp.ID, &amount, &categoryID, &rp.PayerID, &groupID, &rp.Memo, &frequency,
		&rp.Interval, &rp.StartDate, &rp.NextDue, &rp.EndDate, &rp.Active, &rp.CreatedAt, &rp.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if rp.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	rp.CategoryID = deref(categoryID)
	rp.GroupID = deref(groupID)
	rp.Frequency = models.Frequency(frequency)
	rp.StartDate = utcDate(rp.StartDate)
	rp.NextDue = nullDate(rp.NextDue)
	rp.EndDate = nullDate(rp.EndDate)
	return rp, nil
}
