package recurring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerly/internal/ledger"
	"github.com/mmynk/ledgerly/internal/models"
	"github.com/mmynk/ledgerly/internal/storage"
)

// DefinitionInput describes a new recurring payment.
type DefinitionInput struct {
	Amount       decimal.Decimal
	PayerID      string
	Participants []string
	CategoryID   string
	Memo         string
	GroupID      string
	Frequency    models.Frequency
	// Interval defaults to 1 when zero.
	Interval int
	// StartDate defaults to today when zero.
	StartDate time.Time
	EndDate   *time.Time
}

// DefinitionPatch lists the fields to change on a recurring payment.
// Schedule fields (frequency, interval, start date) are fixed once created.
type DefinitionPatch struct {
	Amount       *decimal.Decimal
	Participants []string
	CategoryID   *string
	Memo         *string
	EndDate      *time.Time
	ClearEndDate bool
}

func invalid(field, format string, args ...any) error {
	return &ledger.ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// CreateRecurringPayment validates and stores a definition. It starts active
// with its first occurrence due on StartDate.
func (s *Scheduler) CreateRecurringPayment(ctx context.Context, in DefinitionInput) (*models.RecurringPayment, error) {
	freq, err := models.ParseFrequency(string(in.Frequency))
	if err != nil {
		return nil, invalid("frequency", "%v", err)
	}
	interval := in.Interval
	if interval == 0 {
		interval = 1
	}
	if interval < 0 {
		return nil, invalid("interval", "must be at least 1")
	}

	start := in.StartDate
	if start.IsZero() {
		start = s.Today()
	}
	start = models.DateOf(start)

	var end *time.Time
	if in.EndDate != nil {
		e := models.DateOf(*in.EndDate)
		if e.Before(start) {
			return nil, invalid("end_date", "must not be before start date")
		}
		end = &e
	}

	rp := &models.RecurringPayment{
		Amount:       in.Amount,
		CategoryID:   in.CategoryID,
		PayerID:      in.PayerID,
		GroupID:      in.GroupID,
		Memo:         in.Memo,
		Participants: in.Participants,
		Frequency:    freq,
		Interval:     interval,
		StartDate:    start,
		NextDue:      &start,
		EndDate:      end,
		Active:       true,
	}
	if err := s.validate(ctx, rp); err != nil {
		return nil, err
	}

	if err := s.store.CreateRecurringPayment(ctx, rp); err != nil {
		return nil, fmt.Errorf("storing recurring payment: %w", err)
	}
	slog.Info("Recurring payment created",
		"recurring_id", rp.ID,
		"frequency", rp.Frequency,
		"interval", rp.Interval,
		"start_date", rp.StartDate.Format(models.DateLayout),
	)
	return rp, nil
}

// GetRecurringPayment returns a definition by ID.
func (s *Scheduler) GetRecurringPayment(ctx context.Context, recurringID string) (*models.RecurringPayment, error) {
	return s.store.GetRecurringPayment(ctx, recurringID)
}

// ListRecurringPayments returns definitions of a group, of the personal
// context when groupID is "", or of everything when groupID is nil.
func (s *Scheduler) ListRecurringPayments(ctx context.Context, groupID *string) ([]*models.RecurringPayment, error) {
	scope := storage.AllScopes()
	if groupID != nil {
		scope = storage.GroupScope(*groupID)
	}
	return s.store.ListRecurringPayments(ctx, scope)
}

// UpdateRecurringPayment changes the amount, participants, category, memo or
// end date of an active definition. Occurrences already created are not
// touched. Moving the end date before the next due date ends the definition.
func (s *Scheduler) UpdateRecurringPayment(ctx context.Context, recurringID string, patch DefinitionPatch) (*models.RecurringPayment, error) {
	rp, err := s.store.GetRecurringPayment(ctx, recurringID)
	if err != nil {
		return nil, err
	}
	if !rp.Active {
		return nil, invalid("recurring_id", "recurring payment %s has ended", recurringID)
	}

	if patch.Amount != nil {
		rp.Amount = *patch.Amount
	}
	if patch.Participants != nil {
		rp.Participants = patch.Participants
	}
	if patch.CategoryID != nil {
		rp.CategoryID = *patch.CategoryID
	}
	if patch.Memo != nil {
		rp.Memo = *patch.Memo
	}
	switch {
	case patch.ClearEndDate:
		rp.EndDate = nil
	case patch.EndDate != nil:
		e := models.DateOf(*patch.EndDate)
		if e.Before(rp.StartDate) {
			return nil, invalid("end_date", "must not be before start date")
		}
		rp.EndDate = &e
	}

	if err := s.validate(ctx, rp); err != nil {
		return nil, err
	}

	ended := rp.NextDue != nil && pastEnd(rp, *rp.NextDue)
	if ended {
		rp.NextDue, rp.Active = nil, false
	}

	if err := s.store.UpdateRecurringPayment(ctx, rp); err != nil {
		return nil, fmt.Errorf("updating recurring payment: %w", err)
	}
	slog.Info("Recurring payment updated", "recurring_id", rp.ID, "ended", ended)
	return rp, nil
}

// DeactivateRecurringPayment ends a definition. Ended definitions never
// produce expenses again; deactivating one twice is a no-op.
func (s *Scheduler) DeactivateRecurringPayment(ctx context.Context, recurringID string) (*models.RecurringPayment, error) {
	rp, err := s.store.GetRecurringPayment(ctx, recurringID)
	if err != nil {
		return nil, err
	}
	if !rp.Active {
		return rp, nil
	}
	if err := s.store.UpdateRecurringSchedule(ctx, recurringID, nil, false); err != nil {
		return nil, err
	}
	rp.NextDue, rp.Active = nil, false
	slog.Info("Recurring payment deactivated", "recurring_id", recurringID)
	return rp, nil
}

// DeleteRecurringPayment removes a definition. Expenses it created stay in
// the ledger, so balances are unaffected.
func (s *Scheduler) DeleteRecurringPayment(ctx context.Context, recurringID string) error {
	if err := s.store.DeleteRecurringPayment(ctx, recurringID); err != nil {
		return err
	}
	slog.Info("Recurring payment deleted", "recurring_id", recurringID)
	return nil
}

// validate checks a definition the same way an expense built from it would be
// checked.
func (s *Scheduler) validate(ctx context.Context, rp *models.RecurringPayment) error {
	return s.ledger.ValidateExpense(ctx, ledger.ExpenseInput{
		Amount:       rp.Amount,
		PayerID:      rp.PayerID,
		Participants: rp.SplitParticipants(),
		CategoryID:   rp.CategoryID,
		GroupID:      rp.GroupID,
	})
}
