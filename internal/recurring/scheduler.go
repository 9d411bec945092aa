package recurring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mmynk/ledgerly/internal/ledger"
	"github.com/mmynk/ledgerly/internal/metrics"
	"github.com/mmynk/ledgerly/internal/models"
	"github.com/mmynk/ledgerly/internal/storage"
	"github.com/mmynk/ledgerly/internal/telemetry"
)

// Scheduler materializes due recurring payments into expenses and manages
// the recurring definitions themselves.
type Scheduler struct {
	store  storage.Store
	ledger *ledger.Ledger
	now    func() time.Time
	loc    *time.Location
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLocation sets the time zone that decides which calendar day "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) { s.loc = loc }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// NewScheduler creates a scheduler that writes expenses through l.
func NewScheduler(store storage.Store, l *ledger.Ledger, opts ...Option) *Scheduler {
	s := &Scheduler{store: store, ledger: l, now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current calendar date in the scheduler's time zone.
func (s *Scheduler) Today() time.Time {
	return models.DateOf(s.now().In(s.loc))
}

// ProcessDuePayments creates every occurrence due on or before asOf.
//
// groupID selects the definitions to process: nil means every group and the
// personal context, "" means the personal context only. Each definition is
// walked forward from its next due date, so a definition that missed several
// periods catches up in one call. Occurrences that already exist are skipped,
// which makes repeated calls for the same asOf a no-op.
//
// A definition that cannot be processed is logged and skipped; it never stops
// the batch. When an occurrence fails, the occurrences before it stay
// committed and the definition's next due date stays on the failed
// occurrence, so the next pass retries it. Balances of all affected scopes are recomputed once at the end.
// The created expenses are returned even when that recompute fails.
func (s *Scheduler) ProcessDuePayments(ctx context.Context, asOf time.Time, groupID *string) ([]*models.Expense, error) {
	scope := storage.AllScopes()
	if groupID != nil {
		scope = storage.GroupScope(*groupID)
	}
	asOf = models.DateOf(asOf)

	ctx, span := telemetry.Tracer().Start(ctx, "recurring.ProcessDuePayments")
	defer span.End()
	span.SetAttributes(
		attribute.String("recurring.as_of", asOf.Format(models.DateLayout)),
		attribute.String("recurring.scope", scope.String()),
	)

	due, err := s.store.ListDueRecurringPayments(ctx, asOf, scope)
	if err != nil {
		return nil, fmt.Errorf("listing due recurring payments: %w", err)
	}

	var created []*models.Expense
	var affected []storage.Scope
	for _, rp := range due {
		expenses, err := s.processDefinition(ctx, rp, asOf)
		created = append(created, expenses...)
		if len(expenses) > 0 {
			affected = append(affected, storage.GroupScope(rp.GroupID))
		}
		if err != nil {
			if errors.Is(err, ErrSchedulingAnomaly) {
				metrics.Anomalies.Inc()
				slog.Error("Recurring payment skipped",
					"recurring_id", rp.ID,
					"group_id", rp.GroupID,
					"error", err,
				)
			} else {
				slog.Warn("Recurring payment processing stopped early",
					"recurring_id", rp.ID,
					"error", err,
				)
			}
		}
	}

	span.SetAttributes(
		attribute.Int("recurring.due", len(due)),
		attribute.Int("recurring.created", len(created)),
	)
	slog.Info("Processed due recurring payments",
		"as_of", asOf.Format(models.DateLayout),
		"scope", scope.String(),
		"definitions", len(due),
		"created", len(created),
	)

	if len(affected) == 0 {
		return created, nil
	}
	return created, s.ledger.Engine().Recalculate(ctx, affected...)
}

// processDefinition walks one definition from its next due date up to asOf
// and persists the resulting schedule state.
func (s *Scheduler) processDefinition(ctx context.Context, rp *models.RecurringPayment, asOf time.Time) ([]*models.Expense, error) {
	if rp.NextDue == nil {
		return nil, fmt.Errorf("%w: active definition without next due date", ErrSchedulingAnomaly)
	}
	if err := s.checkLinkage(ctx, rp); err != nil {
		return nil, err
	}

	var created []*models.Expense
	cursor := *rp.NextDue
	for !cursor.After(asOf) && !pastEnd(rp, cursor) {
		expense, err := s.materialize(ctx, rp, cursor)
		if err != nil {
			// Leave next_due on the failed occurrence so the next pass retries it.
			metrics.Occurrences.WithLabelValues(metrics.ResultFailed).Inc()
			if serr := s.saveSchedule(ctx, rp, cursor); serr != nil {
				return created, errors.Join(err, serr)
			}
			return created, err
		}
		if expense != nil {
			created = append(created, expense)
		}

		n, err := next(rp, cursor)
		if err != nil {
			if serr := s.saveSchedule(ctx, rp, cursor); serr != nil {
				return created, errors.Join(err, serr)
			}
			return created, err
		}
		cursor = n
	}

	return created, s.saveSchedule(ctx, rp, cursor)
}

// materialize creates the expense for one occurrence. It returns nil when the
// occurrence already exists.
func (s *Scheduler) materialize(ctx context.Context, rp *models.RecurringPayment, date time.Time) (*models.Expense, error) {
	exists, err := s.store.OccurrenceExists(ctx, rp.ID, date)
	if err != nil {
		return nil, err
	}
	if exists {
		metrics.Occurrences.WithLabelValues(metrics.ResultSkipped).Inc()
		slog.Debug("Occurrence already recorded", "recurring_id", rp.ID, "date", date.Format(models.DateLayout))
		return nil, nil
	}

	expense, err := s.ledger.RecordExpense(ctx, ledger.ExpenseInput{
		Amount:       rp.Amount,
		PayerID:      rp.PayerID,
		Participants: rp.SplitParticipants(),
		CategoryID:   rp.CategoryID,
		Memo:         rp.Memo,
		Date:         date,
		GroupID:      rp.GroupID,
	}, rp.ID)
	if errors.Is(err, storage.ErrConflict) {
		// Only a row for this occurrence makes the conflict a duplicate; any
		// other constraint failure is a failed occurrence.
		if exists, xerr := s.store.OccurrenceExists(ctx, rp.ID, date); xerr == nil && exists {
			metrics.Occurrences.WithLabelValues(metrics.ResultSkipped).Inc()
			slog.Debug("Occurrence recorded by a concurrent pass", "recurring_id", rp.ID, "date", date.Format(models.DateLayout))
			return nil, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("occurrence %s: %w", date.Format(models.DateLayout), err)
	}

	metrics.Occurrences.WithLabelValues(metrics.ResultCreated).Inc()
	slog.Info("Recurring occurrence created",
		"recurring_id", rp.ID,
		"expense_id", expense.ID,
		"date", date.Format(models.DateLayout),
	)
	return expense, nil
}

// saveSchedule stores cursor as the next due date, or deactivates the
// definition when cursor lies past its end date.
func (s *Scheduler) saveSchedule(ctx context.Context, rp *models.RecurringPayment, cursor time.Time) error {
	if pastEnd(rp, cursor) {
		if err := s.store.UpdateRecurringSchedule(ctx, rp.ID, nil, false); err != nil {
			return fmt.Errorf("deactivating recurring payment: %w", err)
		}
		rp.NextDue, rp.Active = nil, false
		metrics.Deactivations.Inc()
		slog.Info("Recurring payment ended", "recurring_id", rp.ID, "end_date", rp.EndDate.Format(models.DateLayout))
		return nil
	}

	if rp.NextDue != nil && rp.NextDue.Equal(cursor) {
		return nil
	}
	if err := s.store.UpdateRecurringSchedule(ctx, rp.ID, &cursor, true); err != nil {
		return fmt.Errorf("advancing recurring payment: %w", err)
	}
	rp.NextDue = &cursor
	return nil
}

// checkLinkage verifies the group, payer and participants of a definition.
func (s *Scheduler) checkLinkage(ctx context.Context, rp *models.RecurringPayment) error {
	participants := rp.SplitParticipants()

	users, err := s.store.GetUsersByIDs(ctx, append([]string{rp.PayerID}, participants...))
	if err != nil {
		return err
	}
	for _, id := range append([]string{rp.PayerID}, participants...) {
		if users[id] == nil {
			return fmt.Errorf("%w: unknown user %s", ErrSchedulingAnomaly, id)
		}
	}

	if rp.GroupID == "" {
		return nil
	}
	group, err := s.store.GetGroup(ctx, rp.GroupID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: group %s no longer exists", ErrSchedulingAnomaly, rp.GroupID)
	}
	if err != nil {
		return err
	}
	if !group.HasMember(rp.PayerID) {
		return fmt.Errorf("%w: payer %s left group %s", ErrSchedulingAnomaly, rp.PayerID, rp.GroupID)
	}
	for _, id := range participants {
		if !group.HasMember(id) {
			return fmt.Errorf("%w: participant %s left group %s", ErrSchedulingAnomaly, id, rp.GroupID)
		}
	}
	return nil
}

func pastEnd(rp *models.RecurringPayment, t time.Time) bool {
	return rp.EndDate != nil && t.After(*rp.EndDate)
}
