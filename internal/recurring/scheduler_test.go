package recurring

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerly/internal/ledger"
	"github.com/mmynk/ledgerly/internal/models"
	"github.com/mmynk/ledgerly/internal/storage"
	"github.com/mmynk/ledgerly/internal/storage/sqlite"
)

type fixture struct {
	store     *sqlite.SQLiteStore
	ledger    *ledger.Ledger
	scheduler *Scheduler
	alice     string
	bob       string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, func(s *sqlite.SQLiteStore) storage.Store { return s })
}

// newFixtureWith runs the ledger and scheduler on wrap(store). The fixture's
// store field stays the unwrapped store.
func newFixtureWith(t *testing.T, wrap func(*sqlite.SQLiteStore) storage.Store) *fixture {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "recurring.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	wrapped := wrap(store)
	l := ledger.New(wrapped)
	f := &fixture{
		store:     store,
		ledger:    l,
		scheduler: NewScheduler(wrapped, l, WithClock(func() time.Time { return date("2024-04-15") })),
	}

	ctx := context.Background()
	alice, err := l.CreateUser(ctx, "Alice", "")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	bob, err := l.CreateUser(ctx, "Bob", "")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	f.alice, f.bob = alice.ID, bob.ID
	return f
}

func (f *fixture) create(t *testing.T, in DefinitionInput) *models.RecurringPayment {
	t.Helper()
	if in.PayerID == "" {
		in.PayerID = f.alice
	}
	rp, err := f.scheduler.CreateRecurringPayment(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateRecurringPayment failed: %v", err)
	}
	return rp
}

func (f *fixture) reload(t *testing.T, id string) *models.RecurringPayment {
	t.Helper()
	rp, err := f.store.GetRecurringPayment(context.Background(), id)
	if err != nil {
		t.Fatalf("GetRecurringPayment failed: %v", err)
	}
	return rp
}

func (f *fixture) expensesOf(t *testing.T, id string) []*models.Expense {
	t.Helper()
	all, err := f.store.ListExpenses(context.Background(), storage.AllScopes())
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	var out []*models.Expense
	for _, e := range all {
		if e.RecurringPaymentID == id {
			out = append(out, e)
		}
	}
	return out
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

func TestCatchUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rp := f.create(t, DefinitionInput{
		Amount:       d("60"),
		Participants: []string{f.alice, f.bob},
		Memo:         "Internet",
		Frequency:    models.FrequencyMonth,
		StartDate:    date("2024-01-20"),
	})

	created, err := f.scheduler.ProcessDuePayments(ctx, date("2024-04-15"), nil)
	if err != nil {
		t.Fatalf("ProcessDuePayments failed: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("Created %d expenses, want 3", len(created))
	}
	for i, want := range []string{"2024-01-20", "2024-02-20", "2024-03-20"} {
		e := created[i]
		if !e.Date.Equal(date(want)) || !e.Amount.Equal(d("60")) || e.Memo != "Internet" || e.RecurringPaymentID != rp.ID {
			t.Errorf("expense %d = %+v, want $60 on %s", i, e, want)
		}
		if len(e.Shares) != 2 || !e.Shares[0].OwedAmount.Equal(d("30")) {
			t.Errorf("expense %d shares = %+v", i, e.Shares)
		}
	}

	got := f.reload(t, rp.ID)
	if !got.Active || got.NextDue == nil || !got.NextDue.Equal(date("2024-04-20")) {
		t.Errorf("next_due = %v active=%v, want 2024-04-20 active", got.NextDue, got.Active)
	}

	balances, err := f.ledger.GetBalances(ctx, nil)
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	for _, b := range balances {
		want := d("90")
		if b.UserID == f.bob {
			want = d("-90")
		}
		if !b.Amount.Equal(want) {
			t.Errorf("balance of %s = %s, want %s", b.UserID, b.Amount, want)
		}
	}
}

func TestProcessDuePaymentsIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rp := f.create(t, DefinitionInput{
		Amount:    d("15"),
		Frequency: models.FrequencyWeek,
		StartDate: date("2024-03-01"),
	})

	first, err := f.scheduler.ProcessDuePayments(ctx, date("2024-03-20"), nil)
	if err != nil {
		t.Fatalf("ProcessDuePayments failed: %v", err)
	}
	second, err := f.scheduler.ProcessDuePayments(ctx, date("2024-03-20"), nil)
	if err != nil {
		t.Fatalf("ProcessDuePayments failed: %v", err)
	}
	if len(first) != 3 || len(second) != 0 {
		t.Errorf("Created %d then %d, want 3 then 0", len(first), len(second))
	}
	if n := len(f.expensesOf(t, rp.ID)); n != 3 {
		t.Errorf("Stored %d occurrences, want 3", n)
	}
}

func TestExistingOccurrenceIsSkipped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rp := f.create(t, DefinitionInput{
		Amount:    d("10"),
		Frequency: models.FrequencyDay,
		StartDate: date("2024-03-01"),
	})

	// Simulate an earlier pass that stored the first occurrence but crashed
	// before moving next_due.
	if _, err := f.ledger.RecordExpense(ctx, ledger.ExpenseInput{
		Amount: d("10"), PayerID: f.alice, Participants: []string{f.alice}, Date: date("2024-03-01"),
	}, rp.ID); err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}

	created, err := f.scheduler.ProcessDuePayments(ctx, date("2024-03-02"), nil)
	if err != nil {
		t.Fatalf("ProcessDuePayments failed: %v", err)
	}
	if len(created) != 1 || !created[0].Date.Equal(date("2024-03-02")) {
		t.Errorf("Expected only the 2024-03-02 occurrence, got %d", len(created))
	}
	if n := len(f.expensesOf(t, rp.ID)); n != 2 {
		t.Errorf("Stored %d occurrences, want 2", n)
	}
}

func TestTermination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rp := f.create(t, DefinitionInput{
		Amount:    d("25"),
		Frequency: models.FrequencyMonth,
		StartDate: date("2024-01-10"),
		EndDate:   ptr(date("2024-02-28")),
	})

	created, err := f.scheduler.ProcessDuePayments(ctx, date("2024-06-01"), nil)
	if err != nil {
		t.Fatalf("ProcessDuePayments failed: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("Created %d expenses, want 2", len(created))
	}

	got := f.reload(t, rp.ID)
	if got.Active || got.NextDue != nil {
		t.Errorf("Expected inactive with no next due, got active=%v next=%v", got.Active, got.NextDue)
	}

	again, err := f.scheduler.ProcessDuePayments(ctx, date("2025-01-01"), nil)
	if err != nil {
		t.Fatalf("ProcessDuePayments failed: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("Inactive definition produced %d expenses", len(again))
	}
}

func TestEndDateOnOccurrenceIsInclusive(t *testing.T) {
	f := newFixture(t)
	rp := f.create(t, DefinitionInput{
		Amount:    d("5"),
		Frequency: models.FrequencyDay,
		Interval:  2,
		StartDate: date("2024-03-01"),
		EndDate:   ptr(date("2024-03-05")),
	})

	created, err := f.scheduler.ProcessDuePayments(context.Background(), date("2024-03-05"), nil)
	if err != nil {
		t.Fatalf("ProcessDuePayments failed: %v", err)
	}
	if len(created) != 3 {
		t.Errorf("Created %d expenses, want 3 (1st, 3rd, 5th)", len(created))
	}
	if got := f.reload(t, rp.ID); got.Active {
		t.Error("Expected definition to end after its last occurrence")
	}
}

func TestNotYetDue(t *testing.T) {
	f := newFixture(t)
	rp := f.create(t, DefinitionInput{
		Amount:    d("5"),
		Frequency: models.FrequencyMonth,
		StartDate: date("2024-05-01"),
	})

	created, err := f.scheduler.ProcessDuePayments(context.Background(), date("2024-04-30"), nil)
	if err != nil {
		t.Fatalf("ProcessDuePayments failed: %v", err)
	}
	if len(created) != 0 {
		t.Errorf("Created %d expenses before start date", len(created))
	}
	if got := f.reload(t, rp.ID); !got.NextDue.Equal(date("2024-05-01")) {
		t.Errorf("next_due moved to %s", got.NextDue)
	}
}

func TestScopeSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group, err := f.ledger.CreateGroup(ctx, "Flat", []string{f.alice, f.bob})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	grouped := f.create(t, DefinitionInput{
		Amount: d("100"), Participants: []string{f.alice, f.bob}, GroupID: group.ID,
		Frequency: models.FrequencyMonth, StartDate: date("2024-04-01"),
	})
	personal := f.create(t, DefinitionInput{
		Amount: d("9.99"), Frequency: models.FrequencyMonth, StartDate: date("2024-04-01"),
	})

	created, err := f.scheduler.ProcessDuePayments(ctx, date("2024-04-01"), &group.ID)
	if err != nil {
		t.Fatalf("ProcessDuePayments failed: %v", err)
	}
	if len(created) != 1 || created[0].RecurringPaymentID != grouped.ID {
		t.Fatalf("Expected only the group occurrence, got %d", len(created))
	}
	if n := len(f.expensesOf(t, personal.ID)); n != 0 {
		t.Errorf("Personal definition processed by group pass: %d", n)
	}

	balances, err := f.ledger.GetBalances(ctx, &group.ID)
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if len(balances) != 2 {
		t.Errorf("Expected group balances to be recomputed, got %+v", balances)
	}

	created, err = f.scheduler.ProcessDuePayments(ctx, date("2024-04-01"), ptr(""))
	if err != nil {
		t.Fatalf("ProcessDuePayments failed: %v", err)
	}
	if len(created) != 1 || created[0].RecurringPaymentID != personal.ID {
		t.Errorf("Expected only the personal occurrence, got %d", len(created))
	}
}

func TestAnomalySkipsDefinitionButNotBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group, err := f.ledger.CreateGroup(ctx, "Club", []string{f.alice, f.bob})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	orphaned := f.create(t, DefinitionInput{
		Amount: d("20"), Participants: []string{f.alice, f.bob}, GroupID: group.ID,
		Frequency: models.FrequencyMonth, StartDate: date("2024-04-01"),
	})
	healthy := f.create(t, DefinitionInput{
		Amount: d("20"), Frequency: models.FrequencyMonth, StartDate: date("2024-04-01"),
	})

	// Bob has no balance yet, so he may leave; the group definition is now orphaned.
	if _, err := f.ledger.RemoveGroupMember(ctx, group.ID, f.bob); err != nil {
		t.Fatalf("RemoveGroupMember failed: %v", err)
	}

	created, err := f.scheduler.ProcessDuePayments(ctx, date("2024-04-01"), nil)
	if err != nil {
		t.Fatalf("ProcessDuePayments failed: %v", err)
	}
	if len(created) != 1 || created[0].RecurringPaymentID != healthy.ID {
		t.Errorf("Expected only the healthy definition to run, got %d", len(created))
	}

	got := f.reload(t, orphaned.ID)
	if !got.Active || !got.NextDue.Equal(date("2024-04-01")) {
		t.Errorf("Orphaned definition changed: active=%v next=%v", got.Active, got.NextDue)
	}
	if err := f.scheduler.checkLinkage(ctx, got); !errors.Is(err, ErrSchedulingAnomaly) {
		t.Errorf("Expected scheduling anomaly, got %v", err)
	}
}

func TestDefinitionLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		_, err := f.scheduler.CreateRecurringPayment(ctx, DefinitionInput{
			Amount: d("10"), PayerID: f.alice, Frequency: "hourly",
		})
		if !ledger.IsValidation(err) {
			t.Errorf("Expected validation error for frequency, got %v", err)
		}
		_, err = f.scheduler.CreateRecurringPayment(ctx, DefinitionInput{
			Amount: d("0"), PayerID: f.alice, Frequency: models.FrequencyDay,
		})
		if !ledger.IsValidation(err) {
			t.Errorf("Expected validation error for amount, got %v", err)
		}
		_, err = f.scheduler.CreateRecurringPayment(ctx, DefinitionInput{
			Amount: d("10"), PayerID: f.alice, Frequency: models.FrequencyDay,
			StartDate: date("2024-03-10"), EndDate: ptr(date("2024-03-01")),
		})
		if !ledger.IsValidation(err) {
			t.Errorf("Expected validation error for end date, got %v", err)
		}
	})

	rp := f.create(t, DefinitionInput{Amount: d("10"), Frequency: models.FrequencyWeek})
	if !rp.StartDate.Equal(date("2024-04-15")) || rp.Interval != 1 {
		t.Errorf("Expected defaults start=today interval=1, got %s %d", rp.StartDate, rp.Interval)
	}

	t.Run("update amount and participants", func(t *testing.T) {
		got, err := f.scheduler.UpdateRecurringPayment(ctx, rp.ID, DefinitionPatch{
			Amount:       ptr(d("12.50")),
			Participants: []string{f.alice, f.bob},
		})
		if err != nil {
			t.Fatalf("UpdateRecurringPayment failed: %v", err)
		}
		stored := f.reload(t, rp.ID)
		if !stored.Amount.Equal(d("12.5")) || len(stored.Participants) != 2 || !got.Active {
			t.Errorf("Unexpected definition after update: %+v", stored)
		}
	})

	t.Run("deactivate is terminal", func(t *testing.T) {
		got, err := f.scheduler.DeactivateRecurringPayment(ctx, rp.ID)
		if err != nil {
			t.Fatalf("DeactivateRecurringPayment failed: %v", err)
		}
		if got.Active || got.NextDue != nil {
			t.Errorf("Expected inactive, got %+v", got)
		}
		if _, err := f.scheduler.UpdateRecurringPayment(ctx, rp.ID, DefinitionPatch{Memo: ptr("x")}); !ledger.IsValidation(err) {
			t.Errorf("Expected ended definition to reject updates, got %v", err)
		}
		if _, err := f.scheduler.DeactivateRecurringPayment(ctx, rp.ID); err != nil {
			t.Errorf("Second deactivate failed: %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := f.scheduler.DeleteRecurringPayment(ctx, rp.ID); err != nil {
			t.Fatalf("DeleteRecurringPayment failed: %v", err)
		}
		if _, err := f.scheduler.GetRecurringPayment(ctx, rp.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestEndDateUpdateEndsDefinition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rp := f.create(t, DefinitionInput{Amount: d("3"), Frequency: models.FrequencyDay, StartDate: date("2024-03-01")})

	if _, err := f.scheduler.ProcessDuePayments(ctx, date("2024-03-03"), nil); err != nil {
		t.Fatalf("ProcessDuePayments failed: %v", err)
	}
	got, err := f.scheduler.UpdateRecurringPayment(ctx, rp.ID, DefinitionPatch{EndDate: ptr(date("2024-03-03"))})
	if err != nil {
		t.Fatalf("UpdateRecurringPayment failed: %v", err)
	}
	if got.Active || got.NextDue != nil {
		t.Errorf("Expected end date before next due to end the definition, got active=%v next=%v", got.Active, got.NextDue)
	}
}

// faultyStore injects storage failures under the scheduler.
type faultyStore struct {
	storage.Store
	failDates   map[string]error // CreateExpense fails for expenses on these dates
	staleExists map[string]bool  // the first OccurrenceExists for these dates reports false
	brokenID    string           // this due definition comes back with interval 0
}

func (s *faultyStore) CreateExpense(ctx context.Context, e *models.Expense) error {
	if err := s.failDates[e.Date.Format(models.DateLayout)]; err != nil {
		return err
	}
	return s.Store.CreateExpense(ctx, e)
}

func (s *faultyStore) OccurrenceExists(ctx context.Context, recurringID string, day time.Time) (bool, error) {
	key := day.Format(models.DateLayout)
	if s.staleExists[key] {
		delete(s.staleExists, key)
		return false, nil
	}
	return s.Store.OccurrenceExists(ctx, recurringID, day)
}

func (s *faultyStore) ListDueRecurringPayments(ctx context.Context, asOf time.Time, scope storage.Scope) ([]*models.RecurringPayment, error) {
	rps, err := s.Store.ListDueRecurringPayments(ctx, asOf, scope)
	for _, rp := range rps {
		if rp.ID == s.brokenID {
			rp.Interval = 0
		}
	}
	return rps, err
}

func TestFailedOccurrenceIsRetriedNextPass(t *testing.T) {
	var fs *faultyStore
	f := newFixtureWith(t, func(s *sqlite.SQLiteStore) storage.Store {
		fs = &faultyStore{Store: s}
		return fs
	})
	ctx := context.Background()
	rp := f.create(t, DefinitionInput{
		Amount: d("30"), Participants: []string{f.alice, f.bob},
		Frequency: models.FrequencyMonth, StartDate: date("2024-01-10"),
	})
	other := f.create(t, DefinitionInput{
		Amount: d("12"), Frequency: models.FrequencyMonth, StartDate: date("2024-01-05"),
	})

	// A constraint failure that is not a duplicate occurrence.
	fs.failDates = map[string]error{
		"2024-02-10": fmt.Errorf("%w: FOREIGN KEY constraint failed", storage.ErrConflict),
	}

	created, err := f.scheduler.ProcessDuePayments(ctx, date("2024-03-15"), nil)
	if err != nil {
		t.Fatalf("ProcessDuePayments failed: %v", err)
	}
	if len(created) != 4 {
		t.Errorf("Created %d expenses, want 4", len(created))
	}

	kept := f.expensesOf(t, rp.ID)
	if len(kept) != 1 || !kept[0].Date.Equal(date("2024-01-10")) {
		t.Fatalf("Expected only the 2024-01-10 occurrence to be kept, got %d", len(kept))
	}
	got := f.reload(t, rp.ID)
	if !got.Active || got.NextDue == nil || !got.NextDue.Equal(date("2024-02-10")) {
		t.Errorf("Expected next due on the failed occurrence, got active=%v next=%v", got.Active, got.NextDue)
	}
	if n := len(f.expensesOf(t, other.ID)); n != 3 {
		t.Errorf("Other definition stored %d occurrences, want 3", n)
	}

	fs.failDates = nil
	created, err = f.scheduler.ProcessDuePayments(ctx, date("2024-03-15"), nil)
	if err != nil {
		t.Fatalf("ProcessDuePayments failed: %v", err)
	}
	if len(created) != 2 {
		t.Errorf("Retry created %d expenses, want 2", len(created))
	}
	got = f.reload(t, rp.ID)
	if got.NextDue == nil || !got.NextDue.Equal(date("2024-04-10")) {
		t.Errorf("next due = %v, want 2024-04-10", got.NextDue)
	}
}

func TestNonAdvancingScheduleStopsWalk(t *testing.T) {
	var fs *faultyStore
	f := newFixtureWith(t, func(s *sqlite.SQLiteStore) storage.Store {
		fs = &faultyStore{Store: s}
		return fs
	})
	ctx := context.Background()
	broken := f.create(t, DefinitionInput{
		Amount: d("10"), Frequency: models.FrequencyDay, StartDate: date("2024-03-01"),
	})
	healthy := f.create(t, DefinitionInput{
		Amount: d("5"), Frequency: models.FrequencyDay, StartDate: date("2024-03-01"),
	})
	fs.brokenID = broken.ID

	for pass := 0; pass < 2; pass++ {
		if _, err := f.scheduler.ProcessDuePayments(ctx, date("2024-03-03"), nil); err != nil {
			t.Fatalf("ProcessDuePayments failed: %v", err)
		}
	}

	if n := len(f.expensesOf(t, broken.ID)); n != 1 {
		t.Errorf("Broken definition stored %d occurrences, want 1", n)
	}
	got := f.reload(t, broken.ID)
	if !got.Active || got.NextDue == nil || !got.NextDue.Equal(date("2024-03-01")) {
		t.Errorf("Broken definition moved: active=%v next=%v", got.Active, got.NextDue)
	}
	if n := len(f.expensesOf(t, healthy.ID)); n != 3 {
		t.Errorf("Healthy definition stored %d occurrences, want 3", n)
	}
}

func TestConcurrentDuplicateCountsAsProcessed(t *testing.T) {
	var fs *faultyStore
	f := newFixtureWith(t, func(s *sqlite.SQLiteStore) storage.Store {
		fs = &faultyStore{Store: s}
		return fs
	})
	ctx := context.Background()
	rp := f.create(t, DefinitionInput{
		Amount: d("10"), Frequency: models.FrequencyDay, StartDate: date("2024-03-01"),
	})

	// Another pass stored 2024-03-01 after this pass checked for it.
	if _, err := f.ledger.RecordExpense(ctx, ledger.ExpenseInput{
		Amount: d("10"), PayerID: f.alice, Participants: []string{f.alice}, Date: date("2024-03-01"),
	}, rp.ID); err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}
	fs.staleExists = map[string]bool{"2024-03-01": true}

	created, err := f.scheduler.ProcessDuePayments(ctx, date("2024-03-02"), nil)
	if err != nil {
		t.Fatalf("ProcessDuePayments failed: %v", err)
	}
	if len(created) != 1 || !created[0].Date.Equal(date("2024-03-02")) {
		t.Errorf("Expected only the 2024-03-02 occurrence, got %d", len(created))
	}
	if n := len(f.expensesOf(t, rp.ID)); n != 2 {
		t.Errorf("Stored %d occurrences, want 2", n)
	}
	got := f.reload(t, rp.ID)
	if got.NextDue == nil || !got.NextDue.Equal(date("2024-03-03")) {
		t.Errorf("next due = %v, want 2024-03-03", got.NextDue)
	}
}
