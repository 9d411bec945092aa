package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerly/internal/calculator"
	"github.com/mmynk/ledgerly/internal/models"
	"github.com/mmynk/ledgerly/internal/storage"
)

// ExpenseInput describes a new expense. The amount is split equally across
// Participants.
type ExpenseInput struct {
	Amount       decimal.Decimal
	PayerID      string
	Participants []string
	CategoryID   string
	Memo         string
	// Date defaults to today when zero.
	Date    time.Time
	GroupID string
}

// ExpensePatch lists the fields to change on an expense. Nil fields are kept.
type ExpensePatch struct {
	Amount       *decimal.Decimal
	PayerID      *string
	Participants []string
	CategoryID   *string
	Memo         *string
	Date         *time.Time
	GroupID      *string
}

// CreateExpense validates and stores an expense, then recomputes the
// balances of its scope.
func (l *Ledger) CreateExpense(ctx context.Context, in ExpenseInput) (*models.Expense, error) {
	expense, err := l.RecordExpense(ctx, in, "")
	if err != nil {
		return nil, err
	}
	slog.Info("Expense created", "expense_id", expense.ID, "group_id", expense.GroupID, "amount", expense.Amount)
	return expense, l.recompute(ctx, storage.GroupScope(expense.GroupID))
}

// RecordExpense validates and stores an expense without recomputing
// balances. recurringID links the expense to the definition that produced it.
// Callers that batch several writes recompute once afterwards.
func (l *Ledger) RecordExpense(ctx context.Context, in ExpenseInput, recurringID string) (*models.Expense, error) {
	shares, err := l.split(ctx, in)
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = l.today()
	}

	expense := &models.Expense{
		Amount:             in.Amount,
		PayerID:            in.PayerID,
		CategoryID:         in.CategoryID,
		Memo:               in.Memo,
		Date:               models.DateOf(date),
		GroupID:            in.GroupID,
		RecurringPaymentID: recurringID,
		Shares:             toExpenseShares(shares),
	}
	if err := l.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("storing expense: %w", err)
	}
	return expense, nil
}

// ValidateExpense checks an expense input without writing anything.
func (l *Ledger) ValidateExpense(ctx context.Context, in ExpenseInput) error {
	_, err := l.split(ctx, in)
	return err
}

func (l *Ledger) split(ctx context.Context, in ExpenseInput) ([]calculator.Share, error) {
	if err := validateAmount("amount", in.Amount); err != nil {
		return nil, err
	}
	if len(in.Participants) == 0 {
		return nil, invalid("participants", "at least one participant is required")
	}
	if err := l.checkRefs(ctx, in.PayerID, in.Participants, in.CategoryID, in.GroupID); err != nil {
		return nil, err
	}

	shares, err := calculator.EqualSplit(in.Amount, in.Participants, in.PayerID)
	if err != nil {
		return nil, splitError(err)
	}
	return shares, nil
}

// EditExpense applies patch to an expense. The amount is re-split whenever
// the amount, payer or participants change. Balances of both the old and the
// new scope are recomputed.
func (l *Ledger) EditExpense(ctx context.Context, expenseID string, patch ExpensePatch) (*models.Expense, error) {
	expense, err := l.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	oldScope := storage.GroupScope(expense.GroupID)

	resplit := false
	if patch.Amount != nil {
		if err := validateAmount("amount", *patch.Amount); err != nil {
			return nil, err
		}
		expense.Amount = *patch.Amount
		resplit = true
	}
	if patch.PayerID != nil {
		expense.PayerID = *patch.PayerID
		resplit = true
	}
	participants := expense.ParticipantIDs()
	if patch.Participants != nil {
		if len(patch.Participants) == 0 {
			return nil, invalid("participants", "at least one participant is required")
		}
		participants = patch.Participants
		resplit = true
	}
	if patch.CategoryID != nil {
		expense.CategoryID = *patch.CategoryID
	}
	if patch.Memo != nil {
		expense.Memo = *patch.Memo
	}
	if patch.Date != nil {
		if patch.Date.IsZero() {
			return nil, invalid("date", "required")
		}
		expense.Date = models.DateOf(*patch.Date)
	}
	if patch.GroupID != nil {
		expense.GroupID = *patch.GroupID
	}

	if err := l.checkRefs(ctx, expense.PayerID, participants, expense.CategoryID, expense.GroupID); err != nil {
		return nil, err
	}

	if resplit {
		shares, err := calculator.EqualSplit(expense.Amount, participants, expense.PayerID)
		if err != nil {
			return nil, splitError(err)
		}
		expense.Shares = toExpenseShares(shares)
	}

	if err := l.store.UpdateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("updating expense: %w", err)
	}
	slog.Info("Expense updated", "expense_id", expense.ID, "resplit", resplit)

	return expense, l.recompute(ctx, oldScope, storage.GroupScope(expense.GroupID))
}

// DeleteExpense removes an expense and its shares, then recomputes its scope.
func (l *Ledger) DeleteExpense(ctx context.Context, expenseID string) error {
	expense, err := l.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if err := l.store.DeleteExpense(ctx, expenseID); err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}
	slog.Info("Expense deleted", "expense_id", expenseID, "group_id", expense.GroupID)
	return l.recompute(ctx, storage.GroupScope(expense.GroupID))
}

// GetExpense returns one expense with its shares.
func (l *Ledger) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	return l.store.GetExpense(ctx, expenseID)
}

// ListExpenses returns the expenses of a group, or the personal context when
// groupID is nil.
func (l *Ledger) ListExpenses(ctx context.Context, groupID *string) ([]*models.Expense, error) {
	scope, err := l.scopeFor(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return l.store.ListExpenses(ctx, scope)
}

func toExpenseShares(shares []calculator.Share) []models.ExpenseShare {
	out := make([]models.ExpenseShare, len(shares))
	for i, s := range shares {
		out[i] = models.ExpenseShare{UserID: s.UserID, OwedAmount: s.Owed}
	}
	return out
}
