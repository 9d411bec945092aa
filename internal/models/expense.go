package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an amount paid by one user and owed by a set of participants.
// Edits go through the ledger so balances are recomputed.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Amount is the full amount paid. Always positive with at most two decimal places.
	Amount decimal.Decimal

	// PayerID is the user who paid.
	PayerID string

	// CategoryID is the optional category of the expense.
	CategoryID string

	// Memo is free text describing the expense.
	Memo string

	// Date is the calendar date the expense happened.
	Date time.Time

	// GroupID is the owning group ("" for personal expenses).
	GroupID string

	// RecurringPaymentID links an expense to the recurring definition that
	// created it ("" for manual expenses).
	RecurringPaymentID string

	// Shares are the per-participant owed amounts; they sum to Amount.
	Shares []ExpenseShare

	CreatedAt int64
	UpdatedAt int64
}

// ExpenseShare is one participant's portion of an expense.
type ExpenseShare struct {
	ExpenseID  string
	UserID     string
	OwedAmount decimal.Decimal
}

// ParticipantIDs returns the user IDs of the expense shares in order.
func (e *Expense) ParticipantIDs() []string {
	ids := make([]string, len(e.Shares))
	for i, s := range e.Shares {
		ids[i] = s.UserID
	}
	return ids
}

// DateOf truncates t to its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}
