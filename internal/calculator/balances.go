package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ExpenseForBalance represents an expense with the minimal information needed for balance calculations.
type ExpenseForBalance struct {
	ID      string
	GroupID string
	PayerID string
	Amount  decimal.Decimal
	Shares  []Share
}

// SettlementForBalance represents a settlement with the minimal information needed for balance calculations.
type SettlementForBalance struct {
	ID         string
	GroupID    string
	PayerID    string // Who paid (debtor settling up)
	ReceiverID string // Who received (creditor being paid)
	Amount     decimal.Decimal
}

// MemberBalance is the net balance of one user inside one group.
type MemberBalance struct {
	UserID  string
	GroupID string
	Amount  decimal.Decimal // Positive = owed money, Negative = owes money
}

type balanceKey struct {
	groupID string
	userID  string
}

// ComputeBalances rebuilds net balances from the full history of expenses and settlements.
//
// Algorithm:
//   - For each expense: payer is credited the full amount, each participant is debited their share
//   - For each settlement: payer is credited (owes less), receiver is debited (is owed less)
//
// Any malformed row (shares that do not add up to the amount, a self
// settlement, a non-positive amount) fails the whole computation. The result
// is sorted by group then user so repeated runs are identical.
func ComputeBalances(expenses []ExpenseForBalance, settlements []SettlementForBalance) ([]MemberBalance, error) {
	balances := make(map[balanceKey]decimal.Decimal)

	for _, e := range expenses {
		if e.PayerID == "" {
			return nil, fmt.Errorf("expense %s: missing payer", e.ID)
		}
		if !e.Amount.IsPositive() {
			return nil, fmt.Errorf("expense %s: %w", e.ID, ErrNonPositiveAmount)
		}
		if len(e.Shares) == 0 {
			return nil, fmt.Errorf("expense %s: %w", e.ID, ErrNoParticipants)
		}

		sum := decimal.Zero
		for _, s := range e.Shares {
			sum = sum.Add(s.Owed)
		}
		if !sum.Equal(e.Amount) {
			return nil, fmt.Errorf("expense %s: shares sum to %s, want %s", e.ID, sum, e.Amount)
		}

		payer := balanceKey{e.GroupID, e.PayerID}
		balances[payer] = balances[payer].Add(e.Amount)
		for _, s := range e.Shares {
			k := balanceKey{e.GroupID, s.UserID}
			balances[k] = balances[k].Sub(s.Owed)
		}
	}

	for _, s := range settlements {
		if s.PayerID == s.ReceiverID {
			return nil, fmt.Errorf("settlement %s: payer and receiver are the same user", s.ID)
		}
		if !s.Amount.IsPositive() {
			return nil, fmt.Errorf("settlement %s: %w", s.ID, ErrNonPositiveAmount)
		}
		from := balanceKey{s.GroupID, s.PayerID}
		to := balanceKey{s.GroupID, s.ReceiverID}
		balances[from] = balances[from].Add(s.Amount)
		balances[to] = balances[to].Sub(s.Amount)
	}

	result := make([]MemberBalance, 0, len(balances))
	for k, amount := range balances {
		result = append(result, MemberBalance{UserID: k.userID, GroupID: k.groupID, Amount: amount})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].GroupID != result[j].GroupID {
			return result[i].GroupID < result[j].GroupID
		}
		return result[i].UserID < result[j].UserID
	})
	return result, nil
}
