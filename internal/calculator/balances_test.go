package calculator

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func balanceOf(t *testing.T, balances []MemberBalance, groupID, userID string) decimal.Decimal {
	t.Helper()
	for _, b := range balances {
		if b.GroupID == groupID && b.UserID == userID {
			return b.Amount
		}
	}
	t.Fatalf("no balance for %s in group %q", userID, groupID)
	return decimal.Zero
}

func TestComputeBalances_EqualSplit(t *testing.T) {
	expenses := []ExpenseForBalance{{
		ID:      "e1",
		GroupID: "g1",
		PayerID: "A",
		Amount:  d("100"),
		Shares:  []Share{{UserID: "A", Owed: d("50")}, {UserID: "B", Owed: d("50")}},
	}}

	balances, err := ComputeBalances(expenses, nil)
	if err != nil {
		t.Fatalf("ComputeBalances failed: %v", err)
	}

	if got := balanceOf(t, balances, "g1", "A"); !got.Equal(d("50")) {
		t.Errorf("A = %s, want 50", got)
	}
	if got := balanceOf(t, balances, "g1", "B"); !got.Equal(d("-50")) {
		t.Errorf("B = %s, want -50", got)
	}

	t.Run("settlement reduces both sides", func(t *testing.T) {
		settlements := []SettlementForBalance{{ID: "s1", GroupID: "g1", PayerID: "B", ReceiverID: "A", Amount: d("20")}}
		balances, err := ComputeBalances(expenses, settlements)
		if err != nil {
			t.Fatalf("ComputeBalances failed: %v", err)
		}
		if got := balanceOf(t, balances, "g1", "A"); !got.Equal(d("30")) {
			t.Errorf("A = %s, want 30", got)
		}
		if got := balanceOf(t, balances, "g1", "B"); !got.Equal(d("-30")) {
			t.Errorf("B = %s, want -30", got)
		}
	})
}

func TestComputeBalances_GroupsAreSeparate(t *testing.T) {
	expenses := []ExpenseForBalance{
		{ID: "e1", GroupID: "g1", PayerID: "A", Amount: d("30"), Shares: []Share{{UserID: "B", Owed: d("30")}}},
		{ID: "e2", GroupID: "", PayerID: "B", Amount: d("10"), Shares: []Share{{UserID: "A", Owed: d("10")}}},
	}

	balances, err := ComputeBalances(expenses, nil)
	if err != nil {
		t.Fatalf("ComputeBalances failed: %v", err)
	}
	if len(balances) != 4 {
		t.Fatalf("expected 4 balances, got %d", len(balances))
	}
	// Sorted: personal group ("") first.
	if balances[0].GroupID != "" || balances[2].GroupID != "g1" {
		t.Errorf("unexpected order: %+v", balances)
	}
	if got := balanceOf(t, balances, "g1", "A"); !got.Equal(d("30")) {
		t.Errorf("g1/A = %s, want 30", got)
	}
	if got := balanceOf(t, balances, "", "A"); !got.Equal(d("-10")) {
		t.Errorf("personal/A = %s, want -10", got)
	}
}

func TestComputeBalances_RejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name        string
		expenses    []ExpenseForBalance
		settlements []SettlementForBalance
		wantErr     string
	}{
		{
			name: "shares do not add up",
			expenses: []ExpenseForBalance{{
				ID: "bad", PayerID: "A", Amount: d("10"),
				Shares: []Share{{UserID: "A", Owed: d("4")}, {UserID: "B", Owed: d("5")}},
			}},
			wantErr: "expense bad: shares sum to 9",
		},
		{
			name:     "expense without shares",
			expenses: []ExpenseForBalance{{ID: "empty", PayerID: "A", Amount: d("10")}},
			wantErr:  "expense empty",
		},
		{
			name:        "self settlement",
			settlements: []SettlementForBalance{{ID: "self", PayerID: "A", ReceiverID: "A", Amount: d("5")}},
			wantErr:     "settlement self",
		},
		{
			name:        "zero settlement",
			settlements: []SettlementForBalance{{ID: "zero", PayerID: "A", ReceiverID: "B", Amount: decimal.Zero}},
			wantErr:     "settlement zero",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeBalances(tt.expenses, tt.settlements)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestComputeBalances_Idempotent(t *testing.T) {
	expenses := []ExpenseForBalance{
		{ID: "e1", GroupID: "g", PayerID: "A", Amount: d("90"), Shares: []Share{
			{UserID: "A", Owed: d("30")}, {UserID: "B", Owed: d("30")}, {UserID: "C", Owed: d("30")},
		}},
		{ID: "e2", GroupID: "g", PayerID: "C", Amount: d("12"), Shares: []Share{
			{UserID: "B", Owed: d("12")},
		}},
	}
	settlements := []SettlementForBalance{{ID: "s", GroupID: "g", PayerID: "B", ReceiverID: "A", Amount: d("5")}}

	first, err := ComputeBalances(expenses, settlements)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := ComputeBalances(expenses, settlements)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("length mismatch: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].UserID != second[i].UserID || !first[i].Amount.Equal(second[i].Amount) {
			t.Errorf("row %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
