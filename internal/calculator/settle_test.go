package calculator

import (
	"testing"
)

func TestSuggestSettlements(t *testing.T) {
	tests := []struct {
		name     string
		balances []MemberBalance
		want     []Transfer
	}{
		{
			name: "one creditor, two debtors: largest debtor first",
			balances: []MemberBalance{
				{UserID: "A", Amount: d("30")},
				{UserID: "B", Amount: d("-10")},
				{UserID: "C", Amount: d("-20")},
			},
			want: []Transfer{
				{From: "C", To: "A", Amount: d("20")},
				{From: "B", To: "A", Amount: d("10")},
			},
		},
		{
			name: "simple pair",
			balances: []MemberBalance{
				{UserID: "A", Amount: d("50")},
				{UserID: "B", Amount: d("-50")},
			},
			want: []Transfer{{From: "B", To: "A", Amount: d("50")}},
		},
		{
			name: "debtor split across two creditors",
			balances: []MemberBalance{
				{UserID: "A", Amount: d("25")},
				{UserID: "B", Amount: d("15")},
				{UserID: "C", Amount: d("-40")},
			},
			want: []Transfer{
				{From: "C", To: "A", Amount: d("25")},
				{From: "C", To: "B", Amount: d("15")},
			},
		},
		{
			name: "ties keep input order",
			balances: []MemberBalance{
				{UserID: "B", Amount: d("-10")},
				{UserID: "A", Amount: d("20")},
				{UserID: "C", Amount: d("-10")},
			},
			want: []Transfer{
				{From: "B", To: "A", Amount: d("10")},
				{From: "C", To: "A", Amount: d("10")},
			},
		},
		{
			name: "zero balances are ignored",
			balances: []MemberBalance{
				{UserID: "A", Amount: d("0")},
				{UserID: "B", Amount: d("0.00")},
			},
			want: nil,
		},
		{
			name: "one cent is still settled",
			balances: []MemberBalance{
				{UserID: "A", Amount: d("0.01")},
				{UserID: "B", Amount: d("-0.01")},
			},
			want: []Transfer{{From: "B", To: "A", Amount: d("0.01")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestSettlements(tt.balances)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d transfers %+v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i].From != tt.want[i].From || got[i].To != tt.want[i].To || !got[i].Amount.Equal(tt.want[i].Amount) {
					t.Errorf("transfer %d = %s->%s %s, want %s->%s %s", i,
						got[i].From, got[i].To, got[i].Amount,
						tt.want[i].From, tt.want[i].To, tt.want[i].Amount)
				}
			}
		})
	}
}
