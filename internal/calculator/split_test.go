package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEqualSplit(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		participants []string
		payer        string
		wantErr      error
		want         map[string]string
	}{
		{
			name:         "even two-person split",
			amount:       "100",
			participants: []string{"Alice", "Bob"},
			payer:        "Alice",
			want:         map[string]string{"Alice": "50", "Bob": "50"},
		},
		{
			name:         "remainder cent goes to payer",
			amount:       "100",
			participants: []string{"Alice", "Bob", "Charlie"},
			payer:        "Bob",
			want:         map[string]string{"Alice": "33.33", "Bob": "33.34", "Charlie": "33.33"},
		},
		{
			name:         "two remainder cents: payer then first other participant",
			amount:       "0.05",
			participants: []string{"Alice", "Bob", "Charlie"},
			payer:        "Charlie",
			want:         map[string]string{"Alice": "0.02", "Bob": "0.01", "Charlie": "0.02"},
		},
		{
			name:         "payer not participating: remainder in listed order",
			amount:       "10",
			participants: []string{"Alice", "Bob", "Charlie"},
			payer:        "Diana",
			want:         map[string]string{"Alice": "3.34", "Bob": "3.33", "Charlie": "3.33"},
		},
		{
			name:         "single participant owes everything",
			amount:       "12.34",
			participants: []string{"Alice"},
			payer:        "Alice",
			want:         map[string]string{"Alice": "12.34"},
		},
		{
			name:         "no participants should error",
			amount:       "10",
			participants: []string{},
			wantErr:      ErrNoParticipants,
		},
		{
			name:         "zero amount should error",
			amount:       "0",
			participants: []string{"Alice"},
			wantErr:      ErrNonPositiveAmount,
		},
		{
			name:         "negative amount should error",
			amount:       "-5",
			participants: []string{"Alice"},
			wantErr:      ErrNonPositiveAmount,
		},
		{
			name:         "sub-cent amount should error",
			amount:       "10.005",
			participants: []string{"Alice"},
			wantErr:      ErrTooPrecise,
		},
		{
			name:         "duplicate participant should error",
			amount:       "10",
			participants: []string{"Alice", "Alice"},
			wantErr:      ErrDuplicateParticipant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := EqualSplit(d(tt.amount), tt.participants, tt.payer)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("EqualSplit() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("EqualSplit() unexpected error: %v", err)
			}

			if len(shares) != len(tt.participants) {
				t.Fatalf("got %d shares, want %d", len(shares), len(tt.participants))
			}
			sum := decimal.Zero
			for i, s := range shares {
				if s.UserID != tt.participants[i] {
					t.Errorf("share %d user = %s, want %s", i, s.UserID, tt.participants[i])
				}
				if !s.Owed.Equal(d(tt.want[s.UserID])) {
					t.Errorf("%s owes %s, want %s", s.UserID, s.Owed, tt.want[s.UserID])
				}
				sum = sum.Add(s.Owed)
			}
			if !sum.Equal(d(tt.amount)) {
				t.Errorf("shares sum to %s, want %s", sum, tt.amount)
			}
		})
	}
}
