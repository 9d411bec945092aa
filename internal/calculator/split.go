package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNoParticipants       = errors.New("must have at least one participant")
	ErrNonPositiveAmount    = errors.New("amount must be positive")
	ErrTooPrecise           = errors.New("amount must have at most two decimal places")
	ErrDuplicateParticipant = errors.New("participant listed more than once")
)

// Share is one participant's owed portion of an amount.
type Share struct {
	UserID string
	Owed   decimal.Decimal
}

// ValidateAmount checks that amount is a positive number of whole cents.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return ErrTooPrecise
	}
	return nil
}

// EqualSplit divides amount evenly across participants in whole cents.
//
// When the amount does not divide evenly the leftover cents are handed out
// one at a time: first to the payer (if the payer participates), then to the
// remaining participants in the order given. The returned shares keep the
// order of participants and always sum exactly to amount.
func EqualSplit(amount decimal.Decimal, participants []string, payerID string) ([]Share, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if seen[p] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParticipant, p)
		}
		seen[p] = true
	}

	cents := amount.Shift(2).IntPart()
	n := int64(len(participants))
	base := cents / n
	remainder := cents % n

	owed := make([]int64, len(participants))
	for i := range owed {
		owed[i] = base
	}

	// Remainder cents: payer first, then everyone else in listed order.
	order := make([]int, 0, len(participants))
	for i, p := range participants {
		if p == payerID {
			order = append(order, i)
		}
	}
	for i, p := range participants {
		if p != payerID {
			order = append(order, i)
		}
	}
	for k := int64(0); k < remainder; k++ {
		owed[order[k]]++
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{UserID: p, Owed: decimal.New(owed[i], -2)}
	}
	return shares, nil
}
