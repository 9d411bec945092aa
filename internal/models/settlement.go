package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement represents a payment between users to clear debts.
// The payer's balance goes up by Amount and the receiver's goes down by the same amount.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to ("" for personal).
	GroupID string

	// PayerID is the user who paid (debtor settling up).
	PayerID string

	// ReceiverID is the user who received payment (creditor being paid).
	ReceiverID string

	// Amount is the payment amount.
	Amount decimal.Decimal

	// Date is the calendar date of the payment.
	Date time.Time

	// Memo is an optional description for the settlement.
	Memo string

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}
