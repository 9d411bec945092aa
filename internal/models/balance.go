package models

import "github.com/shopspring/decimal"

// Balance is the derived net position of a user within a group.
// Positive = the user is owed money, negative = the user owes money.
//
// Balances are a materialized cache: the recalculation engine deletes and
// rebuilds them from expenses, shares and settlements.
type Balance struct {
	UserID    string
	GroupID   string
	Amount    decimal.Decimal
	UpdatedAt int64
}
