// Package models defines the core domain models for the ledger.
//
// # Ledger
//
// The ledger is the append-mostly history from which every balance is derived:
//   - Expense: an amount paid by one user on behalf of a set of participants
//   - ExpenseShare: one participant's owed portion of an expense
//   - Settlement: a real-world payment from one user to another
//
// # Derived state
//
//   - Balance: per-user, per-group net amount. Positive means the user is owed
//     money, negative means the user owes money. Balances are a cache that the
//     recalculation engine rebuilds from the ledger; nothing else writes them.
//
// # Schedules
//
//   - RecurringPayment: a template that materializes into one Expense per
//     calendar period until it runs past its end date.
//
// # Design Principles
//
// 1. **Fixed-point money**: amounts are decimal.Decimal with at most two places
// 2. **Calendar dates**: expense, settlement and schedule dates are UTC midnight (see DateOf)
// 3. **Avoid circular references**: relationships use ID strings, never pointers
// 4. **Personal context**: an empty GroupID means the entry is outside any group
package models
