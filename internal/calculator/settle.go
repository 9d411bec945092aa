package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Transfer is a suggested payment that moves a debtor towards zero.
type Transfer struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

type party struct {
	userID    string
	remaining decimal.Decimal
}

// SuggestSettlements reduces a snapshot of balances to a short list of transfers.
//
// Greedy algorithm: creditors and debtors are each ordered by absolute amount,
// largest first (stable, so equal amounts keep their input order). The largest
// remaining debtor pays the largest remaining creditor the smaller of the two
// remainders until either side runs out. This keeps the transfer count low in
// common cases but is not guaranteed to be globally minimal.
//
// Balances are expected to come from a single group. Amounts are exact
// decimals, so there is no rounding tolerance: any non-zero balance, one cent
// included, takes part, and a party is done once its remainder is exactly
// zero. {A: +0.01, B: -0.01} yields B pays A 0.01.
func SuggestSettlements(balances []MemberBalance) []Transfer {
	var creditors, debtors []party
	for _, b := range balances {
		switch {
		case b.Amount.IsPositive():
			creditors = append(creditors, party{userID: b.UserID, remaining: b.Amount})
		case b.Amount.IsNegative():
			debtors = append(debtors, party{userID: b.UserID, remaining: b.Amount.Neg()})
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].remaining.GreaterThan(creditors[j].remaining)
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].remaining.GreaterThan(debtors[j].remaining)
	})

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := decimal.Min(debtor.remaining, creditor.remaining)
		transfers = append(transfers, Transfer{
			From:   debtor.userID,
			To:     creditor.userID,
			Amount: amount,
		})

		debtor.remaining = debtor.remaining.Sub(amount)
		creditor.remaining = creditor.remaining.Sub(amount)

		if !debtor.remaining.IsPositive() {
			i++
		}
		if !creditor.remaining.IsPositive() {
			j++
		}
	}

	return transfers
}
