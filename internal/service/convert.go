package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerly/internal/calculator"
	"github.com/mmynk/ledgerly/internal/ledger"
	"github.com/mmynk/ledgerly/internal/models"
	"github.com/mmynk/ledgerly/pkg/api"
)

func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &ledger.ValidationError{Field: field, Message: "not a decimal number: " + s}
	}
	return d, nil
}

func parseAmountPtr(field string, s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := parseAmount(field, *s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseDate parses a YYYY-MM-DD date. An empty string yields the zero time.
func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := models.ParseDate(s)
	if err != nil {
		return time.Time{}, &ledger.ValidationError{Field: field, Message: "expected YYYY-MM-DD, got " + s}
	}
	return t, nil
}

func parseDatePtr(field string, s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	if *s == "" {
		return nil, &ledger.ValidationError{Field: field, Message: "must not be empty"}
	}
	t, err := parseDate(field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(models.DateLayout)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toAPIExpense(e *models.Expense) *api.Expense {
	shares := make([]api.Share, len(e.Shares))
	for i, s := range e.Shares {
		shares[i] = api.Share{UserID: s.UserID, OwedAmount: formatAmount(s.OwedAmount)}
	}
	return &api.Expense{
		ID:                 e.ID,
		Amount:             formatAmount(e.Amount),
		PayerID:            e.PayerID,
		CategoryID:         e.CategoryID,
		Memo:               e.Memo,
		Date:               formatDate(e.Date),
		GroupID:            e.GroupID,
		RecurringPaymentID: e.RecurringPaymentID,
		Shares:             shares,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func toAPIExpenses(expenses []*models.Expense) []*api.Expense {
	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}
	return out
}

func toAPISettlement(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:         s.ID,
		GroupID:    s.GroupID,
		PayerID:    s.PayerID,
		ReceiverID: s.ReceiverID,
		Amount:     formatAmount(s.Amount),
		Date:       formatDate(s.Date),
		Memo:       s.Memo,
		CreatedAt:  s.CreatedAt,
	}
}

func toAPIBalances(balances []models.Balance) []*api.Balance {
	out := make([]*api.Balance, len(balances))
	for i, b := range balances {
		out[i] = &api.Balance{
			UserID:    b.UserID,
			GroupID:   b.GroupID,
			Amount:    formatAmount(b.Amount),
			UpdatedAt: b.UpdatedAt,
		}
	}
	return out
}

func toAPITransfers(transfers []calculator.Transfer) []*api.Transfer {
	out := make([]*api.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = &api.Transfer{From: t.From, To: t.To, Amount: formatAmount(t.Amount)}
	}
	return out
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toAPIGroup(g *models.Group) *api.Group {
	return &api.Group{ID: g.ID, Name: g.Name, MemberIDs: g.Members, CreatedAt: g.CreatedAt}
}

func toAPICategory(c *models.Category) *api.Category {
	return &api.Category{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

func toAPIRecurring(rp *models.RecurringPayment) *api.RecurringPayment {
	return &api.RecurringPayment{
		ID:           rp.ID,
		Amount:       formatAmount(rp.Amount),
		PayerID:      rp.PayerID,
		Participants: rp.Participants,
		CategoryID:   rp.CategoryID,
		Memo:         rp.Memo,
		GroupID:      rp.GroupID,
		Frequency:    string(rp.Frequency),
		Interval:     rp.Interval,
		StartDate:    formatDate(rp.StartDate),
		NextDue:      formatDatePtr(rp.NextDue),
		EndDate:      formatDatePtr(rp.EndDate),
		Active:       rp.Active,
		CreatedAt:    rp.CreatedAt,
		UpdatedAt:    rp.UpdatedAt,
	}
}
