package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/ledgerly/internal/models"
	"github.com/mmynk/ledgerly/internal/storage"
)

// testStore returns a migrated store on an empty schema.
// Skips the test if TEST_DATABASE_URL is not set.
func testStore(t *testing.T) *Store {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	store, err := New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	tables := []string{
		"balances", "expense_shares", "expenses", "recurring_participants",
		"recurring_payments", "settlements", "group_members", "groups", "categories", "users",
	}
	for _, table := range tables {
		_, err := store.pool.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE")
		require.NoError(t, err, "truncate %s", table)
	}
	return store
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestStore_ExpensesAndShares(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	alice := &models.User{Name: "Alice", Email: "alice@example.com"}
	bob := &models.User{Name: "Bob"}
	require.NoError(t, store.CreateUser(ctx, alice))
	require.NoError(t, store.CreateUser(ctx, bob))

	err := store.CreateUser(ctx, &models.User{Name: "Other", Email: "alice@example.com"})
	require.ErrorIs(t, err, storage.ErrConflict)

	group := &models.Group{Name: "Trip", Members: []string{alice.ID, bob.ID}}
	require.NoError(t, store.CreateGroup(ctx, group))

	e := &models.Expense{
		Amount:  decimal.RequireFromString("10.01"),
		PayerID: alice.ID,
		Date:    mustDate(t, "2024-05-01"),
		GroupID: group.ID,
		Shares: []models.ExpenseShare{
			{UserID: alice.ID, OwedAmount: decimal.RequireFromString("5.01")},
			{UserID: bob.ID, OwedAmount: decimal.RequireFromString("5.00")},
		},
	}
	require.NoError(t, store.CreateExpense(ctx, e))

	got, err := store.GetExpense(ctx, e.ID)
	require.NoError(t, err)
	require.True(t, got.Amount.Equal(e.Amount))
	require.Equal(t, e.Date, got.Date)
	require.Len(t, got.Shares, 2)
	require.Equal(t, alice.ID, got.Shares[0].UserID)

	listed, err := store.ListExpenses(ctx, storage.GroupScope(group.ID))
	require.NoError(t, err)
	require.Len(t, listed, 1)

	err = store.RebuildBalances(ctx, []storage.Scope{storage.GroupScope(group.ID)},
		func(es []*models.Expense, sts []*models.Settlement) ([]models.Balance, error) {
			require.Len(t, es, 1)
			require.Len(t, es[0].Shares, 2)
			require.Empty(t, sts)
			return []models.Balance{
				{UserID: alice.ID, GroupID: group.ID, Amount: decimal.RequireFromString("5.00")},
				{UserID: bob.ID, GroupID: group.ID, Amount: decimal.RequireFromString("-5.00")},
			}, nil
		})
	require.NoError(t, err)
	balances, err := store.ListBalances(ctx, storage.GroupScope(group.ID))
	require.NoError(t, err)
	require.Len(t, balances, 2)

	personal, err := store.ListExpenses(ctx, storage.Personal())
	require.NoError(t, err)
	require.Empty(t, personal)

	require.NoError(t, store.DeleteExpense(ctx, e.ID))
	_, err = store.GetExpense(ctx, e.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_BalancesAndSchedules(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	payer := &models.User{Name: "Payer"}
	require.NoError(t, store.CreateUser(ctx, payer))

	require.NoError(t, store.ReplaceBalances(ctx, []storage.Scope{storage.AllScopes()}, []models.Balance{
		{UserID: "a", GroupID: "g", Amount: decimal.RequireFromString("3.50")},
		{UserID: "b", GroupID: "g", Amount: decimal.RequireFromString("-3.50")},
	}))
	balances, err := store.ListBalances(ctx, storage.GroupScope("g"))
	require.NoError(t, err)
	require.Len(t, balances, 2)
	require.True(t, balances[0].Amount.Equal(decimal.RequireFromString("3.5")))

	start := mustDate(t, "2024-01-31")
	rp := &models.RecurringPayment{
		Amount:    decimal.RequireFromString("20"),
		PayerID:   payer.ID,
		Frequency: models.FrequencyMonth,
		Interval:  1,
		StartDate: start,
		NextDue:   &start,
		Active:    true,
	}
	require.NoError(t, store.CreateRecurringPayment(ctx, rp))

	due, err := store.ListDueRecurringPayments(ctx, mustDate(t, "2024-02-01"), storage.AllScopes())
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Nil(t, due[0].EndDate)

	require.NoError(t, store.UpdateRecurringSchedule(ctx, rp.ID, nil, false))
	got, err := store.GetRecurringPayment(ctx, rp.ID)
	require.NoError(t, err)
	require.False(t, got.Active)
	require.Nil(t, got.NextDue)
}
